// Package core provides shared value types for the renderer subsystem.
//
// It sits below glyph, layout, canvas and backend so those packages can
// exchange byte offsets, run-length attribute lists, screen positions and
// styles without import cycles.
package core
