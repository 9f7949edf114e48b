// Package renderer paints laid-out canvases onto a terminal backend.
//
// The renderer is the last stage of the text pipeline:
//
//	┌─────────────────────────────────────────┐
//	│   widget / chat (markup, bubbles)       │
//	├─────────────────────────────────────────┤
//	│   layout (segments, alignment, coords)  │
//	├─────────────────────────────────────────┤
//	│   canvas (compose, stack, columns)      │
//	├─────────────────────────────────────────┤
//	│   Renderer (palette, cells, cursor)     │
//	├─────────────────────────────────────────┤
//	│   backend (tcell terminal, null)        │
//	└─────────────────────────────────────────┘
//
// Canvas rows carry attribute runs naming a core.Tag. The renderer maps
// each tag to a style through a Palette, decodes the row bytes with the
// same classifier used for layout and emits one cell per column.
//
// Usage:
//
//	be, _ := backend.NewTerminal()
//	r := renderer.New(be, glyph.DefaultTable)
//	r.SetPalette(palette)
//	r.Draw(c, 0, 0)
//	r.Show()
package renderer
