// Package layout turns text into line layouts: lists of segments that say
// which bytes of the text land in which screen columns.
//
// A layout never copies the text. Spans reference byte ranges of the
// caller's string, so the same string must be passed to every function
// that consumes the layout.
package layout

import (
	"fmt"
	"strings"

	"github.com/dshills/chatterm/internal/renderer/core"
)

// Kind identifies the shape of a segment.
type Kind uint8

const (
	// KindBlank is column padding with no text position.
	KindBlank Kind = iota
	// KindAnchor is padding tied to a text position. Zero-width anchors
	// mark consumed separators (newlines, wrap spaces).
	KindAnchor
	// KindSpan renders text[Start:End].
	KindSpan
	// KindLiteral renders Text in place of the source, anchored at Start.
	KindLiteral
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindAnchor:
		return "anchor"
	case KindSpan:
		return "span"
	case KindLiteral:
		return "literal"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Segment is one piece of a line layout.
type Segment struct {
	Kind  Kind
	Width int         // display columns
	Start core.Offset // span start, or the anchor/literal offset
	End   core.Offset // span end; equal to Start for other kinds
	Text  string      // literal replacement bytes
}

// Blank returns a padding segment of width columns.
func Blank(width int) Segment {
	return Segment{Kind: KindBlank, Width: width}
}

// Anchor returns a padding segment of width columns tied to off.
func Anchor(width int, off core.Offset) Segment {
	return Segment{Kind: KindAnchor, Width: width, Start: off, End: off}
}

// Span returns a segment rendering text[start:end] in width columns.
func Span(width int, start, end core.Offset) Segment {
	return Segment{Kind: KindSpan, Width: width, Start: start, End: end}
}

// Literal returns a segment rendering text in width columns, anchored at off.
func Literal(width int, off core.Offset, text string) Segment {
	return Segment{Kind: KindLiteral, Width: width, Start: off, End: off, Text: text}
}

// HasOffset reports whether the segment is tied to a text position.
func (s Segment) HasOffset() bool {
	return s.Kind != KindBlank
}

// String returns a compact description used in test failures.
func (s Segment) String() string {
	switch s.Kind {
	case KindBlank:
		return fmt.Sprintf("(%d,-)", s.Width)
	case KindAnchor:
		return fmt.Sprintf("(%d,@%d)", s.Width, s.Start)
	case KindSpan:
		return fmt.Sprintf("(%d,%d:%d)", s.Width, s.Start, s.End)
	default:
		return fmt.Sprintf("(%d,@%d,%q)", s.Width, s.Start, s.Text)
	}
}

// Line is the layout of one screen row.
type Line []Segment

// Width returns the total display width of the line.
func (l Line) Width() int {
	w := 0
	for _, s := range l {
		w += s.Width
	}
	return w
}

// ContentWidth returns the width without a leading alignment blank.
func (l Line) ContentWidth() int {
	if len(l) > 0 && l[0].Kind == KindBlank {
		return l[1:].Width()
	}
	return l.Width()
}

// String joins the segment descriptions.
func (l Line) String() string {
	parts := make([]string, len(l))
	for i, s := range l {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Layout is the list of lines produced for a text.
type Layout []Line

// Rows returns the number of lines.
func (l Layout) Rows() int {
	return len(l)
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	out := make(Layout, len(l))
	for i, line := range l {
		out[i] = append(Line(nil), line...)
	}
	return out
}
