package layout

import (
	"strings"

	"github.com/dshills/chatterm/internal/renderer/core"
	"github.com/dshills/chatterm/internal/renderer/glyph"
)

// ShiftLine moves a line right (positive amount) or left (negative) by
// adjusting its leading blank. A leading blank may become negative; TrimLine
// drops the columns it pushes off the left edge.
func ShiftLine(line Line, amount int) Line {
	if len(line) > 0 && line[0].Kind == KindBlank {
		amount += line[0].Width
		if amount != 0 {
			return append(Line{Blank(amount)}, line[1:]...)
		}
		return line[1:]
	}
	if amount != 0 {
		return append(Line{Blank(amount)}, line...)
	}
	return line
}

// TrimLine returns the part of line that falls in the columns
// [startCol, endCol). Spans and literals cut through a wide character are
// padded with a blank column in its place.
func TrimLine(cls glyph.Classifier, text string, line Line, startCol, endCol int) Line {
	var out Line
	x := 0
	for i, s := range line {
		if i == 0 && s.Kind == KindBlank && s.Width < 0 {
			x = s.Width
			continue
		}
		left := x
		x += s.Width
		if s.Width == 0 {
			if left >= startCol && left <= endCol {
				out = append(out, s)
			}
			continue
		}
		lo, hi := max(left, startCol), min(x, endCol)
		if lo >= hi {
			continue
		}
		if lo == left && hi == x {
			out = append(out, s)
			continue
		}
		out = append(out, subSegment(cls, text, s, lo-left, hi-left)...)
	}
	return out
}

// subSegment cuts s to its own columns [start, end).
func subSegment(cls glyph.Classifier, text string, s Segment, start, end int) Line {
	switch s.Kind {
	case KindSpan:
		t := glyph.TrimText(cls, text, s.Start, s.End, start, end)
		var out Line
		if t.PadLeft > 0 {
			out = append(out, Anchor(1, glyph.PrevBoundary(text, s.Start, t.Start)))
		}
		if t.Start != t.End {
			out = append(out, Span(end-start-t.PadLeft-t.PadRight, t.Start, t.End))
		}
		if t.PadRight > 0 {
			out = append(out, Anchor(1, t.End))
		}
		return out
	case KindLiteral:
		t := glyph.TrimText(cls, s.Text, 0, core.Offset(len(s.Text)), start, end)
		lit := strings.Repeat(" ", t.PadLeft) + s.Text[t.Start:t.End] + strings.Repeat(" ", t.PadRight)
		return Line{Literal(end-start, s.Start, lit)}
	case KindAnchor:
		return Line{Anchor(end-start, s.Start)}
	default:
		return Line{Blank(end - start)}
	}
}

// Pack returns the columns needed to show every line without wrapping,
// capped at maxCol. Leading alignment blanks are not counted.
func Pack(maxCol int, l Layout) int {
	widest := 0
	for _, line := range l {
		w := line.ContentWidth()
		if w >= maxCol {
			return maxCol
		}
		if w > widest {
			widest = w
		}
	}
	return widest
}
