package layout

import (
	"fmt"
	"strings"

	"github.com/dshills/chatterm/internal/renderer/core"
	"github.com/dshills/chatterm/internal/renderer/glyph"
)

// WrapMode selects how lines wider than the budget are handled.
type WrapMode uint8

const (
	// WrapSpace breaks at spaces, falling back to character breaks.
	WrapSpace WrapMode = iota
	// WrapAny breaks at any character boundary.
	WrapAny
	// WrapClip cuts each line at the budget.
	WrapClip
	// WrapEllipsis cuts each line and marks the cut with an ellipsis.
	WrapEllipsis
)

var wrapNames = map[WrapMode]string{
	WrapSpace:    "space",
	WrapAny:      "any",
	WrapClip:     "clip",
	WrapEllipsis: "ellipsis",
}

// String returns the configuration name of the mode.
func (w WrapMode) String() string {
	if s, ok := wrapNames[w]; ok {
		return s
	}
	return fmt.Sprintf("WrapMode(%d)", uint8(w))
}

// ParseWrapMode parses a configuration name.
func ParseWrapMode(s string) (WrapMode, error) {
	for m, name := range wrapNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return WrapSpace, fmt.Errorf("unknown wrap mode %q", s)
}

// Align is the horizontal alignment of lines within the budget.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

var alignNames = map[Align]string{
	AlignLeft:   "left",
	AlignCenter: "center",
	AlignRight:  "right",
}

// String returns the configuration name of the alignment.
func (a Align) String() string {
	if s, ok := alignNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Align(%d)", uint8(a))
}

// ParseAlign parses a configuration name.
func ParseAlign(s string) (Align, error) {
	for a, name := range alignNames {
		if strings.EqualFold(s, name) {
			return a, nil
		}
	}
	return AlignLeft, fmt.Errorf("unknown alignment %q", s)
}

// Ellipsis is the marker appended to lines cut by WrapEllipsis.
const Ellipsis = "…"

// Engine computes layouts using a width classifier.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	widths glyph.Classifier
}

// NewEngine creates an engine. A nil classifier selects glyph.DefaultTable.
func NewEngine(widths glyph.Classifier) *Engine {
	if widths == nil {
		widths = glyph.DefaultTable
	}
	return &Engine{widths: widths}
}

// Classifier returns the width classifier used by the engine.
func (e *Engine) Classifier() glyph.Classifier {
	return e.widths
}

// Layout segments text and aligns each line within width.
func (e *Engine) Layout(text string, width int, align Align, wrap WrapMode) (Layout, error) {
	segs, err := e.Segments(text, width, wrap)
	if err != nil {
		return nil, err
	}
	return e.Align(width, segs, align), nil
}

// Align returns a copy of segs with each line shifted within width.
// Lines at or beyond full width are unchanged.
func (e *Engine) Align(width int, segs Layout, align Align) Layout {
	out := make(Layout, len(segs))
	for i, line := range segs {
		extra := width - line.Width()
		if extra <= 0 || align == AlignLeft {
			out[i] = line
			continue
		}
		if align == AlignCenter {
			extra /= 2
		}
		if extra == 0 {
			out[i] = line
			continue
		}
		out[i] = append(Line{Blank(extra)}, line...)
	}
	return out
}

// Segments splits text into lines of at most width columns.
// Newlines are never rendered; each becomes a zero-width anchor.
// Width must be at least 1.
func (e *Engine) Segments(text string, width int, wrap WrapMode) (Layout, error) {
	if width < 1 {
		width = 1
	}
	switch wrap {
	case WrapClip, WrapEllipsis:
		return e.cut(text, width, wrap == WrapEllipsis), nil
	default:
		return e.wrap(text, width, wrap == WrapSpace)
	}
}

// cut produces exactly one line per newline-delimited run.
func (e *Engine) cut(text string, width int, ellipsis bool) Layout {
	var out Layout
	end := core.Offset(len(text))
	for p := core.Offset(0); p <= end; {
		ncr := nextNewline(text, p)
		sc := glyph.StringWidth(e.widths, text, p, ncr)

		nEnd := ncr
		padRight := 0
		trimmed := false
		if sc > width {
			budget := width
			if ellipsis {
				budget = width - 1
				trimmed = true
			}
			t := glyph.TrimText(e.widths, text, p, ncr, 0, budget)
			nEnd, padRight = t.End, t.PadRight
			sc = budget - padRight
		}

		var line Line
		if p != nEnd {
			line = append(line, Span(sc, p, nEnd))
		}
		if trimmed {
			line = append(line, Literal(1, nEnd, Ellipsis))
		}
		line = append(line, Anchor(padRight, nEnd))
		out = append(out, line)
		p = ncr + 1
	}
	return out
}

// wrap breaks runs wider than width across several lines.
func (e *Engine) wrap(text string, width int, atSpace bool) (Layout, error) {
	var out Layout
	end := core.Offset(len(text))
	for p := core.Offset(0); p <= end; {
		ncr := nextNewline(text, p)
		sc := glyph.StringWidth(e.widths, text, p, ncr)
		if sc == 0 {
			out = append(out, Line{Anchor(0, ncr)})
			p = ncr + 1
			continue
		}
		if sc <= width {
			out = append(out, Line{Span(sc, p, ncr), Anchor(0, ncr)})
			p = ncr + 1
			continue
		}

		pos, sc := glyph.TextPos(e.widths, text, p, ncr, width)
		if pos == p {
			return nil, &UnrenderableError{Offset: p, Width: width}
		}
		if !atSpace {
			out = append(out, Line{Span(sc, p, pos)})
			p = pos
			continue
		}

		if text[pos] == ' ' {
			out = append(out, Line{Span(sc, p, pos), Anchor(0, pos)})
			p = pos + 1
			continue
		}
		if glyph.IsWide(e.widths, text, pos) {
			out = append(out, Line{Span(sc, p, pos)})
			p = pos
			continue
		}

		if line, next, ok := e.breakBefore(text, p, pos); ok {
			out = append(out, line)
			p = next
			continue
		}

		if line, next, ok, err := e.reclaim(text, out, ncr, width); err != nil {
			return nil, err
		} else if ok {
			out[len(out)-1] = line
			p = next
			continue
		}

		// No word boundary in reach: split the word.
		out = append(out, Line{Span(sc, p, pos)})
		p = pos
	}
	return out, nil
}

// breakBefore scans back from pos for a space to consume or a wide
// character to break after.
func (e *Engine) breakBefore(text string, p, pos core.Offset) (Line, core.Offset, bool) {
	for prev := pos; prev > p; {
		prev = glyph.PrevBoundary(text, p, prev)
		if text[prev] == ' ' {
			line := Line{Anchor(0, prev)}
			if p != prev {
				sc := glyph.StringWidth(e.widths, text, p, prev)
				line = Line{Span(sc, p, prev), Anchor(0, prev)}
			}
			return line, prev + 1, true
		}
		if glyph.IsWide(e.widths, text, prev) {
			next := glyph.NextBoundary(text, prev, pos)
			sc := glyph.StringWidth(e.widths, text, p, next)
			return Line{Span(sc, p, next)}, next, true
		}
	}
	return nil, 0, false
}

// reclaim re-lays the previous line when it ended on a consumed space
// and still had room, pulling the start of the current word up into it.
// On success the returned line replaces the last line of out.
func (e *Engine) reclaim(text string, out Layout, ncr core.Offset, width int) (Line, core.Offset, bool, error) {
	if len(out) == 0 {
		return nil, 0, false, nil
	}
	last := out[len(out)-1]

	var pSc int
	var pOff core.Offset
	var hold Segment
	switch {
	case len(last) == 1 && last[0].Kind == KindAnchor:
		hold = last[0]
		pOff = hold.Start
	case len(last) == 2 && last[0].Kind == KindSpan && last[1].Kind == KindAnchor:
		pSc, pOff = last[0].Width, last[0].Start
		hold = last[1]
	default:
		return nil, 0, false, nil
	}
	if pSc >= width || hold.Width != 0 || int(hold.Start) >= len(text) || text[hold.Start] != ' ' {
		return nil, 0, false, nil
	}

	pos, sc := glyph.TextPos(e.widths, text, pOff, ncr, width)
	if pos == pOff {
		return nil, 0, false, &UnrenderableError{Offset: pOff, Width: width}
	}
	line := Line{Span(sc, pOff, pos)}
	p := pos
	if int(p) < len(text) && (text[p] == ' ' || text[p] == '\n') {
		line = append(line, Anchor(0, p))
		p++
	}
	return line, p, true, nil
}

func nextNewline(text string, p core.Offset) core.Offset {
	if int(p) >= len(text) {
		return core.Offset(len(text))
	}
	i := strings.IndexByte(text[p:], '\n')
	if i < 0 {
		return core.Offset(len(text))
	}
	return p + core.Offset(i)
}
