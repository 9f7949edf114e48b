package canvas

import (
	"strings"

	"github.com/dshills/chatterm/internal/renderer/core"
	"github.com/dshills/chatterm/internal/renderer/glyph"
	"github.com/dshills/chatterm/internal/renderer/layout"
)

// Options control composition.
type Options struct {
	// SidePadding frames the content of each line with one blank column
	// on either side. The layout must leave two columns free for it.
	SidePadding bool
}

// Compose renders text through a layout into a canvas of maxCol columns.
// attr must not cover more bytes than text has; a short list is extended
// with untagged bytes.
func Compose(cls glyph.Classifier, text string, attr core.Runs, l layout.Layout, maxCol int, opts Options) (*Canvas, error) {
	if attr.Len() > len(text) {
		return nil, &ContractError{Row: -1, Reason: "attributes extend beyond text"}
	}

	w := &attrWalker{runs: attr}
	rows := make([]string, len(l))
	attrs := make([]core.Runs, len(l))
	charsets := make([]core.Runs, len(l))

	for i, line := range l {
		line = layout.TrimLine(cls, text, line, 0, maxCol)

		pieces := make([]piece, 0, len(line))
		for _, s := range line {
			switch s.Kind {
			case layout.KindSpan:
				var a core.Runs
				for _, r := range w.between(int(s.Start), int(s.End)) {
					a = a.Append(r)
				}
				pieces = append(pieces, newPiece(text[s.Start:s.End], a))
			case layout.KindLiteral:
				a := core.Runs{}.Append(core.Run{Tag: w.at(int(s.Start)), Len: len(s.Text)})
				pieces = append(pieces, newPiece(s.Text, a))
			case layout.KindAnchor:
				if s.Width > 0 {
					a := core.Runs{}.Append(core.Run{Tag: w.at(int(s.Start)), Len: s.Width})
					pieces = append(pieces, newPiece(strings.Repeat(" ", s.Width), a))
				}
			default:
				if s.Width > 0 {
					pieces = append(pieces, newPiece(strings.Repeat(" ", s.Width), core.Runs{{Len: s.Width}}))
				}
			}
		}
		if opts.SidePadding {
			frame(pieces)
		}

		var b strings.Builder
		for _, p := range pieces {
			b.WriteString(p.text)
			attrs[i] = attrs[i].Join(p.attr)
			charsets[i] = charsets[i].Join(p.charset)
		}
		rows[i] = b.String()
	}
	return New(cls, rows, attrs, charsets, maxCol)
}

// piece is the rendering of one segment.
type piece struct {
	text    string
	attr    core.Runs
	charset core.Runs
}

func newPiece(text string, attr core.Runs) piece {
	return piece{
		text:    text,
		attr:    attr,
		charset: core.Runs{}.Append(core.Run{Tag: core.NoTag, Len: len(text)}),
	}
}

// frame pads the visible content of a line with a space on each side.
// The runs at the edges absorb the added bytes. Padding each segment
// separately would push a trimmed span plus its ellipsis past maxCol.
func frame(pieces []piece) {
	first, last := -1, -1
	for i, p := range pieces {
		if strings.TrimSpace(p.text) != "" {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return
	}
	pieces[first].text = " " + pieces[first].text
	pieces[first].attr = pieces[first].attr.Widen(1, 0)
	pieces[first].charset = pieces[first].charset.Widen(1, 0)
	pieces[last].text += " "
	pieces[last].attr = pieces[last].attr.Widen(0, 1)
	pieces[last].charset = pieces[last].charset.Widen(0, 1)
}

// attrWalker slices a run list by byte range. Successive queries with
// non-decreasing starts resume where the previous one stopped.
type attrWalker struct {
	runs core.Runs
	k    int // index of the current run
	off  int // byte offset where runs[k] starts
}

// between returns the runs covering [start, end), splitting at the edges.
// Bytes past the end of the list are untagged.
func (w *attrWalker) between(start, end int) core.Runs {
	if start < w.off {
		w.k, w.off = 0, 0
	}
	var out core.Runs
	for w.off <= end {
		if w.k >= len(w.runs) {
			out = append(out, core.Run{Tag: core.NoTag, Len: end - max(start, w.off)})
			break
		}
		r := w.runs[w.k]
		if w.off+r.Len <= start {
			w.k++
			w.off += r.Len
			continue
		}
		if end <= w.off+r.Len {
			out = append(out, core.Run{Tag: r.Tag, Len: end - max(start, w.off)})
			break
		}
		out = append(out, core.Run{Tag: r.Tag, Len: w.off + r.Len - max(start, w.off)})
		w.k++
		w.off += r.Len
	}
	return out
}

// at returns the tag of the byte at off.
func (w *attrWalker) at(off int) core.Tag {
	rs := w.between(off, off)
	if len(rs) == 0 {
		return core.NoTag
	}
	return rs[0].Tag
}
