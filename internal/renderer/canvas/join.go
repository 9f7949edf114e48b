package canvas

import (
	"fmt"
	"strings"

	"github.com/dshills/chatterm/internal/renderer/core"
)

// Stack joins canvases top to bottom. Narrower canvases are padded on the
// right to the widest one. The first cursor found is kept.
func Stack(parts ...*Canvas) *Canvas {
	out := &Canvas{}
	for _, p := range parts {
		out.cols = max(out.cols, p.cols)
	}
	for _, p := range parts {
		if pos, ok := p.Cursor(); ok && out.cursor == nil {
			moved := pos.Add(len(out.rows), 0)
			out.cursor = &moved
		}
		gap := out.cols - p.cols
		for i := range p.rows {
			text, attrs, charsets := p.rows[i], p.attrs[i].Clone(), p.charsets[i].Clone()
			if gap > 0 {
				text += strings.Repeat(" ", gap)
				attrs = attrs.Append(core.Run{Tag: core.NoTag, Len: gap})
				charsets = charsets.Append(core.Run{Tag: core.NoTag, Len: gap})
			}
			out.rows = append(out.rows, text)
			out.attrs = append(out.attrs, attrs)
			out.charsets = append(out.charsets, charsets)
		}
	}
	return out
}

// Column places a canvas in a fixed-width column of a horizontal join.
type Column struct {
	Canvas *Canvas
	Width  int
}

// JoinColumns joins canvases left to right. Each column is padded to its
// Width and to the height of the tallest column; a canvas wider than its
// column is a contract violation.
func JoinColumns(cols ...Column) (*Canvas, error) {
	out := &Canvas{}
	height := 0
	for i, c := range cols {
		if c.Canvas != nil && c.Canvas.cols > c.Width {
			return nil, &ContractError{Row: -1, Reason: fmt.Sprintf("column %d is %d wide, canvas has %d columns", i, c.Width, c.Canvas.cols)}
		}
		if c.Canvas != nil {
			height = max(height, c.Canvas.Rows())
		}
		out.cols += c.Width
	}

	out.rows = make([]string, height)
	out.attrs = make([]core.Runs, height)
	out.charsets = make([]core.Runs, height)
	x := 0
	for _, c := range cols {
		if c.Canvas != nil && out.cursor == nil {
			if pos, ok := c.Canvas.Cursor(); ok {
				moved := pos.Add(0, x)
				out.cursor = &moved
			}
		}
		for row := 0; row < height; row++ {
			var text string
			var attrs, charsets core.Runs
			used := 0
			if c.Canvas != nil && row < c.Canvas.Rows() {
				text = c.Canvas.rows[row]
				attrs, charsets = c.Canvas.attrs[row], c.Canvas.charsets[row]
				used = c.Canvas.cols
			}
			out.rows[row] += text
			out.attrs[row] = out.attrs[row].Join(attrs)
			out.charsets[row] = out.charsets[row].Join(charsets)
			if gap := c.Width - used; gap > 0 {
				out.rows[row] += strings.Repeat(" ", gap)
				out.attrs[row] = out.attrs[row].Append(core.Run{Tag: core.NoTag, Len: gap})
				out.charsets[row] = out.charsets[row].Append(core.Run{Tag: core.NoTag, Len: gap})
			}
		}
		x += c.Width
	}
	return out, nil
}
