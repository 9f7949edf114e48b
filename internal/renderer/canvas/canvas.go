// Package canvas composes laid-out text into fixed-width rows of bytes
// with attribute and character-set runs, ready to be painted.
package canvas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/chatterm/internal/renderer/core"
	"github.com/dshills/chatterm/internal/renderer/glyph"
)

// AutoWidth sizes a canvas to its widest row.
const AutoWidth = -1

// ErrContract is returned when canvas inputs break their width or run
// coverage contract.
var ErrContract = errors.New("canvas contract violation")

// ContractError describes a contract violation on one row.
type ContractError struct {
	Row    int
	Reason string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	return fmt.Sprintf("canvas row %d: %s", e.Row, e.Reason)
}

// Unwrap returns ErrContract.
func (e *ContractError) Unwrap() error {
	return ErrContract
}

// Canvas is an immutable block of rows, each exactly Cols() columns wide.
type Canvas struct {
	cols     int
	rows     []string
	attrs    []core.Runs
	charsets []core.Runs
	cursor   *core.ScreenPos
}

// New builds a canvas from rows of text and their run lists. Rows are
// padded with spaces to maxCol columns and short run lists are extended
// with an untagged run. Missing run lists are treated as empty.
func New(cls glyph.Classifier, rows []string, attrs, charsets []core.Runs, maxCol int) (*Canvas, error) {
	widths := make([]int, len(rows))
	for i, r := range rows {
		widths[i] = glyph.StringWidth(cls, r, 0, core.Offset(len(r)))
	}
	if maxCol == AutoWidth {
		maxCol = 0
		for _, w := range widths {
			maxCol = max(maxCol, w)
		}
	}

	c := &Canvas{
		cols:     maxCol,
		rows:     make([]string, len(rows)),
		attrs:    make([]core.Runs, len(rows)),
		charsets: make([]core.Runs, len(rows)),
	}
	for i, r := range rows {
		if widths[i] > maxCol {
			return nil, &ContractError{Row: i, Reason: fmt.Sprintf("width %d exceeds %d columns", widths[i], maxCol)}
		}
		if widths[i] < maxCol {
			r += strings.Repeat(" ", maxCol-widths[i])
		}
		c.rows[i] = r

		var err error
		if c.attrs[i], err = cover(runsAt(attrs, i), len(r)); err != nil {
			return nil, &ContractError{Row: i, Reason: "attributes " + err.Error()}
		}
		if c.charsets[i], err = cover(runsAt(charsets, i), len(r)); err != nil {
			return nil, &ContractError{Row: i, Reason: "character sets " + err.Error()}
		}
	}
	return c, nil
}

func runsAt(rs []core.Runs, i int) core.Runs {
	if i < len(rs) {
		return rs[i]
	}
	return nil
}

// cover returns runs extended with an untagged run to exactly n bytes.
func cover(rs core.Runs, n int) (core.Runs, error) {
	gap := n - rs.Len()
	if gap < 0 {
		return nil, fmt.Errorf("cover %d bytes, text has %d", rs.Len(), n)
	}
	out := rs.Clone()
	if gap > 0 {
		out = out.Append(core.Run{Tag: core.NoTag, Len: gap})
	}
	return out, nil
}

// Empty returns a canvas with no rows.
func Empty(cols int) *Canvas {
	return &Canvas{cols: max(cols, 0)}
}

// Blank returns a canvas of spaces.
func Blank(cols, rows int) *Canvas {
	c := &Canvas{
		cols:     cols,
		rows:     make([]string, rows),
		attrs:    make([]core.Runs, rows),
		charsets: make([]core.Runs, rows),
	}
	for i := range c.rows {
		c.rows[i] = strings.Repeat(" ", cols)
		if cols > 0 {
			c.attrs[i] = core.Runs{{Tag: core.NoTag, Len: cols}}
			c.charsets[i] = core.Runs{{Tag: core.NoTag, Len: cols}}
		}
	}
	return c
}

// Cols returns the width of every row.
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the number of rows.
func (c *Canvas) Rows() int { return len(c.rows) }

// Text returns the bytes of row.
func (c *Canvas) Text(row int) string { return c.rows[row] }

// Attrs returns the attribute runs of row.
func (c *Canvas) Attrs(row int) core.Runs { return c.attrs[row] }

// Charsets returns the character-set runs of row.
func (c *Canvas) Charsets(row int) core.Runs { return c.charsets[row] }

// Cursor returns the cursor position, if the canvas has one.
func (c *Canvas) Cursor() (core.ScreenPos, bool) {
	if c.cursor == nil {
		return core.ScreenPos{}, false
	}
	return *c.cursor, true
}

// WithCursor returns a copy of the canvas carrying a cursor at pos.
func (c *Canvas) WithCursor(pos core.ScreenPos) *Canvas {
	out := *c
	out.cursor = &pos
	return &out
}

// Retag returns a copy of the canvas with attribute runs tagged from
// changed to to. Character sets are unchanged.
func (c *Canvas) Retag(from, to core.Tag) *Canvas {
	out := *c
	out.attrs = make([]core.Runs, len(c.attrs))
	for i, rs := range c.attrs {
		var mapped core.Runs
		for _, r := range rs {
			if r.Tag == from {
				r.Tag = to
			}
			mapped = mapped.Append(r)
		}
		out.attrs[i] = mapped
	}
	return &out
}

// Chunk is a piece of a row with a single attribute and character set.
type Chunk struct {
	Tag     core.Tag
	Charset core.Tag
	Text    string
}

// Chunks splits row at every attribute and character-set boundary.
func (c *Canvas) Chunks(row int) []Chunk {
	text := c.rows[row]
	attrs, charsets := c.attrs[row], c.charsets[row]

	var out []Chunk
	ai, ci := 0, 0
	aLeft, cLeft := 0, 0
	if len(attrs) > 0 {
		aLeft = attrs[0].Len
	}
	if len(charsets) > 0 {
		cLeft = charsets[0].Len
	}
	for pos := 0; pos < len(text); {
		for aLeft == 0 && ai < len(attrs)-1 {
			ai++
			aLeft = attrs[ai].Len
		}
		for cLeft == 0 && ci < len(charsets)-1 {
			ci++
			cLeft = charsets[ci].Len
		}
		n := min(aLeft, cLeft)
		if n <= 0 {
			n = len(text) - pos
		}
		out = append(out, Chunk{
			Tag:     runTag(attrs, ai),
			Charset: runTag(charsets, ci),
			Text:    text[pos : pos+n],
		})
		pos += n
		aLeft -= n
		cLeft -= n
	}
	return out
}

func runTag(rs core.Runs, i int) core.Tag {
	if i < len(rs) {
		return rs[i].Tag
	}
	return core.NoTag
}

// String returns the rows joined by newlines.
func (c *Canvas) String() string {
	return strings.Join(c.rows, "\n")
}
