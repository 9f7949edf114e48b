package widget

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/chatterm/internal/renderer/canvas"
	"github.com/dshills/chatterm/internal/renderer/core"
	"github.com/dshills/chatterm/internal/renderer/glyph"
	"github.com/dshills/chatterm/internal/renderer/layout"
)

// Edit is a single-field text input with a caption. The cursor is a byte
// position in the edit text (the caption is not editable). Cursor moves
// act on the layout as drawn with focus, whatever the last Render used.
type Edit struct {
	cache      *layout.Cache
	caption    string
	captionTag core.Tag
	textTag    core.Tag
	text       string
	pos        int
	prefCol    int // preferred column for vertical moves, -1 if unset
	align      layout.Align
	wrap       layout.WrapMode
}

// NewEdit creates an empty edit widget.
func NewEdit(cache *layout.Cache, caption string, captionTag, textTag core.Tag) *Edit {
	return &Edit{
		cache:      cache,
		caption:    caption,
		captionTag: captionTag,
		textTag:    textTag,
		prefCol:    -1,
		wrap:       layout.WrapSpace,
	}
}

// SetWrap changes the wrap mode.
func (e *Edit) SetWrap(wrap layout.WrapMode) { e.wrap = wrap }

// Caption returns the caption.
func (e *Edit) Caption() string { return e.caption }

// Text returns the edit text.
func (e *Edit) Text() string { return e.text }

// Pos returns the cursor position in the edit text.
func (e *Edit) Pos() int { return e.pos }

// SetText replaces the edit text and moves the cursor to its end.
func (e *Edit) SetText(s string) {
	e.text = s
	e.pos = len(s)
	e.prefCol = -1
}

// SetPos moves the cursor, clamped to the text.
func (e *Edit) SetPos(pos int) {
	e.pos = min(max(pos, 0), len(e.text))
	e.prefCol = -1
}

// Reset clears the text.
func (e *Edit) Reset() {
	e.SetText("")
}

// Insert inserts s at the cursor and moves the cursor past it.
func (e *Edit) Insert(s string) {
	e.text = e.text[:e.pos] + s + e.text[e.pos:]
	e.pos += len(s)
	e.prefCol = -1
}

// Backspace removes the grapheme cluster before the cursor.
func (e *Edit) Backspace() bool {
	if e.pos == 0 {
		return false
	}
	start := prevCluster(e.text, e.pos)
	e.text = e.text[:start] + e.text[e.pos:]
	e.pos = start
	e.prefCol = -1
	return true
}

// Delete removes the grapheme cluster at the cursor.
func (e *Edit) Delete() bool {
	if e.pos >= len(e.text) {
		return false
	}
	end := nextCluster(e.text, e.pos)
	e.text = e.text[:e.pos] + e.text[end:]
	e.prefCol = -1
	return true
}

// MoveLeft moves the cursor back one grapheme cluster.
func (e *Edit) MoveLeft() bool {
	if e.pos == 0 {
		return false
	}
	e.pos = prevCluster(e.text, e.pos)
	e.prefCol = -1
	return true
}

// MoveRight moves the cursor forward one grapheme cluster.
func (e *Edit) MoveRight() bool {
	if e.pos >= len(e.text) {
		return false
	}
	e.pos = nextCluster(e.text, e.pos)
	e.prefCol = -1
	return true
}

// Home moves the cursor to the start of its row.
func (e *Edit) Home(maxCol int) bool {
	return e.moveInRow(maxCol, layout.ColLeft)
}

// End moves the cursor to the end of its row.
func (e *Edit) End(maxCol int) bool {
	return e.moveInRow(maxCol, layout.ColRight)
}

func (e *Edit) moveInRow(maxCol, col int) bool {
	l, err := e.translation(maxCol, true)
	if err != nil {
		return false
	}
	row := e.coords(l).Row
	return e.moveTo(l, col, row)
}

// MoveUp moves the cursor one row up, keeping the preferred column.
func (e *Edit) MoveUp(maxCol int) bool {
	return e.moveRows(maxCol, -1)
}

// MoveDown moves the cursor one row down, keeping the preferred column.
func (e *Edit) MoveDown(maxCol int) bool {
	return e.moveRows(maxCol, 1)
}

func (e *Edit) moveRows(maxCol, delta int) bool {
	l, err := e.translation(maxCol, true)
	if err != nil {
		return false
	}
	cur := e.coords(l)
	row := cur.Row + delta
	top := e.captionCoords(l).Row
	if row < top || row >= len(l) {
		return false
	}
	col := e.prefCol
	if col < 0 {
		col = cur.Col
	}
	if !e.moveTo(l, col, row) {
		return false
	}
	e.prefCol = col
	return true
}

// MoveCursorToCoords places the cursor nearest to column x of row y of the
// widget as drawn at maxCol columns. Rows above the edit text or past the
// layout are rejected.
func (e *Edit) MoveCursorToCoords(maxCol, x, y int) bool {
	l, err := e.translation(maxCol, true)
	if err != nil {
		return false
	}
	if y < e.captionCoords(l).Row || y >= len(l) {
		return false
	}
	if !e.moveTo(l, x, y) {
		return false
	}
	e.prefCol = x
	return true
}

// moveTo sets the cursor from a layout coordinate, clamped to the edit text.
func (e *Edit) moveTo(l layout.Layout, col, row int) bool {
	off, err := layout.CoordToOffset(e.classifier(), e.full(), l, col, row)
	if err != nil {
		return false
	}
	e.pos = min(max(int(off)-len(e.caption), 0), len(e.text))
	e.prefCol = -1
	return true
}

// CursorCoords returns the screen position of the cursor at maxCol columns.
func (e *Edit) CursorCoords(maxCol int) (core.ScreenPos, error) {
	l, err := e.translation(maxCol, true)
	if err != nil {
		return core.ScreenPos{}, err
	}
	return e.coords(l), nil
}

// Rows returns the number of rows drawn at maxCol columns.
func (e *Edit) Rows(maxCol int) int {
	l, err := e.translation(maxCol, false)
	if err != nil {
		return 1
	}
	return len(l)
}

// Render draws the widget. When focused, the row holding the cursor is
// shifted to keep the cursor on screen and the canvas carries the cursor.
func (e *Edit) Render(maxCol int, focus bool) (*canvas.Canvas, error) {
	l, err := e.translation(maxCol, focus)
	if err != nil {
		return nil, err
	}
	text, attr := e.markup().Flatten()
	c, err := canvas.Compose(e.classifier(), text, attr, l, maxCol, canvas.Options{})
	if err != nil {
		return nil, err
	}
	if focus {
		c = c.WithCursor(e.coords(l))
	}
	return c, nil
}

// translation lays out caption and text, shifting the cursor row into
// view when focus is set.
func (e *Edit) translation(maxCol int, focus bool) (layout.Layout, error) {
	l, err := e.cache.Get(e.full(), maxCol, e.align, e.wrap)
	if err != nil || !focus {
		return l, err
	}
	p := e.coords(l)
	var shift int
	switch {
	case p.Col < 0:
		shift = -p.Col
	case p.Col >= maxCol:
		shift = -(p.Col - maxCol + 1)
	default:
		return l, nil
	}
	out := l.Clone()
	out[p.Row] = layout.ShiftLine(out[p.Row], shift)
	return out, nil
}

func (e *Edit) coords(l layout.Layout) core.ScreenPos {
	return layout.OffsetToCoord(e.classifier(), e.full(), l, core.Offset(len(e.caption)+e.pos))
}

func (e *Edit) captionCoords(l layout.Layout) core.ScreenPos {
	return layout.OffsetToCoord(e.classifier(), e.full(), l, core.Offset(len(e.caption)))
}

func (e *Edit) markup() Markup {
	return Markup{{Tag: e.captionTag, Text: e.caption}, {Tag: e.textTag, Text: e.text}}
}

func (e *Edit) full() string {
	return e.caption + e.text
}

func (e *Edit) classifier() glyph.Classifier {
	return e.cache.Engine().Classifier()
}

// prevCluster returns the start of the grapheme cluster ending at pos.
func prevCluster(s string, pos int) int {
	start := 0
	g := uniseg.NewGraphemes(s[:pos])
	for g.Next() {
		start, _ = g.Positions()
	}
	return start
}

// nextCluster returns the end of the grapheme cluster starting at pos.
func nextCluster(s string, pos int) int {
	g := uniseg.NewGraphemes(s[pos:])
	if !g.Next() {
		return len(s)
	}
	_, end := g.Positions()
	return pos + end
}
