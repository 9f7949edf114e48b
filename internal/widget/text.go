package widget

import (
	"errors"

	"github.com/dshills/chatterm/internal/renderer/canvas"
	"github.com/dshills/chatterm/internal/renderer/core"
	"github.com/dshills/chatterm/internal/renderer/layout"
)

// Text is a static block of markup drawn as a framed bubble: each line is
// laid out two columns narrower than the widget and padded back to full
// width with a blank column on either side. Padding can be turned off.
type Text struct {
	cache   *layout.Cache
	text    string
	attr    core.Runs
	align   layout.Align
	wrap    layout.WrapMode
	noFrame bool
}

// NewText creates a text widget.
func NewText(cache *layout.Cache, m Markup, align layout.Align, wrap layout.WrapMode) *Text {
	t := &Text{cache: cache, align: align, wrap: wrap}
	t.SetMarkup(m)
	return t
}

// SetMarkup replaces the widget content.
func (t *Text) SetMarkup(m Markup) {
	t.text, t.attr = m.Flatten()
}

// Text returns the flattened text and attributes.
func (t *Text) Text() (string, core.Runs) {
	return t.text, t.attr
}

// Align returns the alignment mode.
func (t *Text) Align() layout.Align { return t.align }

// Wrap returns the wrap mode.
func (t *Text) Wrap() layout.WrapMode { return t.wrap }

// SetPadding turns the side padding columns on or off.
func (t *Text) SetPadding(on bool) { t.noFrame = !on }

// adjustMaxCol reserves the two padding columns when there is room.
func (t *Text) adjustMaxCol(maxCol int) (int, bool) {
	if !t.noFrame && maxCol > 3 {
		return maxCol - 2, true
	}
	return maxCol, false
}

// Layout returns the line layout used when drawing at maxCol columns.
func (t *Text) Layout(maxCol int) (layout.Layout, error) {
	width, _ := t.adjustMaxCol(maxCol)
	return t.cache.Get(t.text, width, t.align, t.wrap)
}

// Render draws the widget at maxCol columns. Text that cannot be laid out
// at this width renders as a single empty row.
func (t *Text) Render(maxCol int) (*canvas.Canvas, error) {
	_, padded := t.adjustMaxCol(maxCol)
	l, err := t.Layout(maxCol)
	if errors.Is(err, layout.ErrUnrenderable) {
		return canvas.Blank(maxCol, 1), nil
	}
	if err != nil {
		return nil, err
	}
	cls := t.cache.Engine().Classifier()
	return canvas.Compose(cls, t.text, t.attr, l, maxCol, canvas.Options{SidePadding: padded})
}

// Pack returns the columns and rows needed to draw the widget without
// wrapping or clipping, given at most maxCol columns.
func (t *Text) Pack(maxCol int) (cols, rows int) {
	_, padded := t.adjustMaxCol(maxCol)
	l, err := t.Layout(maxCol)
	if err != nil {
		return maxCol, 1
	}
	cols = layout.Pack(maxCol, l)
	if padded {
		cols = min(cols+2, maxCol)
	}
	return cols, len(l)
}
