package chat

import (
	"errors"
	"fmt"
	"math"

	"github.com/dshills/chatterm/internal/renderer/canvas"
	"github.com/dshills/chatterm/internal/renderer/core"
	"github.com/dshills/chatterm/internal/renderer/glyph"
	"github.com/dshills/chatterm/internal/renderer/layout"
	"github.com/dshills/chatterm/internal/widget"
)

// Attribute tags used by message views. A palette maps them to styles.
const (
	TagUsername  core.Tag = "username"
	TagSeparator core.Tag = "separator"
	TagSelf      core.Tag = "msg_self"
	TagOther     core.Tag = "msg_other"
	TagServer    core.Tag = "msg_server"
	TagUserList  core.Tag = "user_list"
)

// Share of the view width taken by a user message column.
const userShare = 0.7

// Share of the view width kept blank on each side of a server notice.
const serverMargin = 0.01

// View draws messages as bubbles.
type View struct {
	cache    *layout.Cache
	wrap     layout.WrapMode
	unpadded bool
}

// NewView creates a view laying out bubble text with wrap.
func NewView(cache *layout.Cache, wrap layout.WrapMode) *View {
	return &View{cache: cache, wrap: wrap}
}

// SetWrap changes the wrap mode used for bubble text.
func (v *View) SetWrap(wrap layout.WrapMode) { v.wrap = wrap }

// SetPadding turns the blank column on each side of bubble text on or off.
func (v *View) SetPadding(on bool) { v.unpadded = !on }

// Render draws m at width columns.
func (v *View) Render(m Message, width int) (*canvas.Canvas, error) {
	if width < 1 {
		return canvas.Empty(0), nil
	}
	if m.Kind == KindServer {
		return v.renderServer(m, width)
	}
	return v.renderUser(m, width)
}

// renderServer centers a notice bubble between two thin margins.
func (v *View) renderServer(m Message, width int) (*canvas.Canvas, error) {
	side := int(math.Round(float64(width) * serverMargin))
	mid := width - 2*side

	b, cols, err := v.bubble(m.Body, TagServer, mid)
	if err != nil {
		return nil, err
	}
	left := side + (mid-cols)/2
	return canvas.JoinColumns(
		canvas.Column{Width: left},
		canvas.Column{Canvas: b, Width: cols},
		canvas.Column{Width: width - left - cols},
	)
}

// renderUser draws "name ␠ bubble" packed to the left of the user column
// for the local user, and mirrored to the right for everyone else.
func (v *View) renderUser(m Message, width int) (*canvas.Canvas, error) {
	area := max(int(math.Round(float64(width)*userShare)), 1)
	cls := v.cache.Engine().Classifier()

	nameCols := min(glyph.StringWidth(cls, m.Username, 0, core.Offset(len(m.Username))), area)
	name, err := v.plain(m.Username, TagUsername, nameCols)
	if err != nil {
		return nil, err
	}
	sep := canvas.Blank(1, 1).Retag(core.NoTag, TagSeparator)

	tag := TagSelf
	if !m.IsSelf {
		tag = TagOther
	}
	room := area - nameCols - 1
	if nameCols == 0 || room < 1 {
		// No room for a name: the bubble takes the whole column.
		nameCols, name, sep, room = 0, nil, nil, area
	}
	sepCols := min(nameCols, 1)
	b, cols, err := v.bubble(m.Body, tag, room)
	if err != nil {
		return nil, err
	}

	parts := []canvas.Column{
		{Canvas: name, Width: nameCols},
		{Canvas: sep, Width: sepCols},
		{Canvas: b, Width: cols},
	}
	used := nameCols + sepCols + cols
	if m.IsSelf {
		parts = append(parts, canvas.Column{Width: width - used})
	} else {
		parts[0], parts[2] = parts[2], parts[0]
		parts = append([]canvas.Column{{Width: width - used}}, parts...)
	}
	return canvas.JoinColumns(parts...)
}

// bubble renders body as a framed text packed into at most maxCol columns.
// Unpainted cells inside the bubble take the bubble tag.
func (v *View) bubble(body string, tag core.Tag, maxCol int) (*canvas.Canvas, int, error) {
	t := widget.NewText(v.cache, widget.Tagged(tag, body), layout.AlignLeft, v.wrap)
	t.SetPadding(!v.unpadded)
	cols, _ := t.Pack(maxCol)
	cols = max(cols, 1)
	c, err := t.Render(cols)
	if err != nil {
		return nil, 0, err
	}
	return c.Retag(core.NoTag, tag), cols, nil
}

// plain renders text without padding.
func (v *View) plain(text string, tag core.Tag, maxCol int) (*canvas.Canvas, error) {
	if maxCol < 1 {
		return nil, nil
	}
	l, err := v.cache.Get(text, maxCol, layout.AlignLeft, layout.WrapAny)
	if errors.Is(err, layout.ErrUnrenderable) {
		return canvas.Blank(maxCol, 1), nil
	}
	if err != nil {
		return nil, err
	}
	attr := core.Runs{}.Append(core.Run{Tag: tag, Len: len(text)})
	return canvas.Compose(v.cache.Engine().Classifier(), text, attr, l, maxCol, canvas.Options{})
}

// UserList draws users as a column of name bubbles packed to the left,
// each followed by a blank row.
func (v *View) UserList(users []string, width int) (*canvas.Canvas, error) {
	if width < 1 {
		return canvas.Empty(0), nil
	}
	parts := make([]*canvas.Canvas, 0, 2*len(users))
	for _, u := range users {
		b, cols, err := v.bubble(u, TagUserList, width)
		if err != nil {
			return nil, fmt.Errorf("render user %q: %w", u, err)
		}
		row, err := canvas.JoinColumns(canvas.Column{Canvas: b, Width: cols}, canvas.Column{Width: width - cols})
		if err != nil {
			return nil, err
		}
		parts = append(parts, row, canvas.Blank(width, 1))
	}
	if len(parts) == 0 {
		return canvas.Empty(width), nil
	}
	return canvas.Stack(parts...), nil
}

// Transcript stacks the rendering of msgs, each followed by a blank row.
func (v *View) Transcript(msgs []Message, width int) (*canvas.Canvas, error) {
	parts := make([]*canvas.Canvas, 0, 2*len(msgs))
	for _, m := range msgs {
		c, err := v.Render(m, width)
		if err != nil {
			return nil, fmt.Errorf("render message %s: %w", m.ID, err)
		}
		parts = append(parts, c, canvas.Blank(width, 1))
	}
	if len(parts) == 0 {
		return canvas.Empty(width), nil
	}
	return canvas.Stack(parts...), nil
}
