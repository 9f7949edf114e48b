package renderer

import (
	"io"
	"strings"
	"sync"

	"github.com/dshills/chatterm/internal/renderer/backend"
	"github.com/dshills/chatterm/internal/renderer/canvas"
	"github.com/dshills/chatterm/internal/renderer/core"
	"github.com/dshills/chatterm/internal/renderer/glyph"
)

// Palette maps attribute tags to display styles.
type Palette map[core.Tag]core.Style

// Style returns the style for tag, or the default style when tag is unknown.
func (p Palette) Style(tag core.Tag) core.Style {
	if s, ok := p[tag]; ok {
		return s
	}
	return core.DefaultStyle()
}

// ParseStyle builds a style from hex colors. Empty strings leave the
// terminal default in place.
func ParseStyle(fg, bg string, attrs core.Attribute) (core.Style, error) {
	fgc, err := core.ColorFromHex(fg)
	if err != nil {
		return core.Style{}, err
	}
	bgc, err := core.ColorFromHex(bg)
	if err != nil {
		return core.Style{}, err
	}
	return core.DefaultStyle().WithForeground(fgc).WithBackground(bgc).WithAttributes(attrs), nil
}

// Renderer draws canvases onto a backend.
type Renderer struct {
	mu sync.RWMutex

	backend backend.Backend
	widths  glyph.Classifier
	palette Palette

	width  int
	height int

	frameCount uint64
}

// New creates a renderer. A nil classifier selects glyph.DefaultTable.
func New(be backend.Backend, widths glyph.Classifier) *Renderer {
	if widths == nil {
		widths = glyph.DefaultTable
	}
	w, h := be.Size()
	return &Renderer{
		backend: be,
		widths:  widths,
		palette: Palette{},
		width:   w,
		height:  h,
	}
}

// SetPalette replaces the tag palette.
func (r *Renderer) SetPalette(p Palette) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p == nil {
		p = Palette{}
	}
	r.palette = p
}

// Palette returns the current palette.
func (r *Renderer) Palette() Palette {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.palette
}

// Resize handles terminal resize events.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = width
	r.height = height
}

// Size returns the current screen dimensions.
func (r *Renderer) Size() (width, height int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.width, r.height
}

// Clear blanks the backend.
func (r *Renderer) Clear() {
	r.backend.Clear()
}

// Draw paints c with its top-left corner at (x, y). Cells outside the
// screen are clipped. A wide character that does not fit entirely is
// skipped. The canvas cursor, if any, becomes the terminal cursor.
func (r *Renderer) Draw(c *canvas.Canvas, x, y int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	screen := core.RectFromSize(0, 0, r.height, r.width)
	visible := screen.Intersection(core.RectFromSize(y, x, c.Rows(), c.Cols()))
	if !visible.IsEmpty() {
		for sy := visible.Top; sy < visible.Bottom; sy++ {
			col := x
			for _, chunk := range c.Chunks(sy - y) {
				col = r.drawChunk(chunk, col, sy)
			}
		}
	}

	if pos, ok := c.Cursor(); ok {
		at := core.NewScreenPos(y+pos.Row, x+pos.Col)
		if screen.Contains(at) {
			r.backend.ShowCursor(at.Col, at.Row)
			return
		}
	}
	r.backend.HideCursor()
}

// drawChunk paints one chunk starting at column col and returns the column
// after it (must hold lock).
func (r *Renderer) drawChunk(chunk canvas.Chunk, col, y int) int {
	style := r.palette.Style(chunk.Tag)
	text := chunk.Text
	for off := core.Offset(0); int(off) < len(text); {
		ch, next := glyph.Decode(text, off)
		off = next
		w := r.widths.Width(ch)
		if w == 0 {
			continue
		}
		if col >= 0 && col+w <= r.width {
			r.backend.SetCell(col, y, core.Cell{Rune: ch, Width: w, Style: style})
			if w == 2 {
				r.backend.SetCell(col+1, y, core.ContinuationCell(style))
			}
		}
		col += w
	}
	return col
}

// Show flushes drawn cells to the display.
func (r *Renderer) Show() {
	r.mu.Lock()
	r.frameCount++
	r.mu.Unlock()
	r.backend.Show()
}

// FrameCount returns the number of frames shown.
func (r *Renderer) FrameCount() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frameCount
}

// WritePlain writes the canvas rows as lines of text with trailing blanks
// removed.
func WritePlain(w io.Writer, c *canvas.Canvas) error {
	var sb strings.Builder
	for row := 0; row < c.Rows(); row++ {
		sb.WriteString(strings.TrimRight(c.Text(row), " "))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
