package app

import (
	"errors"
	"strings"

	"github.com/dshills/chatterm/internal/chat"
	"github.com/dshills/chatterm/internal/renderer"
	"github.com/dshills/chatterm/internal/renderer/backend"
	"github.com/dshills/chatterm/internal/renderer/canvas"
	"github.com/dshills/chatterm/internal/renderer/core"
	"github.com/dshills/chatterm/internal/renderer/layout"
	"github.com/dshills/chatterm/internal/widget"
)

// Run takes over the terminal and processes events until the user quits.
func (app *Application) Run() error {
	app.mu.Lock()
	be := app.backend
	app.mu.Unlock()
	if be == nil {
		return ErrNoTerminal
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := be.Init(); err != nil {
		return NewOperationError("init", "terminal", err)
	}
	defer be.Shutdown()
	be.EnableMouse()
	defer be.DisableMouse()

	if err := app.startWatcher(); err != nil {
		app.logger.WithComponent("config").Warn("watch disabled: %v", err)
	}
	defer app.stopWatcher()

	app.mu.Lock()
	app.renderer = renderer.New(be, app.classifier)
	app.renderer.SetPalette(app.palette)
	app.draw()
	app.mu.Unlock()
	if app.quit.Load() {
		return nil
	}

	log := app.logger.WithComponent("loop")
	for {
		ev := be.PollEvent()
		err := app.handleEvent(ev)
		if errors.Is(err, ErrQuit) {
			log.Debug("quit")
			return nil
		}
		if err != nil {
			log.Error("event: %v", err)
		}
	}
}

// handleEvent applies ev and redraws. It returns ErrQuit when the loop
// should stop.
func (app *Application) handleEvent(ev backend.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Value: r}
		}
	}()
	timer := StartTimer()
	defer func() { app.metrics.RecordInput(timer.Elapsed()) }()

	app.mu.Lock()
	defer app.mu.Unlock()

	switch ev.Type {
	case backend.EventKey:
		if err := app.handleKey(ev); err != nil {
			return err
		}
	case backend.EventMouse:
		app.handleMouse(ev)
	case backend.EventResize:
		app.renderer.Resize(ev.Width, ev.Height)
	case backend.EventInterrupt:
		if app.quit.Load() {
			return ErrQuit
		}
	default:
		return nil
	}
	app.draw()
	return nil
}

// handleKey edits the input line (must hold lock).
func (app *Application) handleKey(ev backend.Event) error {
	width := app.screenWidth()
	in := app.input
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyRune:
		in.Insert(string(ev.Rune))
	case backend.KeyEnter:
		app.submit()
	case backend.KeyBackspace:
		in.Backspace()
	case backend.KeyDelete, backend.KeyCtrlD:
		in.Delete()
	case backend.KeyLeft:
		in.MoveLeft()
	case backend.KeyRight:
		in.MoveRight()
	case backend.KeyUp:
		in.MoveUp(width)
	case backend.KeyDown:
		in.MoveDown(width)
	case backend.KeyHome, backend.KeyCtrlA:
		in.Home(width)
	case backend.KeyEnd, backend.KeyCtrlE:
		in.End(width)
	case backend.KeyCtrlU:
		in.Reset()
	case backend.KeyCtrlK:
		in.SetText(in.Text()[:in.Pos()])
	case backend.KeyCtrlL:
		app.cache.Clear()
		app.renderer.Clear()
	case backend.KeyPageUp:
		app.scroll += app.page()
	case backend.KeyPageDown:
		app.scroll -= app.page()
	}
	return nil
}

// submit posts the input line as a message from the local user
// (must hold lock).
func (app *Application) submit() {
	text := app.input.Text()
	if strings.TrimSpace(text) == "" {
		return
	}
	app.appendMessage(chat.NewUserMessage(app.cfg.Username, text, true, app.now()))
	app.input.Reset()
}

// handleMouse moves the input cursor on a click and scrolls on the wheel
// (must hold lock).
func (app *Application) handleMouse(ev backend.Event) {
	switch ev.MouseButton {
	case backend.MouseLeft:
		width := app.screenWidth()
		_, height := app.renderer.Size()
		top := height - app.input.Rows(width)
		if ev.MouseY >= top {
			app.input.MoveCursorToCoords(width, ev.MouseX, ev.MouseY-top)
		}
	case backend.MouseWheelUp:
		app.scroll++
	case backend.MouseWheelDown:
		app.scroll--
	}
}

// screenWidth is the layout width: the terminal width, raised to the
// configured minimum (must hold lock).
func (app *Application) screenWidth() int {
	width, _ := app.renderer.Size()
	return max(width, app.cfg.MinWidth)
}

// page is the scroll step for PageUp and PageDown (must hold lock).
func (app *Application) page() int {
	_, height := app.renderer.Size()
	return max(height/2, 1)
}

// draw repaints the screen. Layout errors abort the frame and are logged
// (must hold lock).
func (app *Application) draw() {
	timer := StartTimer()
	if err := app.paint(); err != nil {
		app.metrics.RecordFrameError()
		app.logger.WithComponent("render").Error("frame aborted: %v", err)
		return
	}
	app.metrics.RecordFrame(timer.Elapsed())
}

// paint lays out title, transcript and input line. The transcript is
// anchored to the bottom, just above the input line (must hold lock).
func (app *Application) paint() error {
	width := app.screenWidth()
	_, height := app.renderer.Size()

	title, err := app.title(width)
	if err != nil {
		return err
	}
	input, err := app.input.Render(width, true)
	if err != nil {
		return err
	}
	bodyWidth, users, err := app.userList(width)
	if err != nil {
		return err
	}
	body, err := app.view.Transcript(app.messages, bodyWidth)
	if err != nil {
		return err
	}

	avail := height - title.Rows() - input.Rows()
	app.scroll = min(max(app.scroll, 0), max(body.Rows()-avail, 0))
	top := title.Rows() + avail - body.Rows() + app.scroll

	r := app.renderer
	r.Clear()
	r.Draw(body, 0, top)
	if users != nil {
		r.Draw(users, bodyWidth, title.Rows())
	}
	r.Draw(title, 0, 0)
	r.Draw(input, 0, height-input.Rows())
	r.Show()
	return nil
}

// userList renders the online-user column on the right when configured
// and the transcript keeps at least the minimum width. It returns the
// width left for the transcript (must hold lock).
func (app *Application) userList(width int) (int, *canvas.Canvas, error) {
	cols := app.cfg.UserListWidth
	if cols < 1 || width-cols < app.cfg.MinWidth {
		return width, nil, nil
	}
	c, err := app.view.UserList(chat.OnlineUsers(app.messages), cols)
	if err != nil {
		return 0, nil, err
	}
	return width - cols, c, nil
}

// title renders the one-row header bar.
func (app *Application) title(width int) (*canvas.Canvas, error) {
	t := widget.NewText(app.cache, widget.Tagged(TagTitle, "chatterm: "+app.cfg.Username), layout.AlignCenter, layout.WrapClip)
	c, err := t.Render(width)
	if err != nil {
		return nil, err
	}
	return c.Retag(core.NoTag, TagTitle), nil
}
