package app

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/chatterm/internal/chat"
	"github.com/dshills/chatterm/internal/config"
	"github.com/dshills/chatterm/internal/renderer/backend"
)

var clock = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	opts.Logger = NullLogger()
	opts.Now = func() time.Time { return clock }
	app, err := New(opts)
	require.NoError(t, err)
	return app
}

// start runs app on a fresh null backend and returns a channel carrying
// Run's result.
func start(t *testing.T, app *Application, width, height int) (*backend.NullBackend, <-chan error) {
	t.Helper()
	be := backend.NewNullBackend(width, height)
	require.NoError(t, app.SetBackend(be))
	done := make(chan error, 1)
	go func() { done <- app.Run() }()
	return be, done
}

func wait(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func key(k backend.Key) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k}
}

func typeText(be *backend.NullBackend, s string) {
	for _, r := range s {
		be.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r})
	}
}

func TestNewDefaults(t *testing.T) {
	app := newTestApp(t, Options{})

	cfg := app.Config()
	assert.Equal(t, "me", cfg.Username)
	assert.Empty(t, app.Messages())
	assert.False(t, app.IsRunning())
	assert.Contains(t, app.palette, TagTitle)
}

func TestNewOverrides(t *testing.T) {
	path := writeFile(t, "config.toml", "wrap = \"any\"\nusername = \"ann\"\n")
	app := newTestApp(t, Options{ConfigPath: path, Wrap: "clip", LogLevel: "debug"})

	cfg := app.Config()
	assert.Equal(t, "clip", cfg.Wrap)
	assert.Equal(t, "ann", cfg.Username)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestNewRejectsInvalidOverride(t *testing.T) {
	_, err := New(Options{Wrap: "sideways", Logger: NullLogger()})
	require.Error(t, err)

	var op *OperationError
	require.True(t, errors.As(err, &op))
	assert.Equal(t, "validate config", op.Op)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestNewLoadsTranscript(t *testing.T) {
	path := writeFile(t, "chat.txt", "* bob joined\n10:30 bob> hello\nme> hi bob\n")
	app := newTestApp(t, Options{TranscriptPath: path})

	msgs := app.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, chat.KindServer, msgs[0].Kind)
	assert.Equal(t, "bob", msgs[1].Username)
	assert.Equal(t, 10, msgs[1].Time.Hour())
	assert.True(t, msgs[2].IsSelf)
	assert.Equal(t, "me", msgs[2].Username)
}

func TestNewMissingTranscript(t *testing.T) {
	_, err := New(Options{TranscriptPath: filepath.Join(t.TempDir(), "nope"), Logger: NullLogger()})
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNewBadTranscript(t *testing.T) {
	path := writeFile(t, "chat.txt", "no prompt here\n")
	_, err := New(Options{TranscriptPath: path, Logger: NullLogger()})

	var pe *chat.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Line)
}

func TestRenderPlain(t *testing.T) {
	path := writeFile(t, "chat.txt", "me> hi\n")
	app := newTestApp(t, Options{TranscriptPath: path})

	var buf bytes.Buffer
	require.NoError(t, app.RenderPlain(&buf, 20))
	assert.Equal(t, "me  hi\n\n", buf.String())

	// Widths below the minimum are raised to it.
	buf.Reset()
	require.NoError(t, app.RenderPlain(&buf, 0))
	assert.Equal(t, "me  hi\n\n", buf.String())
}

func TestApplyConfig(t *testing.T) {
	app := newTestApp(t, Options{})
	app.input.SetText("keep")

	cfg := app.Config()
	cfg.Wrap = "clip"
	require.NoError(t, app.ApplyConfig(cfg))
	assert.Equal(t, "clip", app.Config().Wrap)
	assert.Equal(t, "keep", app.input.Text())

	cfg.MinWidth = 0
	err := app.ApplyConfig(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Equal(t, 10, app.Config().MinWidth)
}

func TestRunWithoutBackend(t *testing.T) {
	app := newTestApp(t, Options{})
	assert.ErrorIs(t, app.Run(), ErrNoTerminal)
}

func TestRunSubmitsInput(t *testing.T) {
	app := newTestApp(t, Options{})
	be, done := start(t, app, 20, 6)

	typeText(be, "hi")
	be.PostEvent(key(backend.KeyEnter))
	be.PostEvent(key(backend.KeyEnter)) // empty input is not sent
	be.PostEvent(key(backend.KeyEscape))
	wait(t, done)

	msgs := app.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Body)
	assert.True(t, msgs[0].IsSelf)
	assert.Equal(t, clock, msgs[0].Time)

	assert.Contains(t, be.Row(0), "chatterm: me")
	assert.Equal(t, "", strings.TrimSpace(be.Row(2)))
	assert.Equal(t, "me  hi", strings.TrimRight(be.Row(3), " "))
	assert.Equal(t, "", strings.TrimSpace(be.Row(4)))
	assert.Equal(t, ">", strings.TrimRight(be.Row(5), " "))

	x, y, visible := be.CursorPosition()
	assert.True(t, visible)
	assert.Equal(t, 2, x)
	assert.Equal(t, 5, y)

	m := app.Metrics()
	assert.Equal(t, uint64(1), m.Messages)
	assert.GreaterOrEqual(t, m.FrameCount, uint64(4))
	assert.Zero(t, m.FrameErrors)
	assert.False(t, be.MouseEnabled(), "mouse reporting is turned off on exit")
}

func TestRunEditingKeys(t *testing.T) {
	app := newTestApp(t, Options{})
	be, done := start(t, app, 20, 4)

	typeText(be, "abcd")
	be.PostEvent(key(backend.KeyLeft))
	be.PostEvent(key(backend.KeyBackspace)) // abd
	be.PostEvent(key(backend.KeyHome))
	be.PostEvent(key(backend.KeyDelete)) // bd
	be.PostEvent(key(backend.KeyEnd))
	typeText(be, "e") // bde
	be.PostEvent(key(backend.KeyCtrlA))
	be.PostEvent(key(backend.KeyRight))
	be.PostEvent(key(backend.KeyCtrlK)) // b
	be.PostEvent(key(backend.KeyCtrlC))
	wait(t, done)

	assert.Equal(t, "b", app.input.Text())
	assert.Equal(t, "> b", strings.TrimRight(be.Row(3), " "))
}

func TestRunMouseMovesCursor(t *testing.T) {
	app := newTestApp(t, Options{})
	be, done := start(t, app, 20, 6)

	typeText(be, "hello")
	be.PostEvent(backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseLeft, MouseX: 2, MouseY: 5})
	typeText(be, "X")
	// A click above the input line leaves the cursor alone.
	be.PostEvent(backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseLeft, MouseX: 0, MouseY: 1})
	typeText(be, "Y")
	be.PostEvent(key(backend.KeyEscape))
	wait(t, done)

	assert.Equal(t, "XYhello", app.input.Text())
}

func TestRunResize(t *testing.T) {
	app := newTestApp(t, Options{})
	be, done := start(t, app, 20, 6)

	be.PostEvent(backend.Event{Type: backend.EventResize, Width: 10, Height: 6})
	typeText(be, "a")
	be.PostEvent(key(backend.KeyEscape))
	wait(t, done)

	assert.Equal(t, " chatterm", strings.TrimRight(be.Row(0), " "))
	assert.Equal(t, "> a", strings.TrimRight(be.Row(5), " "))
}

func TestRunScrollsTranscript(t *testing.T) {
	var b strings.Builder
	for i := range 6 {
		b.WriteString("me> m" + string(rune('0'+i)) + "\n")
	}
	app := newTestApp(t, Options{TranscriptPath: writeFile(t, "chat.txt", b.String())})
	be, done := start(t, app, 20, 6)

	// Scrolled up two rows, the four body rows hold m3 and m4.
	be.PostEvent(backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseWheelUp})
	be.PostEvent(backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseWheelUp})
	be.PostEvent(key(backend.KeyEscape))
	wait(t, done)

	assert.Equal(t, "me  m3", strings.TrimRight(be.Row(1), " "))
	assert.Equal(t, "me  m4", strings.TrimRight(be.Row(3), " "))
}

func TestRunShowsUserList(t *testing.T) {
	cfgPath := writeFile(t, "config.toml", "user_list_width = 10\n")
	chatPath := writeFile(t, "chat.txt", "+ bob\n10:30 bob> hi\n- bob\n+ cy\n")
	app := newTestApp(t, Options{ConfigPath: cfgPath, TranscriptPath: chatPath})
	be, done := start(t, app, 30, 8)

	be.PostEvent(key(backend.KeyEscape))
	wait(t, done)

	assert.Equal(t, "cy", strings.TrimSpace(be.Row(1)[20:]))
	assert.Equal(t, "", strings.TrimSpace(be.Row(2)[20:]))
	assert.Equal(t, ">", strings.TrimRight(be.Row(7), " "))
}

func TestRunHidesUserListWhenNarrow(t *testing.T) {
	cfgPath := writeFile(t, "config.toml", "user_list_width = 25\n")
	app := newTestApp(t, Options{ConfigPath: cfgPath})
	app.AddMessage(chat.UserOnline("cy", clock))
	be, done := start(t, app, 30, 6)

	be.PostEvent(key(backend.KeyEscape))
	wait(t, done)

	for y := 1; y < 5; y++ {
		assert.NotEqual(t, "cy", strings.TrimSpace(be.Row(y)), "row %d", y)
	}
}

func TestRunAddMessageFromAnotherGoroutine(t *testing.T) {
	app := newTestApp(t, Options{})
	be, done := start(t, app, 30, 6)

	require.Eventually(t, app.IsRunning, 5*time.Second, 10*time.Millisecond)
	app.AddMessage(chat.NewServerMessage("bob joined", clock))
	be.PostEvent(key(backend.KeyEscape))
	wait(t, done)

	found := false
	for y := 1; y < 5; y++ {
		if strings.Contains(be.Row(y), "bob joined") {
			found = true
		}
	}
	assert.True(t, found, "server notice should be on screen")
}

func TestQuit(t *testing.T) {
	app := newTestApp(t, Options{})
	_, done := start(t, app, 20, 6)

	require.Eventually(t, app.IsRunning, 5*time.Second, 10*time.Millisecond)
	app.Quit()
	wait(t, done)
	assert.False(t, app.IsRunning())
}

func TestRunReloadsConfig(t *testing.T) {
	path := writeFile(t, "config.toml", "username = \"ann\"\n")
	app := newTestApp(t, Options{ConfigPath: path, WatchConfig: true})
	_, done := start(t, app, 30, 6)

	require.Eventually(t, func() bool {
		app.mu.Lock()
		defer app.mu.Unlock()
		return app.watcher != nil
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("username = \"zed\"\n"), 0o644))
	require.Eventually(t, func() bool {
		return app.Config().Username == "zed"
	}, 5*time.Second, 20*time.Millisecond)

	app.Quit()
	wait(t, done)
}

func TestSetBackendWhileRunning(t *testing.T) {
	app := newTestApp(t, Options{})
	_, done := start(t, app, 20, 6)

	require.Eventually(t, app.IsRunning, 5*time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, app.SetBackend(backend.NewNullBackend(1, 1)), ErrAlreadyRunning)
	app.Quit()
	wait(t, done)
}
