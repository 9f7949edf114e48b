// Package main is the entry point for the chatterm client.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/chatterm/internal/app"
	"github.com/dshills/chatterm/internal/config"
	"github.com/dshills/chatterm/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// defaultWidth is used for plain output when stdout is not a terminal.
const defaultWidth = 80

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type cliOptions struct {
	app.Options
	width       int
	plain       bool
	logFile     string
	showVersion bool
}

func run(args []string, stdout, stderr io.Writer) int {
	cli, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}
	if cli.showVersion {
		fmt.Fprintf(stdout, "chatterm %s\nCommit: %s\nBuilt: %s\n", version, commit, date)
		return 0
	}

	fd, tty := terminalFD(stdout)
	interactive := tty && !cli.plain

	logOut, closeLog, err := openLog(cli.logFile, interactive, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	cli.LogOutput = logOut
	cli.WatchConfig = interactive

	application, err := app.New(cli.Options)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	if !interactive {
		width := cli.width
		if width <= 0 {
			width = defaultWidth
			if tty {
				if w, _, err := term.GetSize(fd); err == nil {
					width = w
				}
			}
		}
		if err := application.RenderPlain(stdout, width); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	screen, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(screen); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		if _, ok := <-signals; ok {
			application.Quit()
		}
	}()

	if err := application.Run(); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*cliOptions, error) {
	var cli cliOptions
	fs := flag.NewFlagSet("chatterm", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cli.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&cli.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&cli.TranscriptPath, "transcript", "", "Transcript file to display")
	fs.StringVar(&cli.TranscriptPath, "t", "", "Transcript file to display (shorthand)")
	fs.IntVar(&cli.width, "width", 0, "Width for plain output (default: terminal width or 80)")
	fs.IntVar(&cli.width, "w", 0, "Width for plain output (shorthand)")
	fs.StringVar(&cli.Wrap, "wrap", "", "Wrap mode (space, any, clip, ellipsis)")
	fs.StringVar(&cli.Align, "align", "", "Alignment (left, center, right)")
	fs.StringVar(&cli.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cli.logFile, "log-file", "", "Write logs to this file")
	fs.BoolVar(&cli.plain, "plain", false, "Print the rendered transcript instead of starting the UI")
	fs.BoolVar(&cli.showVersion, "version", false, "Show version information")
	fs.BoolVar(&cli.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "chatterm - terminal chat client\n\n")
		fmt.Fprintf(out, "Usage: chatterm [options]\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nEnvironment:\n")
		for _, v := range config.EnvVars() {
			fmt.Fprintf(out, "  %s\n", v)
		}
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  chatterm -t chat.txt              Open a transcript\n")
		fmt.Fprintf(out, "  chatterm -t chat.txt -plain -w 60 Print it 60 columns wide\n")
		fmt.Fprintf(out, "  chatterm -c chatterm.toml         Use a config file\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected argument %q\n", fs.Arg(0))
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return &cli, nil
}

// terminalFD reports whether w is a terminal and returns its descriptor.
func terminalFD(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// openLog picks the log destination. While the UI owns the screen logs go
// to the log file, or nowhere when none is given.
func openLog(path string, interactive bool, stderr io.Writer) (io.Writer, func(), error) {
	if path == "" {
		if interactive {
			return io.Discard, func() {}, nil
		}
		return stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
