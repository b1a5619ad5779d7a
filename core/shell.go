package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/josephlewis42/cmdshell/commands"
)

const (
	// DefaultPrompt shows the current directory.
	DefaultPrompt = `\w> `

	interruptedMessage = "Interrupted."
)

var promptColor = color.New(color.FgCyan, color.Bold)

// ShellConfig holds the interactive settings of a Shell.
type ShellConfig struct {
	Prompt       string
	HistoryFile  string
	HistoryLimit int
	Banner       bool
}

// Shell is the interactive read-eval-print loop.
type Shell struct {
	Runner      *Runner
	Interrupter *Interrupter
	Readline    *readline.Instance
	Config      ShellConfig
	Logger      *log.Logger

	stdout *tailWriter
	stderr *tailWriter
}

// NewShell creates a shell reading from the terminal. The runner's output
// streams are replaced so the shell can keep the prompt on a fresh line.
func NewShell(runner *Runner, interrupter *Interrupter, cfg ShellConfig, logger *log.Logger) (*Shell, error) {
	tail := &lineTail{}
	s := &Shell{
		Runner:      runner,
		Interrupter: interrupter,
		Config:      cfg,
		Logger:      logger,
		stdout:      &tailWriter{tail: tail, w: runner.Stdout},
		stderr:      &tailWriter{tail: tail, w: runner.Stderr},
	}
	runner.Stdout = s.stdout
	runner.Stderr = s.stderr

	rlConfig := &readline.Config{
		Prompt:            s.Prompt(),
		HistoryFile:       cfg.HistoryFile,
		HistoryLimit:      cfg.HistoryLimit,
		HistorySearchFold: true,
		AutoComplete:      NewCompleter(runner.Ctx, runner.Registry),
		InterruptPrompt:   "^C",
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return nil, fmt.Errorf("start line editor: %w", err)
	}
	s.Readline = rl

	return s, nil
}

// Prompt renders the prompt template for the current directory.
func (s *Shell) Prompt() string {
	prompt := s.Config.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	ctx := s.Runner.Ctx
	pwd := CollapseHome(ctx.Getwd(), ctx.Home())
	if ctx.Color {
		pwd = promptColor.Sprint(pwd)
	}

	return strings.ReplaceAll(prompt, `\w`, pwd)
}

// CollapseHome shows dir relative to home as ~.
func CollapseHome(dir, home string) string {
	switch {
	case home == "":
		return dir
	case dir == home:
		return "~"
	case strings.HasPrefix(dir, strings.TrimSuffix(home, string(filepath.Separator))+string(filepath.Separator)):
		return "~" + dir[len(strings.TrimSuffix(home, string(filepath.Separator))):]
	default:
		return dir
	}
}

// Run reads and executes lines until end of input or EXIT.
func (s *Shell) Run() error {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer func() {
		signal.Stop(interrupts)
		close(interrupts)
	}()
	go func() {
		for range interrupts {
			// The line editor handles ^C itself at the prompt, this is only
			// reached while a program is running.
			go s.Interrupter.CancelCurrent()
		}
	}()

	if s.Config.Banner {
		io.WriteString(s.stdout, commands.Banner(s.Runner.Ctx))
	}

	for {
		s.stdout.tail.EnsureNewline(s.stdout.w)
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case errors.Is(err, io.EOF):
			return nil // Input closed, quit.

		case errors.Is(err, readline.ErrInterrupt):
			fmt.Fprintln(s.stderr, interruptedMessage)
			continue

		case err != nil:
			return fmt.Errorf("read line: %w", err)

		case strings.TrimSpace(line) == "":
			continue
		}

		if out := s.Runner.Run(line); out.Exit {
			return nil
		}
	}
}

// Close releases the terminal.
func (s *Shell) Close() error {
	return s.Readline.Close()
}

// lineTail remembers whether the last byte written to the terminal ended a
// line.
type lineTail struct {
	mu      sync.Mutex
	written bool
	last    byte
}

func (t *lineTail) observe(b []byte) {
	if len(b) == 0 {
		return
	}
	t.mu.Lock()
	t.written = true
	t.last = b[len(b)-1]
	if bytes.HasSuffix(b, []byte(commands.ClearScreen)) {
		// The cursor is already home.
		t.last = '\n'
	}
	t.mu.Unlock()
}

// EnsureNewline ends a partial line so the prompt starts in the first column.
func (t *lineTail) EnsureNewline(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.written && t.last != '\n' {
		io.WriteString(w, "\n")
	}
	t.written = false
}

type tailWriter struct {
	tail *lineTail
	w    io.Writer
}

func (t *tailWriter) Write(b []byte) (int, error) {
	n, err := t.w.Write(b)
	t.tail.observe(b[:n])
	return n, err
}
