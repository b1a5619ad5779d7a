package cmd

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/josephlewis42/cmdshell/commands"
	"github.com/josephlewis42/cmdshell/core"
	"github.com/josephlewis42/cmdshell/core/config"
	"github.com/josephlewis42/cmdshell/core/logger"
	"github.com/josephlewis42/cmdshell/core/shellctx"
	"golang.org/x/term"
)

// session wires a shell context to the configured logs and limits.
type session struct {
	ctx         *shellctx.Context
	interrupter *core.Interrupter
	runner      *core.Runner
	appLog      *log.Logger

	closers []io.Closer
}

func openSession(cfg *config.Configuration, stdin io.Reader, stdout, stderr io.Writer) (*session, error) {
	drainTimeout, err := cfg.DrainTimeoutDuration()
	if err != nil {
		return nil, err
	}
	killGrace, err := cfg.KillGraceDuration()
	if err != nil {
		return nil, err
	}

	ctx, err := shellctx.FromOS()
	if err != nil {
		return nil, err
	}
	ctx.Stdin = stdin
	ctx.Stdout = stdout
	if len(cfg.PathExtensions) > 0 {
		ctx.PathExts = cfg.PathExtensions
	}

	ctx.Color = cfg.ShouldColor(isTerminal(stdout))
	switch cfg.Color {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	}

	s := &session{ctx: ctx}

	s.appLog = log.New(io.Discard, "", 0)
	if fd, err := cfg.OpenAppLog(); err == nil {
		s.closers = append(s.closers, fd)
		s.appLog = log.New(fd, "[cmdshell] ", log.LstdFlags)
	}
	s.appLog.Printf("session started in %s", ctx.Getwd())

	s.interrupter = core.NewInterrupter(s.appLog)
	s.interrupter.KillGrace = killGrace

	adapter := core.NewProcessAdapter(s.interrupter, s.appLog)
	adapter.DrainTimeout = drainTimeout

	s.runner = core.NewRunner(ctx, commands.DefaultRegistry(), adapter, stdout, stderr)
	s.runner.Logger = s.appLog
	if fd, err := cfg.OpenCommandLog(); err == nil {
		s.closers = append(s.closers, fd)
		s.runner.History = logger.NewJSONLinesLogRecorder(fd)
	} else {
		s.appLog.Printf("command log disabled: %v", err)
	}

	return s, nil
}

// interactive runs the read-eval-print loop until EXIT or end of input.
func (s *session) interactive(cfg *config.Configuration) error {
	historyFile := cfg.HistoryPath()
	if historyFile != "" {
		// Only keep history once the config directory has been initialized.
		if info, err := os.Stat(filepath.Dir(historyFile)); err != nil || !info.IsDir() {
			historyFile = ""
		}
	}

	shell, err := core.NewShell(s.runner, s.interrupter, core.ShellConfig{
		Prompt:       cfg.Prompt,
		HistoryFile:  historyFile,
		HistoryLimit: cfg.HistoryLimit,
		Banner:       cfg.Banner,
	}, s.appLog)
	if err != nil {
		return err
	}
	defer shell.Close()

	return shell.Run()
}

// Close flushes and closes the session's logs.
func (s *session) Close() error {
	s.appLog.Printf("session ended")

	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
