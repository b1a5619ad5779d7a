package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/josephlewis42/cmdshell/commands"
	"github.com/josephlewis42/cmdshell/core/logger"
	"github.com/josephlewis42/cmdshell/core/shell"
	"github.com/josephlewis42/cmdshell/core/shellctx"
	"github.com/spf13/afero"
)

// Outcome summarizes a command line.
type Outcome struct {
	Status  commands.Status
	Success bool
	// Exit is set when the line asked the shell to terminate.
	Exit bool
	// ExitCode is the exit code of the last external stage that ran.
	ExitCode int
}

// Runner executes command lines against a shell context.
//
// Stages run one after another. Each stage's complete output becomes the
// next stage's input, so stage i+1 never starts before stage i has finished.
type Runner struct {
	Ctx      *shellctx.Context
	Registry *commands.Registry
	Adapter  *ProcessAdapter
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *log.Logger
	History  *logger.Logger
}

// NewRunner creates a runner writing to stdout and stderr.
func NewRunner(ctx *shellctx.Context, registry *commands.Registry, adapter *ProcessAdapter, stdout, stderr io.Writer) *Runner {
	return &Runner{
		Ctx:      ctx,
		Registry: registry,
		Adapter:  adapter,
		Stdout:   stdout,
		Stderr:   stderr,
		Logger:   log.New(io.Discard, "", 0),
		History:  logger.Nop(),
	}
}

// Run parses and executes a command line. It never returns an error; all
// problems are reported on the error stream and reflected in the Outcome.
func (r *Runner) Run(line string) Outcome {
	start := time.Now()

	pipeline, err := shell.Parse(line)
	switch {
	case errors.Is(err, shell.ErrEmpty):
		return Outcome{Status: commands.Success, Success: true}
	case err != nil:
		r.errorf("Error: %s", err)
		out := Outcome{Status: commands.InvalidSyntax}
		r.record(line, nil, out, start)
		return out
	}

	out := r.runPipeline(pipeline)
	r.record(line, pipeline, out, start)
	return out
}

func (r *Runner) runPipeline(pipeline *shell.Pipeline) Outcome {
	var payload []byte
	if in := pipeline.First().InputRedirect; in != "" {
		b, err := afero.ReadFile(r.Ctx.Fs(), r.Ctx.Resolve(in))
		if err != nil {
			res := commands.FromError(err)
			r.errorf("%s", res.Stderr)
			return Outcome{Status: res.Status}
		}
		payload = b
	}

	var (
		out        = Outcome{Status: commands.Success}
		allStarted = true
		mirrored   bool
		last       = len(pipeline.Stages) - 1
	)

stages:
	for i := range pipeline.Stages {
		stage := &pipeline.Stages[i]
		mirrored = false

		if entry, ok := r.Registry.Resolve(stage.Name); ok {
			res := r.runBuiltin(entry, stage.Args)
			payload = []byte(res.Stdout)
			out.ExitCode = 0

			switch res.Status {
			case commands.Success:
				continue
			case commands.Exit:
				out.Exit = true
				out.Status = commands.Exit
				break stages
			default:
				// Built-in failures stop the pipeline.
				r.reportFailure(res)
				return Outcome{Status: res.Status, ExitCode: out.ExitCode}
			}
		}

		path, err := LookPath(r.Ctx, stage.Name)
		if err != nil {
			r.reportLookupFailure(stage.Name, err)
			payload = nil
			allStarted = false
			continue
		}

		liveStdout := i == last && stage.OutputRedirect == ""
		proc := Process{
			Path:   path,
			Args:   stage.Args,
			Dir:    r.Ctx.Getwd(),
			Env:    r.Ctx.Environ(),
			Stdin:  payload,
			Stderr: r.Stderr,
		}
		if liveStdout {
			proc.Stdout = r.Stdout
		}

		res, err := r.Adapter.Run(proc)
		if err != nil {
			r.Logger.Printf("run %q: %v", path, err)
			r.reportLookupFailure(stage.Name, err)
			payload = nil
			allStarted = false
			continue
		}

		payload = res.Stdout
		mirrored = liveStdout
		out.ExitCode = res.ExitCode
	}

	if redirect := pipeline.Last().OutputRedirect; redirect != "" && !out.Exit {
		if err := r.writeRedirect(redirect, pipeline.Last().Append, payload); err != nil {
			res := commands.FromError(err)
			r.errorf("%s", res.Stderr)
			return Outcome{Status: res.Status, ExitCode: out.ExitCode}
		}
	} else if !mirrored && len(payload) > 0 {
		r.Stdout.Write(payload)
	}

	// A single command succeeds on exit code zero. In a pipeline every stage
	// only has to start, intermediate exit codes are informational.
	if len(pipeline.Stages) == 1 {
		out.Success = allStarted && out.ExitCode == 0
	} else {
		out.Success = allStarted
	}
	if out.Exit {
		out.Success = true
	}
	if !out.Success && out.Status == commands.Success {
		out.Status = commands.Failure
	}
	return out
}

// runBuiltin calls a built-in, converting panics into UnknownError.
func (r *Runner) runBuiltin(entry *commands.Entry, args []string) (res commands.Result) {
	defer func() {
		if p := recover(); p != nil {
			r.Logger.Printf("panic in %s: %v\n%s", entry.Name(), p, debug.Stack())
			res = commands.Fail(commands.UnknownError, "%s: internal error: %v", entry.Name(), p)
		}
	}()

	return entry.Main.Main(r.Ctx, args)
}

func (r *Runner) writeRedirect(name string, appendTo bool, payload []byte) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendTo {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	fd, err := r.Ctx.Fs().OpenFile(r.Ctx.Resolve(name), flags, 0644)
	if err != nil {
		return err
	}
	if _, err := fd.Write(payload); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

func (r *Runner) reportFailure(res commands.Result) {
	msg := res.Stderr
	if msg == "" {
		msg = res.Status.String()
	}
	r.errorf("%s", msg)
}

func (r *Runner) reportLookupFailure(name string, err error) {
	switch {
	case errors.Is(err, ErrIsDirectory):
		r.errorf("Error: '%s' is a directory", name)
	case errors.Is(err, ErrNotFound), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		r.errorf("Error: '%s' not found or not executable", name)
	default:
		r.errorf("Error: could not run '%s': %v", name, err)
	}
}

// errorf writes a line to the error stream.
func (r *Runner) errorf(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	io.WriteString(r.Stderr, msg)
}

func (r *Runner) record(line string, pipeline *shell.Pipeline, out Outcome, start time.Time) {
	entry := &logger.Entry{
		Line:     line,
		Cwd:      r.Ctx.Getwd(),
		Status:   out.Status.String(),
		Success:  out.Success,
		ExitCode: out.ExitCode,
		Duration: float64(time.Since(start).Microseconds()) / 1000.0,
	}
	if pipeline != nil {
		for _, stage := range pipeline.Stages {
			entry.Commands = append(entry.Commands, stage.Name)
		}
	}

	if err := r.History.Log(entry); err != nil {
		r.Logger.Printf("record history: %v", err)
	}
}
