package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultDrainTimeout bounds how long output is drained after a process exits.
const DefaultDrainTimeout = time.Second

// Process describes an external program to run.
type Process struct {
	// Path is the resolved executable, also used as argv[0].
	Path string
	Args []string
	Dir  string
	Env  []string

	// Stdin is written to the process then its input is closed.
	Stdin []byte
	// Stdout and Stderr optionally receive output live, as it's produced.
	Stdout io.Writer
	Stderr io.Writer
}

// ProcessResult is the captured output of a finished process.
type ProcessResult struct {
	Stdout []byte
	Stderr string
	// ExitCode is -1 if the process was killed by a signal.
	ExitCode int
}

// ProcessAdapter runs external programs with all three standard streams
// connected to pipes owned by the shell.
type ProcessAdapter struct {
	Interrupter *Interrupter
	// DrainTimeout bounds the wait for output after the process exits. Output
	// still held open by a grandchild after that is abandoned.
	DrainTimeout time.Duration
	Logger       *log.Logger
}

// NewProcessAdapter creates an adapter registering its processes with
// interrupter.
func NewProcessAdapter(interrupter *Interrupter, logger *log.Logger) *ProcessAdapter {
	return &ProcessAdapter{
		Interrupter:  interrupter,
		DrainTimeout: DefaultDrainTimeout,
		Logger:       logger,
	}
}

type pipePair struct {
	r, w *os.File
}

func newPipes(n int) ([]pipePair, error) {
	var out []pipePair
	for i := 0; i < n; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			closePipes(out)
			return nil, fmt.Errorf("create pipe: %w", err)
		}
		out = append(out, pipePair{r: r, w: w})
	}
	return out, nil
}

func closePipes(pipes []pipePair) {
	for _, p := range pipes {
		p.r.Close()
		p.w.Close()
	}
}

// Run starts p and waits for it to exit. A nonzero exit isn't an error, errors
// are only returned if the process couldn't be started or waited on.
func (a *ProcessAdapter) Run(p Process) (ProcessResult, error) {
	pipes, err := newPipes(3)
	if err != nil {
		return ProcessResult{}, err
	}
	stdin, stdout, stderr := pipes[0], pipes[1], pipes[2]

	cmd := &exec.Cmd{
		Path:   p.Path,
		Args:   append([]string{p.Path}, p.Args...),
		Dir:    p.Dir,
		Env:    p.Env,
		Stdin:  stdin.r,
		Stdout: stdout.w,
		Stderr: stderr.w,
	}

	if err := cmd.Start(); err != nil {
		closePipes(pipes)
		return ProcessResult{}, fmt.Errorf("start %s: %w", p.Path, err)
	}
	a.register(cmd.Process)
	defer a.clear(cmd.Process)
	a.logf("started pid %d: %s", cmd.Process.Pid, p.Path)

	// The child has its own copies now.
	stdin.r.Close()
	stdout.w.Close()
	stderr.w.Close()
	defer stdout.r.Close()
	defer stderr.r.Close()

	var (
		mirrorMu  sync.Mutex
		outBuf    lockedBuffer
		errBuf    lockedBuffer
		g         errgroup.Group
		stdinOnce sync.Once
	)
	closeStdin := func() { stdinOnce.Do(func() { stdin.w.Close() }) }
	defer closeStdin()

	g.Go(func() error {
		defer closeStdin()
		if _, err := stdin.w.Write(p.Stdin); err != nil && !isClosedPipe(err) {
			a.logf("write stdin of pid %d: %v", cmd.Process.Pid, err)
		}
		return nil
	})
	g.Go(func() error {
		return drain(stdout.r, &outBuf, mirror(&mirrorMu, p.Stdout))
	})
	g.Go(func() error {
		return drain(stderr.r, &errBuf, mirror(&mirrorMu, p.Stderr))
	})

	waitErr := cmd.Wait()
	a.clear(cmd.Process)

	drained := make(chan error, 1)
	go func() { drained <- g.Wait() }()

	timeout := a.DrainTimeout
	if timeout <= 0 {
		timeout = DefaultDrainTimeout
	}

	select {
	case err := <-drained:
		if err != nil {
			a.logf("drain pid %d: %v", cmd.Process.Pid, err)
		}
	case <-time.After(timeout):
		// A grandchild still holds the write ends open.
		a.logf("pid %d exited but its output is still open after %s, abandoning it", cmd.Process.Pid, timeout)
		closeStdin()
		stdout.r.Close()
		stderr.r.Close()
	}

	res := ProcessResult{
		Stdout: outBuf.Bytes(),
		Stderr: string(errBuf.Bytes()),
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		res.ExitCode = 0
	case errors.As(waitErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, fmt.Errorf("wait %s: %w", p.Path, waitErr)
	}

	a.logf("pid %d exited with code %d", cmd.Process.Pid, res.ExitCode)
	return res, nil
}

func (a *ProcessAdapter) register(p *os.Process) {
	if a.Interrupter != nil {
		a.Interrupter.Register(p)
	}
}

func (a *ProcessAdapter) clear(p *os.Process) {
	if a.Interrupter != nil {
		a.Interrupter.Clear(p)
	}
}

func (a *ProcessAdapter) logf(format string, v ...interface{}) {
	if a.Logger != nil {
		a.Logger.Printf(format, v...)
	}
}

func drain(r io.Reader, buf *lockedBuffer, live io.Writer) error {
	var dst io.Writer = buf
	if live != nil {
		dst = io.MultiWriter(buf, live)
	}

	_, err := io.Copy(dst, r)
	if isClosedPipe(err) {
		return nil
	}
	return err
}

func isClosedPipe(err error) bool {
	return errors.Is(err, os.ErrClosed) || errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}

// mirror wraps w so writes from different streams never interleave mid-write.
func mirror(mu *sync.Mutex, w io.Writer) io.Writer {
	if w == nil {
		return nil
	}
	return &lockedWriter{mu: mu, w: w}
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Mirroring is best-effort, a failing terminal mustn't stop the capture.
	l.w.Write(b)
	return len(b), nil
}

// lockedBuffer can be read while a drain goroutine is still writing to it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Bytes returns a copy of the contents.
func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}
