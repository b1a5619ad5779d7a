package core

import (
	"log"
	"os"
	"sync/atomic"
	"time"
)

// DefaultKillGrace is how long a process gets to exit after the graceful
// signal before it's killed.
const DefaultKillGrace = 2 * time.Second

const interruptPollInterval = 10 * time.Millisecond

// Interrupter tracks the process currently in the foreground so an interrupt
// can terminate it. At most one process is current at a time.
type Interrupter struct {
	current atomic.Pointer[os.Process]

	// KillGrace is the time between the graceful signal and the kill.
	KillGrace time.Duration
	Logger    *log.Logger
}

// NewInterrupter creates an Interrupter with the default grace period.
func NewInterrupter(logger *log.Logger) *Interrupter {
	return &Interrupter{KillGrace: DefaultKillGrace, Logger: logger}
}

// Register makes p the current process.
func (i *Interrupter) Register(p *os.Process) {
	i.current.Store(p)
}

// Clear unsets the current process if it's still p.
func (i *Interrupter) Clear(p *os.Process) {
	i.current.CompareAndSwap(p, nil)
}

// Current returns the current process or nil.
func (i *Interrupter) Current() *os.Process {
	return i.current.Load()
}

// CancelCurrent asks the current process to stop, killing it if it hasn't
// exited within the grace period. It returns false if nothing was running.
func (i *Interrupter) CancelCurrent() bool {
	p := i.current.Load()
	if p == nil {
		return false
	}

	i.logf("interrupting pid %d", p.Pid)
	if err := terminate(p); err != nil {
		i.logf("terminate pid %d: %v", p.Pid, err)
	}

	deadline := time.Now().Add(i.KillGrace)
	for time.Now().Before(deadline) {
		if i.current.Load() != p {
			return true
		}
		time.Sleep(interruptPollInterval)
	}

	if i.current.Load() == p {
		i.logf("killing pid %d after %s", p.Pid, i.KillGrace)
		if err := p.Kill(); err != nil {
			i.logf("kill pid %d: %v", p.Pid, err)
		}
	}
	return true
}

func (i *Interrupter) logf(format string, a ...interface{}) {
	if i.Logger != nil {
		i.Logger.Printf(format, a...)
	}
}
