//go:build !windows

package core

import (
	"os"

	"golang.org/x/sys/unix"
)

// terminate sends the graceful termination signal.
func terminate(p *os.Process) error {
	return p.Signal(unix.SIGTERM)
}
