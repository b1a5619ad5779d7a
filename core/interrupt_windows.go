//go:build windows

package core

import (
	"os"
)

// terminate kills the process, Windows has no graceful signal for programs
// without a console of their own.
func terminate(p *os.Process) error {
	return p.Kill()
}
