package commands

import (
	"strings"

	"github.com/josephlewis42/cmdshell/core/shellctx"
)

// Print implements the PRINT built-in. Arguments are joined by a single space
// and no newline is added.
func Print(_ *shellctx.Context, args []string) Result {
	return Ok(strings.Join(args, " "))
}
