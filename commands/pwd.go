package commands

import (
	"github.com/josephlewis42/cmdshell/core/shellctx"
)

// Whereami implements the WHEREAMI built-in, printing the current directory.
func Whereami(ctx *shellctx.Context, args []string) Result {
	if len(args) > 0 {
		return Usage(ctx, "WHEREAMI")
	}

	return Ok(ctx.Getwd() + "\n")
}
