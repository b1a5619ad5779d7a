package commands

import (
	"github.com/josephlewis42/cmdshell/core/shellctx"
)

// ExitShell implements the EXIT built-in.
func ExitShell(_ *shellctx.Context, _ []string) Result {
	return Result{Status: Exit}
}

// Pause implements the PAUSE built-in, blocking until a key is pressed.
func Pause(ctx *shellctx.Context, _ []string) Result {
	if err := ctx.ReadKey(); err != nil {
		return Fail(Failure, "Error: %s", err)
	}
	return Ok("")
}
