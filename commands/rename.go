package commands

import (
	"github.com/josephlewis42/cmdshell/core/shellctx"
)

const renameUse = "RENAME <old> <new>"

// Rename implements the RENAME built-in, moving a file or directory and
// replacing an existing target.
func Rename(ctx *shellctx.Context, args []string) Result {
	if len(args) != 2 {
		return Usage(ctx, renameUse)
	}
	src, dst := ctx.Resolve(args[0]), ctx.Resolve(args[1])

	if _, err := ctx.Fs().Stat(src); err != nil {
		return Fail(PathNotFound, "The system cannot find the path specified: %s", args[0])
	}
	if err := ctx.Fs().Rename(src, dst); err != nil {
		return Fail(Failure, "Error renaming file: %s", err)
	}
	return Ok("")
}
