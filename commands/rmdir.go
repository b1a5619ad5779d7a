package commands

import (
	"github.com/josephlewis42/cmdshell/core/shellctx"
	"github.com/spf13/afero"
)

const rmdirUse = "RMDIR <directory>"

// Rmdir implements the RMDIR built-in, removing a single empty directory.
func Rmdir(ctx *shellctx.Context, args []string) Result {
	if len(args) != 1 {
		return Usage(ctx, rmdirUse)
	}
	dir := ctx.Resolve(args[0])

	info, err := ctx.Fs().Stat(dir)
	switch {
	case err != nil:
		return FromError(err)
	case !info.IsDir():
		return Fail(InvalidSyntax, "The directory name is invalid: %s", args[0])
	}

	// Not every afero.Fs refuses to remove a populated directory.
	empty, err := afero.IsEmpty(ctx.Fs(), dir)
	switch {
	case err != nil:
		return FromError(err)
	case !empty:
		return Fail(Failure, "The directory is not empty.")
	}

	if err := ctx.Fs().Remove(dir); err != nil {
		return FromError(err)
	}
	return Ok("")
}
