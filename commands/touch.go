package commands

import (
	"os"

	"github.com/josephlewis42/cmdshell/core/shellctx"
)

const newUse = "NEW <file>"

// NewFile implements the NEW built-in, creating an empty file. It never
// truncates an existing one.
func NewFile(ctx *shellctx.Context, args []string) Result {
	if len(args) != 1 {
		return Usage(ctx, newUse)
	}
	path := ctx.Resolve(args[0])

	if _, err := ctx.Fs().Stat(path); err == nil {
		return Fail(AlreadyExists, "A subdirectory or file %s already exists.", args[0])
	}

	fd, err := ctx.Fs().OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return FromError(err)
	}
	if err := fd.Close(); err != nil {
		return FromError(err)
	}
	return Ok("")
}
