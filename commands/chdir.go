package commands

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/josephlewis42/cmdshell/core/shellctx"
)

const chdirUse = "CD <directory>"

// Chdir implements the CHDIR built-in. With no argument it changes to the
// home directory; a leading ~ is expanded to the home directory.
func Chdir(ctx *shellctx.Context, args []string) Result {
	if len(args) > 1 {
		return Usage(ctx, chdirUse)
	}

	target := "~"
	if len(args) == 1 {
		target = args[0]
	}

	if target == "~" || strings.HasPrefix(target, "~/") || strings.HasPrefix(target, `~\`) {
		home := ctx.Home()
		if home == "" {
			return Fail(Failure, "Home directory not found.")
		}
		target = filepath.Join(home, target[1:])
	}

	err := ctx.Chdir(target)
	switch {
	case err == nil:
		return Ok("")
	case errors.Is(err, fs.ErrNotExist):
		return Fail(PathNotFound, "The system cannot find the path specified: %s", target)
	case errors.Is(err, shellctx.ErrNotDirectory):
		return Fail(Failure, "The directory name is invalid: %s", target)
	default:
		return FromError(err)
	}
}
