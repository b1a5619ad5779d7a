package commands

import (
	"errors"
	"io/fs"

	"github.com/josephlewis42/cmdshell/core/shellctx"
)

const deleteUse = "DELETE [--recursive | -r] <path>"

// Delete implements the DELETE built-in. Directories are only removed with
// the recursive flag.
func Delete(ctx *shellctx.Context, args []string) Result {
	cmd := &SimpleCommand{
		Use:   deleteUse,
		Short: "Removes the file.",
	}
	recursive := cmd.Flags().BoolLong("recursive", 'r', "remove directories and their contents")

	return cmd.Run(args, func() Result {
		paths := cmd.Args()
		if len(paths) != 1 {
			return Usage(ctx, cmd.Use)
		}
		path := ctx.Resolve(paths[0])

		info, err := ctx.Fs().Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return Fail(PathNotFound, "The system cannot find the path specified: %s", paths[0])
		case err != nil:
			return FromError(err)
		}

		switch {
		case info.IsDir() && !*recursive:
			return Fail(InvalidSyntax, "The specified path is a directory. Use -r to remove recursively.")
		case info.IsDir():
			err = ctx.Fs().RemoveAll(path)
		default:
			err = ctx.Fs().Remove(path)
		}
		if err != nil {
			return FromError(err)
		}
		return Ok("")
	})
}
