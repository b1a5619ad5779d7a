package commands

import (
	"unicode/utf8"

	"github.com/josephlewis42/cmdshell/core/shellctx"
	"github.com/spf13/afero"
)

const showUse = "SHOW <file>"

// Show implements the SHOW built-in, outputting a text file. The output
// always ends in a newline.
func Show(ctx *shellctx.Context, args []string) Result {
	if len(args) != 1 {
		return Usage(ctx, showUse)
	}
	path := ctx.Resolve(args[0])

	info, err := ctx.Fs().Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return Fail(PathNotFound, "The system cannot find the file specified: %s", args[0])
	}

	contents, err := afero.ReadFile(ctx.Fs(), path)
	if err != nil {
		return FromError(err)
	}
	if !utf8.Valid(contents) {
		return Fail(Failure, "Malformed input in file: %s", args[0])
	}

	out := string(contents)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out += "\n"
	}
	return Ok(out)
}
