package commands

import (
	"github.com/josephlewis42/cmdshell/core/shellctx"
)

const (
	mkdirUse = "MKDIR <directory>..."
	mcdUse   = "MCD <directory>"
)

// Mkdir implements the MKDIR built-in. Missing parents are created and an
// existing target is reported as AlreadyExists.
func Mkdir(ctx *shellctx.Context, args []string) Result {
	if len(args) == 0 {
		return Usage(ctx, mkdirUse)
	}

	for _, dir := range args {
		if res := makeDirectory(ctx, dir); !res.OK() {
			return res
		}
	}
	return Ok("")
}

func makeDirectory(ctx *shellctx.Context, dir string) Result {
	path := ctx.Resolve(dir)
	if _, err := ctx.Fs().Stat(path); err == nil {
		return Fail(AlreadyExists, "A subdirectory or file %s already exists.", dir)
	}

	if err := ctx.Fs().MkdirAll(path, 0755); err != nil {
		return FromError(err)
	}
	return Ok("")
}

// Mcd implements the MCD built-in: MKDIR followed by CHDIR into the new
// directory. An existing directory is entered rather than reported.
func Mcd(ctx *shellctx.Context, args []string) Result {
	if len(args) != 1 {
		return Usage(ctx, mcdUse)
	}

	res := makeDirectory(ctx, args[0])
	if res.Status == AlreadyExists {
		if info, err := ctx.Fs().Stat(ctx.Resolve(args[0])); err == nil && info.IsDir() {
			res = Ok("")
		}
	}
	if !res.OK() {
		return res
	}

	return Chdir(ctx, args)
}
