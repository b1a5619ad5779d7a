package core

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/josephlewis42/cmdshell/commands"
	"github.com/josephlewis42/cmdshell/core/shellctx"
)

var (
	// ErrNotFound is the error resulting if a path search failed to find an executable file.
	ErrNotFound = exec.ErrNotFound
	// ErrIsDirectory is returned when a path-like command names a directory.
	ErrIsDirectory = errors.New("is a directory")
)

func findExecutable(ctx *shellctx.Context, file string) error {
	d, err := ctx.Fs().Stat(file)
	if err != nil {
		return err
	}
	if d.IsDir() {
		return ErrIsDirectory
	}
	if ctx.IsExecutable(d) {
		return nil
	}
	return fs.ErrPermission
}

// candidates lists the file names tried for file. On Windows a name without an
// extension is also tried with each executable extension.
func candidates(ctx *shellctx.Context, file string) []string {
	if runtime.GOOS != "windows" || filepath.Ext(file) != "" {
		return []string{file}
	}

	out := []string{file}
	for _, ext := range ctx.PathExts {
		out = append(out, file+ext)
	}
	return out
}

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable. If file looks like a path, it is resolved
// against the context's directory and the PATH is not consulted. The result
// is always an absolute path.
func LookPath(ctx *shellctx.Context, file string) (string, error) {
	if commands.IsPathLike(file) {
		var firstErr error
		for _, path := range candidates(ctx, ctx.Resolve(file)) {
			err := findExecutable(ctx, path)
			if err == nil {
				return path, nil
			}
			if firstErr == nil || errors.Is(err, ErrIsDirectory) {
				firstErr = err
			}
		}
		if errors.Is(firstErr, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", firstErr
	}

	path := ctx.Getenv(shellctx.EnvPath)
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		for _, path := range candidates(ctx, filepath.Join(ctx.Resolve(dir), file)) {
			if err := findExecutable(ctx, path); err == nil {
				return path, nil
			}
		}
	}
	return "", ErrNotFound
}
