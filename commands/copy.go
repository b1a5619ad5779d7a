package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/josephlewis42/cmdshell/core/shellctx"
	"github.com/spf13/afero"
)

const copyUse = "COPY [--recursive | -r] <source> <destination>"

// Copy implements the COPY built-in. Copying onto an existing directory
// places the source inside it. Existing files are overwritten.
func Copy(ctx *shellctx.Context, args []string) Result {
	cmd := &SimpleCommand{
		Use:   copyUse,
		Short: "Copy files.",
	}
	recursive := cmd.Flags().BoolLong("recursive", 'r', "copy directories and their contents")

	return cmd.Run(args, func() Result {
		paths := cmd.Args()
		if len(paths) != 2 {
			return Usage(ctx, cmd.Use)
		}
		src, dst := ctx.Resolve(paths[0]), ctx.Resolve(paths[1])

		info, err := ctx.Fs().Stat(src)
		if err != nil {
			return Fail(PathNotFound, "The system cannot find the path specified: %s", paths[0])
		}
		if info.IsDir() && !*recursive {
			return Fail(InvalidSyntax, "The specified path is a directory. Use -r to copy recursively.")
		}

		if dstInfo, err := ctx.Fs().Stat(dst); err == nil && dstInfo.IsDir() {
			dst = filepath.Join(dst, filepath.Base(src))
		}
		if src == dst {
			return Fail(InvalidSyntax, "The file cannot be copied onto itself.")
		}
		if rel, err := filepath.Rel(src, dst); info.IsDir() && err == nil && !startsWithParent(rel) {
			return Fail(InvalidSyntax, "Cannot copy a directory into itself.")
		}

		if info.IsDir() {
			err = copyTree(ctx.Fs(), src, dst)
		} else {
			err = copyFile(ctx.Fs(), src, dst, info.Mode().Perm())
		}
		if err != nil {
			return FromError(err)
		}
		return Ok("")
	})
}

func startsWithParent(rel string) bool {
	return rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)
}

func copyTree(fsys afero.Fs, src, dst string) error {
	return afero.Walk(fsys, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return fsys.MkdirAll(target, info.Mode().Perm()|0700)
		}
		return copyFile(fsys, path, target, info.Mode().Perm())
	})
}

func copyFile(fsys afero.Fs, src, dst string, perm os.FileMode) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
