// Package commandstest provides deterministic contexts for testing built-ins.
package commandstest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/josephlewis42/cmdshell/core/shellctx"
	"github.com/spf13/afero"
)

const (
	// Home is the home directory of every test context.
	Home = "/home/user"
)

// Files maps paths to contents. Paths ending in a slash are directories.
type Files map[string]string

// NewContext creates a context over an in-memory filesystem holding files,
// started in Home. Relative paths in files are relative to Home.
func NewContext(t *testing.T, files Files) *shellctx.Context {
	t.Helper()

	memFs := afero.NewMemMapFs()
	if err := memFs.MkdirAll(filepath.FromSlash(Home), 0755); err != nil {
		t.Fatal(err)
	}

	for name, contents := range files {
		path := name
		if !strings.HasPrefix(path, "/") {
			path = Home + "/" + path
		}
		path = filepath.FromSlash(path)

		if strings.HasSuffix(name, "/") {
			if err := memFs.MkdirAll(path, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}

		if err := memFs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(memFs, path, []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
	}

	env := []string{
		shellctx.EnvHome + "=" + Home,
		shellctx.EnvPath + "=/bin",
	}
	return shellctx.New(memFs, filepath.FromSlash(Home), filepath.FromSlash(Home), env)
}

// ReadFile reads a file relative to the context's directory, failing the test
// if it can't.
func ReadFile(t *testing.T, ctx *shellctx.Context, name string) string {
	t.Helper()

	b, err := afero.ReadFile(ctx.Fs(), ctx.Resolve(name))
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// Exists reports whether name exists relative to the context's directory.
func Exists(t *testing.T, ctx *shellctx.Context, name string) bool {
	t.Helper()

	ok, err := afero.Exists(ctx.Fs(), ctx.Resolve(name))
	if err != nil {
		t.Fatal(err)
	}
	return ok
}

// Tree lists every path under root, relative to it with slash separators.
// Directories have a trailing slash.
func Tree(t *testing.T, ctx *shellctx.Context, root string) []string {
	t.Helper()

	base := ctx.Resolve(root)
	var out []string
	err := afero.Walk(ctx.Fs(), base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, path)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			rel += "/"
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	sort.Strings(out)
	return out
}
