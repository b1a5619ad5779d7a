// Package shellctx holds the shell's execution context: the filesystem, the
// current directory and the inherited environment.
//
// There is exactly one Context per shell. Its current directory is
// independent of the process working directory and is only changed through
// Chdir, which is reserved for the directory-change built-in. The context is
// not safe for concurrent mutation; it's read and written on the goroutine
// dispatching commands.
package shellctx

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/term"
)

const (
	EnvHome = "HOME"
	EnvPath = "PATH"

	// DefaultWidth is used when the output isn't a terminal.
	DefaultWidth = 80
)

// ErrNotDirectory is returned by Chdir for targets that aren't directories.
var ErrNotDirectory = errors.New("the directory name is invalid")

// Context is the state shared by every command the shell runs.
type Context struct {
	fs   afero.Fs
	cwd  string
	home string
	env  []string

	// Stdin is where interactive built-ins read keypresses from.
	Stdin io.Reader
	// Stdout is the terminal the shell writes to, used to size output.
	Stdout io.Writer
	// Color enables ANSI colors in built-in output.
	Color bool
	// PathExts lists the extensions that mark a file executable on Windows.
	PathExts []string
}

// DefaultPathExts are the executable extensions used on Windows.
var DefaultPathExts = []string{".exe", ".com", ".bat", ".cmd"}

// New creates a context over fsys starting in cwd.
func New(fsys afero.Fs, cwd, home string, env []string) *Context {
	return &Context{
		fs:       fsys,
		cwd:      filepath.Clean(cwd),
		home:     home,
		env:      append([]string(nil), env...),
		Stdin:    strings.NewReader(""),
		Stdout:   io.Discard,
		PathExts: DefaultPathExts,
	}
}

// FromOS builds a context over the real filesystem using the process working
// directory, home directory and environment.
//
// Like a freshly opened console, a shell started at the root of the
// filesystem begins in the user's home directory instead.
func FromOS() (*Context, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	// A missing home directory isn't fatal, CHDIR with no args reports it.
	home, _ := os.UserHomeDir()

	ctx := New(afero.NewOsFs(), cwd, home, os.Environ())
	ctx.Stdin = os.Stdin
	ctx.Stdout = os.Stdout

	if isRoot(ctx.cwd) && home != "" {
		if ok, _ := afero.DirExists(ctx.fs, home); ok {
			ctx.cwd = filepath.Clean(home)
		}
	}

	return ctx, nil
}

func isRoot(dir string) bool {
	return filepath.Dir(dir) == dir
}

// Fs returns the filesystem built-ins operate on.
func (c *Context) Fs() afero.Fs {
	return c.fs
}

// Getwd returns the current directory.
func (c *Context) Getwd() string {
	return c.cwd
}

// Home returns the user's home directory, possibly empty.
func (c *Context) Home() string {
	return c.home
}

// Resolve makes path absolute relative to the current directory.
func (c *Context) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.cwd, path)
}

// Chdir changes the current directory to dir, resolved relative to the
// current directory.
func (c *Context) Chdir(dir string) error {
	target := c.Resolve(dir)

	info, err := c.fs.Stat(target)
	if err != nil {
		return &fs.PathError{Op: "chdir", Path: dir, Err: unwrapPathError(err)}
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "chdir", Path: dir, Err: ErrNotDirectory}
	}

	c.cwd = target
	return nil
}

func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

// IsExecutable reports whether info describes a file the shell could run: a
// regular file with an execute bit, or on Windows one with an executable
// extension.
func (c *Context) IsExecutable(info fs.FileInfo) bool {
	if !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return c.HasExecutableExt(info.Name())
	}
	return info.Mode().Perm()&0111 != 0
}

// HasExecutableExt reports whether name ends in one of PathExts.
func (c *Context) HasExecutableExt(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range c.PathExts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// Environ returns a copy of the environment in KEY=value form.
func (c *Context) Environ() []string {
	return append([]string(nil), c.env...)
}

// LookupEnv retrieves an environment variable. Keys are case insensitive on
// Windows.
func (c *Context) LookupEnv(key string) (string, bool) {
	for i := len(c.env) - 1; i >= 0; i-- {
		k, v, ok := strings.Cut(c.env[i], "=")
		if !ok {
			continue
		}
		if k == key || (runtime.GOOS == "windows" && strings.EqualFold(k, key)) {
			return v, true
		}
	}
	return "", false
}

// Getenv retrieves an environment variable, empty if unset.
func (c *Context) Getenv(key string) string {
	v, _ := c.LookupEnv(key)
	return v
}

// TerminalWidth returns the width of the output terminal in columns.
func (c *Context) TerminalWidth() int {
	if f, ok := c.Stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return DefaultWidth
}

// ReadKey blocks until a single key is pressed. A terminal stdin is put into
// raw mode for the duration so the key doesn't need to be followed by enter.
func (c *Context) ReadKey() error {
	if f, ok := c.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return err
		}
		defer term.Restore(int(f.Fd()), state)
	}

	buf := make([]byte, 1)
	_, err := c.Stdin.Read(buf)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
