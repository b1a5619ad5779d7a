package core

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/josephlewis42/cmdshell/commands"
	"github.com/josephlewis42/cmdshell/commands/commandstest"
	"github.com/josephlewis42/cmdshell/core/logger"
	"github.com/josephlewis42/cmdshell/core/shellctx"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerFixture struct {
	runner *Runner
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	ctx    *shellctx.Context
}

func newRunnerFixture(t *testing.T, ctx *shellctx.Context) *runnerFixture {
	t.Helper()

	var stdout, stderr bytes.Buffer
	interrupter := NewInterrupter(nil)
	runner := NewRunner(ctx, commands.DefaultRegistry(), NewProcessAdapter(interrupter, nil), &stdout, &stderr)
	return &runnerFixture{runner: runner, stdout: &stdout, stderr: &stderr, ctx: ctx}
}

// newMemRunner runs built-ins against an in-memory filesystem.
func newMemRunner(t *testing.T, files commandstest.Files) *runnerFixture {
	return newRunnerFixture(t, commandstest.NewContext(t, files))
}

// newOSRunner runs in a temporary directory with the host's PATH.
func newOSRunner(t *testing.T) *runnerFixture {
	t.Helper()
	requireTool(t, "sh")

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	ctx := shellctx.New(afero.NewOsFs(), dir, dir, os.Environ())
	return newRunnerFixture(t, ctx)
}

func (f *runnerFixture) reset() {
	f.stdout.Reset()
	f.stderr.Reset()
}

func TestRunner_builtins(t *testing.T) {
	f := newMemRunner(t, nil)

	out := f.runner.Run("PRINT hello   world")
	assert.True(t, out.Success)
	assert.Equal(t, commands.Success, out.Status)
	assert.Equal(t, "hello world", f.stdout.String())
	assert.Empty(t, f.stderr.String())
}

func TestRunner_caseInsensitiveNames(t *testing.T) {
	f := newMemRunner(t, nil)

	for _, line := range []string{"print a", "Print a", "PRINT a"} {
		f.reset()
		out := f.runner.Run(line)
		assert.True(t, out.Success, line)
		assert.Equal(t, "a", f.stdout.String(), line)
	}
}

func TestRunner_directoryState(t *testing.T) {
	f := newMemRunner(t, nil)

	require.True(t, f.runner.Run("MKDIR projects").Success)
	require.True(t, f.runner.Run("CHDIR projects").Success)
	f.reset()

	out := f.runner.Run("WHEREAMI")
	assert.True(t, out.Success)
	assert.Equal(t, filepath.FromSlash("/home/user/projects")+"\n", f.stdout.String())
}

func TestRunner_empty(t *testing.T) {
	f := newMemRunner(t, nil)

	for _, line := range []string{"", "   ", "\t"} {
		out := f.runner.Run(line)
		assert.True(t, out.Success)
	}
	assert.Empty(t, f.stdout.String())
	assert.Empty(t, f.stderr.String())
}

func TestRunner_syntaxError(t *testing.T) {
	f := newMemRunner(t, nil)

	out := f.runner.Run("PRINT a > out | PRINT b")
	assert.False(t, out.Success)
	assert.Equal(t, commands.InvalidSyntax, out.Status)
	assert.True(t, strings.HasPrefix(f.stderr.String(), "Error: "), f.stderr.String())
	assert.Empty(t, f.stdout.String())
}

func TestRunner_builtinFailure(t *testing.T) {
	f := newMemRunner(t, nil)

	out := f.runner.Run("CHDIR nope | PRINT after")
	assert.False(t, out.Success)
	assert.Equal(t, commands.PathNotFound, out.Status)
	assert.Contains(t, f.stderr.String(), "nope")
	assert.Empty(t, f.stdout.String(), "later stages don't run")
}

func TestRunner_builtinPipeline(t *testing.T) {
	f := newMemRunner(t, nil)

	// A built-in ignores its input, only the last stage's output is shown.
	out := f.runner.Run("PRINT first | PRINT second")
	assert.True(t, out.Success)
	assert.Equal(t, "second", f.stdout.String())
}

func TestRunner_redirects(t *testing.T) {
	f := newMemRunner(t, nil)

	require.True(t, f.runner.Run("PRINT one > out.txt").Success)
	assert.Empty(t, f.stdout.String(), "redirected output isn't shown")
	assert.Equal(t, "one", commandstest.ReadFile(t, f.ctx, "out.txt"))

	require.True(t, f.runner.Run("PRINT two >> out.txt").Success)
	assert.Equal(t, "onetwo", commandstest.ReadFile(t, f.ctx, "out.txt"))

	require.True(t, f.runner.Run("PRINT three > out.txt").Success)
	assert.Equal(t, "three", commandstest.ReadFile(t, f.ctx, "out.txt"))
}

func TestRunner_redirectFailure(t *testing.T) {
	f := newMemRunner(t, nil)

	out := f.runner.Run("PRINT x < missing.txt")
	assert.False(t, out.Success)
	assert.Equal(t, commands.PathNotFound, out.Status)
	assert.NotEmpty(t, f.stderr.String())
}

func TestRunner_exit(t *testing.T) {
	f := newMemRunner(t, nil)

	out := f.runner.Run("PRINT bye | EXIT | PRINT never")
	assert.True(t, out.Exit)
	assert.True(t, out.Success)
	assert.Equal(t, commands.Exit, out.Status)
	assert.NotContains(t, f.stdout.String(), "never")
}

func TestRunner_recoversPanics(t *testing.T) {
	f := newMemRunner(t, nil)
	registry := commands.NewRegistry()
	_, err := registry.Register("BOOM", "BOOM", "Panic", commands.BuiltinFunc(func(*shellctx.Context, []string) commands.Result {
		panic("kaboom")
	}))
	require.NoError(t, err)
	f.runner.Registry = registry

	out := f.runner.Run("BOOM")
	assert.False(t, out.Success)
	assert.Equal(t, commands.UnknownError, out.Status)
	assert.Contains(t, f.stderr.String(), "kaboom")
}

func TestRunner_history(t *testing.T) {
	f := newMemRunner(t, nil)

	var buf bytes.Buffer
	f.runner.History = logger.NewJSONLinesLogRecorder(&buf)

	f.runner.Run("PRINT a | PRINT b")
	f.runner.Run("CHDIR nope")
	f.runner.Run("")

	var entries []*logger.Entry
	require.NoError(t, logger.ReadJSONLinesLog(&buf, func(le *logger.Entry) {
		entries = append(entries, le)
	}))
	require.Len(t, entries, 2, "blank lines aren't recorded")

	assert.Equal(t, "PRINT a | PRINT b", entries[0].Line)
	assert.Equal(t, []string{"PRINT", "PRINT"}, entries[0].Commands)
	assert.True(t, entries[0].Success)
	assert.False(t, entries[0].Time.IsZero())

	assert.Equal(t, "CHDIR", entries[1].Command())
	assert.False(t, entries[1].Success)
	assert.Equal(t, commands.PathNotFound.String(), entries[1].Status)
}

func TestRunner_notFound(t *testing.T) {
	f := newMemRunner(t, nil)

	out := f.runner.Run("NOPE")
	assert.False(t, out.Success)
	assert.Equal(t, "Error: 'NOPE' not found or not executable\n", f.stderr.String())
	assert.Empty(t, f.stdout.String())
}

func TestRunner_isDirectory(t *testing.T) {
	f := newMemRunner(t, commandstest.Files{"sub/": ""})

	out := f.runner.Run("./sub")
	assert.False(t, out.Success)
	assert.Equal(t, "Error: './sub' is a directory\n", f.stderr.String())
}

func TestRunner_external(t *testing.T) {
	f := newOSRunner(t)
	requireTool(t, "wc")

	out := f.runner.Run(`sh -c "echo a b"`)
	assert.True(t, out.Success)
	assert.Equal(t, "a b\n", f.stdout.String())

	f.reset()
	out = f.runner.Run(`PRINT "a b c" | wc -w`)
	assert.True(t, out.Success)
	assert.Equal(t, "3", strings.TrimSpace(f.stdout.String()))
}

func TestRunner_externalPipeline(t *testing.T) {
	f := newOSRunner(t)
	requireTool(t, "echo")
	requireTool(t, "wc")

	out := f.runner.Run(`echo "a b" | wc`)
	assert.True(t, out.Success)
	assert.Equal(t, []string{"1", "2", "4"}, strings.Fields(f.stdout.String()))
	assert.Empty(t, f.stderr.String())
}

func TestRunner_externalPrintedOnce(t *testing.T) {
	f := newOSRunner(t)

	f.runner.Run(`sh -c "echo once"`)
	assert.Equal(t, "once\n", f.stdout.String())
}

func TestRunner_externalExitCode(t *testing.T) {
	f := newOSRunner(t)

	out := f.runner.Run(`sh -c "exit 4"`)
	assert.False(t, out.Success, "a single stage must exit zero")
	assert.Equal(t, 4, out.ExitCode)
	assert.Equal(t, commands.Failure, out.Status)

	out = f.runner.Run(`sh -c "exit 4" | sh -c "cat"`)
	assert.True(t, out.Success, "pipelines only require every stage to start")

	out = f.runner.Run(`sh -c "exit 0" | sh -c "exit 5"`)
	assert.True(t, out.Success)
	assert.Equal(t, 5, out.ExitCode)
}

func TestRunner_pipelineMissingStage(t *testing.T) {
	f := newOSRunner(t)

	out := f.runner.Run(`PRINT x | definitely-not-a-program | sh -c "cat"`)
	assert.False(t, out.Success)
	assert.Contains(t, f.stderr.String(), "Error: 'definitely-not-a-program' not found or not executable")
	assert.Empty(t, f.stdout.String(), "the next stage gets empty input")
}

func TestRunner_externalStderr(t *testing.T) {
	f := newOSRunner(t)

	f.runner.Run(`sh -c "echo warn >&2" | sh -c "cat"`)
	assert.Equal(t, "warn\n", f.stderr.String())
	assert.Empty(t, f.stdout.String())
}

func TestRunner_externalRedirects(t *testing.T) {
	f := newOSRunner(t)

	require.True(t, f.runner.Run(`PRINT hello > in.txt`).Success)
	require.True(t, f.runner.Run(`sh -c "cat" < in.txt > out.txt`).Success)
	assert.Empty(t, f.stdout.String())

	got, err := os.ReadFile(filepath.Join(f.ctx.Getwd(), "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	require.True(t, f.runner.Run(`sh -c "echo more" >> out.txt`).Success)
	got, err = os.ReadFile(filepath.Join(f.ctx.Getwd(), "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hellomore\n", string(got))
}

func TestRunner_externalUsesShellDirectory(t *testing.T) {
	f := newOSRunner(t)

	require.True(t, f.runner.Run("MCD inner").Success)
	f.reset()
	require.True(t, f.runner.Run(`sh -c "pwd"`).Success)
	assert.Equal(t, filepath.Join(f.ctx.Home(), "inner")+"\n", f.stdout.String())
}
