package core

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/josephlewis42/cmdshell/commands"
	"github.com/josephlewis42/cmdshell/commands/commandstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapseHome(t *testing.T) {
	home := filepath.FromSlash("/home/user")

	cases := map[string]struct {
		dir  string
		home string
		want string
	}{
		"home":        {dir: home, home: home, want: "~"},
		"below home":  {dir: filepath.Join(home, "src"), home: home, want: "~" + filepath.FromSlash("/src")},
		"outside":     {dir: filepath.FromSlash("/etc"), home: home, want: filepath.FromSlash("/etc")},
		"shared name": {dir: home + "name", home: home, want: home + "name"},
		"no home":     {dir: home, home: "", want: home},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.want, CollapseHome(tc.dir, tc.home))
		})
	}
}

func TestShell_Prompt(t *testing.T) {
	ctx := commandstest.NewContext(t, commandstest.Files{"src/": ""})
	s := &Shell{
		Runner: NewRunner(ctx, commands.DefaultRegistry(), nil, nil, nil),
	}

	assert.Equal(t, "~> ", s.Prompt())

	require.NoError(t, ctx.Chdir("src"))
	s.Config.Prompt = `[\w] $ `
	assert.Equal(t, "[~"+filepath.FromSlash("/src")+"] $ ", s.Prompt())
}

func TestLineTail(t *testing.T) {
	var out, term bytes.Buffer
	tail := &lineTail{}
	w := &tailWriter{tail: tail, w: &out}

	tail.EnsureNewline(&term)
	assert.Empty(t, term.String(), "nothing was written yet")

	w.Write([]byte("partial"))
	tail.EnsureNewline(&term)
	assert.Equal(t, "\n", term.String())

	term.Reset()
	w.Write([]byte("line\n"))
	tail.EnsureNewline(&term)
	assert.Empty(t, term.String())

	w.Write([]byte("text" + commands.ClearScreen))
	tail.EnsureNewline(&term)
	assert.Empty(t, term.String(), "the screen was cleared")

	assert.Equal(t, "partialline\ntext"+commands.ClearScreen, out.String())
}
