package commands

import (
	"testing"

	"github.com/josephlewis42/cmdshell/commands/commandstest"
	"github.com/stretchr/testify/assert"
)

func TestDir(t *testing.T) {
	files := commandstest.Files{
		"b.txt":      "bb",
		"a.txt":      "a",
		".hidden":    "",
		"sub/c.txt":  "c",
		"sub/d.txt":  "d",
		"other/e.md": "e",
	}

	cases := map[string]struct {
		args   []string
		status Status
		stdout string
	}{
		"cwd":       {nil, Success, "a.txt\nb.txt\nother\nsub\n"},
		"all":       {[]string{"-a"}, Success, ".hidden\na.txt\nb.txt\nother\nsub\n"},
		"directory": {[]string{"sub"}, Success, "c.txt\nd.txt\n"},
		"file":      {[]string{"a.txt"}, Success, "a.txt\n"},
		"multiple":  {[]string{"sub", "other"}, Success, "sub:\nc.txt\nd.txt\n\nother:\ne.md\n"},
		"columns":   {[]string{"-C", "sub"}, Success, "c.txt  d.txt\n"},
		"missing":   {[]string{"nope"}, PathNotFound, ""},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			res := Dir(commandstest.NewContext(t, files), tc.args)

			assert.Equal(t, tc.status, res.Status, res.Stderr)
			assert.Equal(t, tc.stdout, res.Stdout)
		})
	}
}

func TestDir_long(t *testing.T) {
	ctx := commandstest.NewContext(t, commandstest.Files{"a.txt": "12345", "sub/": ""})
	res := Dir(ctx, []string{"-l"})

	assert.Equal(t, Success, res.Status, res.Stderr)
	lines := splitLines(res.Stdout)
	if assert.Len(t, lines, 2) {
		assert.Regexp(t, `\s5\s+a\.txt$`, lines[0])
		assert.Contains(t, lines[1], "<DIR>")
		assert.Contains(t, lines[1], "sub")
	}
}

func TestColumnize(t *testing.T) {
	ctx := commandstest.NewContext(t, commandstest.Files{
		"aaaa": "", "bb": "", "cccccc": "", "d": "", "eeeee": "",
	})
	paths, err := readDir(ctx, ctx.Getwd(), false)
	assert.NoError(t, err)

	// Everything fits on one row.
	assert.Equal(t, []int{4, 2, 6, 1, 5}, columnize(paths, 80))
	// One name per row.
	assert.Equal(t, []int{6}, columnize(paths, 6))
	// Two rows of three columns.
	assert.Equal(t, []int{4, 6, 5}, columnize(paths, 19))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
