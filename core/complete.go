package core

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/josephlewis42/cmdshell/commands"
	"github.com/josephlewis42/cmdshell/core/shellctx"
	"github.com/spf13/afero"
)

// Completer suggests built-ins, programs on the PATH and files for the word
// under the cursor.
type Completer struct {
	Ctx      *shellctx.Context
	Registry *commands.Registry
}

// NewCompleter creates a completer for the line editor.
func NewCompleter(ctx *shellctx.Context, registry *commands.Registry) *Completer {
	return &Completer{Ctx: ctx, Registry: registry}
}

// Do implements readline.AutoCompleter. It returns the suffixes that complete
// the current word and the length of the word.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	if pos > len(line) {
		pos = len(line)
	}
	head := string(line[:pos])

	start := strings.LastIndexFunc(head, func(r rune) bool {
		return unicode.IsSpace(r) || r == '|' || r == '<' || r == '>'
	}) + 1
	word := head[start:]
	isCommand := strings.TrimSpace(head[:start]) == "" || strings.HasSuffix(strings.TrimSpace(head[:start]), "|")

	var matches []string
	if isCommand && !commands.IsPathLike(word) {
		matches = append(matches, c.commandNames(word)...)
	}
	if !isCommand || commands.IsPathLike(word) || word != "" {
		matches = append(matches, c.fileNames(word, isCommand)...)
	}
	matches = dedupe(matches)

	out := make([][]rune, 0, len(matches))
	for _, m := range matches {
		out = append(out, []rune(m[len(word):]))
	}
	return out, len([]rune(word))
}

// commandNames lists built-in names and PATH programs starting with prefix.
// Built-ins are completed in the case the user started typing them.
func (c *Completer) commandNames(prefix string) []string {
	var out []string
	lower := prefix != "" && strings.ToLower(prefix) == prefix
	for _, name := range c.Registry.Names() {
		if !strings.HasPrefix(name, strings.ToUpper(prefix)) {
			continue
		}
		if lower {
			name = strings.ToLower(name)
		}
		out = append(out, prefix+name[len(prefix):])
	}

	if prefix == "" {
		return out
	}

	for _, dir := range filepath.SplitList(c.Ctx.Getenv(shellctx.EnvPath)) {
		if dir == "" {
			dir = "."
		}
		infos, err := afero.ReadDir(c.Ctx.Fs(), c.Ctx.Resolve(dir))
		if err != nil {
			continue
		}
		for _, info := range infos {
			if strings.HasPrefix(info.Name(), prefix) && c.Ctx.IsExecutable(info) {
				out = append(out, info.Name())
			}
		}
	}
	return out
}

// fileNames lists entries matching the partial path word. Directories end in
// a separator so completion can continue into them.
func (c *Completer) fileNames(word string, executablesOnly bool) []string {
	dir, base := splitPartial(word)

	infos, err := afero.ReadDir(c.Ctx.Fs(), c.Ctx.Resolve(dirOrDot(dir)))
	if err != nil {
		return nil
	}

	var out []string
	for _, info := range infos {
		name := info.Name()
		if !strings.HasPrefix(name, base) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		switch {
		case info.IsDir():
			out = append(out, dir+name+"/")
		case !executablesOnly || c.Ctx.IsExecutable(info):
			out = append(out, dir+name)
		}
	}
	return out
}

// splitPartial splits a partially typed path after its last separator.
func splitPartial(word string) (dir, base string) {
	i := strings.LastIndexAny(word, `/\`)
	if i < 0 {
		return "", word
	}
	return word[:i+1], word[i+1:]
}

func dirOrDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

func dedupe(in []string) []string {
	sort.Strings(in)
	out := in[:0]
	for i, s := range in {
		if i > 0 && s == in[i-1] {
			continue
		}
		out = append(out, s)
	}
	return out
}
