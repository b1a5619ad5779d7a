package core

import (
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/josephlewis42/cmdshell/commands"
	"github.com/josephlewis42/cmdshell/commands/commandstest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestCompleter_Do(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("paths use forward slashes")
	}

	ctx := commandstest.NewContext(t, commandstest.Files{
		"/bin/":          "",
		"notes.txt":      "",
		"notebook/":      "",
		"other.txt":      "",
		".hidden":        "",
		"notebook/a.txt": "",
		"notebook/b.txt": "",
	})
	require.NoError(t, afero.WriteFile(ctx.Fs(), "/bin/mkfs", []byte("#!"), 0755))
	require.NoError(t, afero.WriteFile(ctx.Fs(), "/bin/mkout", []byte(""), 0644))

	completer := NewCompleter(ctx, commands.DefaultRegistry())

	cases := map[string]struct {
		line       string
		want       []string
		wantLength int
	}{
		"builtin upper": {
			line:       "MK",
			want:       []string{"DIR"},
			wantLength: 2,
		},
		"builtin lower": {
			line:       "mc",
			want:       []string{"d"},
			wantLength: 2,
		},
		"builtin and program": {
			line:       "mk",
			want:       []string{"dir", "fs"},
			wantLength: 2,
		},
		"file argument": {
			line:       "SHOW no",
			want:       []string{"tebook/", "tes.txt"},
			wantLength: 2,
		},
		"file in directory": {
			line:       "SHOW notebook/",
			want:       []string{"a.txt", "b.txt"},
			wantLength: 9,
		},
		"hidden files need a dot": {
			line:       "SHOW .h",
			want:       []string{"idden"},
			wantLength: 2,
		},
		"after a pipe": {
			line:       "DIR | PRI",
			want:       []string{"NT"},
			wantLength: 3,
		},
		"redirect target": {
			line:       "DIR >oth",
			want:       []string{"er.txt"},
			wantLength: 3,
		},
		"no match": {
			line:       "SHOW zzz",
			want:       []string{},
			wantLength: 3,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, length := completer.Do([]rune(tc.line), len(tc.line))

			gotStrings := []string{}
			for _, g := range got {
				gotStrings = append(gotStrings, string(g))
			}
			if diff := cmp.Diff(tc.want, gotStrings); diff != "" {
				t.Errorf("Do(%q) suggestions (-want +got):\n%s", tc.line, diff)
			}
			if length != tc.wantLength {
				t.Errorf("Do(%q) length = %d, want %d", tc.line, length, tc.wantLength)
			}
		})
	}
}
