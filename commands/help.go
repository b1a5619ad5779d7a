package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/josephlewis42/cmdshell/core/shellctx"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Help creates the HELP built-in listing the contents of registry.
func Help(registry *Registry) BuiltinFunc {
	return func(ctx *shellctx.Context, args []string) Result {
		color := NewColorPrinter(ctx)

		switch len(args) {
		case 0:
			var sb strings.Builder
			for _, entry := range registry.Entries() {
				names := fmt.Sprintf("%-16s", strings.Join(entry.Names, "/"))
				fmt.Fprintf(&sb, "| %s -> %s.\n", color.Sprintf(ColorBoldYellow, "%s", names), entry.Short)
			}
			return Ok(sb.String())

		case 1:
			entry, ok := registry.Lookup(args[0])
			if !ok {
				if suggestion := suggest(args[0], registry.Names()); suggestion != "" {
					return Fail(InvalidSyntax, "'%s' is not a built-in command. Did you mean %s?", args[0], suggestion)
				}
				return Fail(InvalidSyntax, "'%s' is not a built-in command.", args[0])
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "%s: %s.\n", color.Sprintf(ColorBoldYellow, "%s", strings.Join(entry.Names, "/")), entry.Short)
			fmt.Fprintf(&sb, "Usage: %s\n", entry.Use)
			return Ok(sb.String())

		default:
			return Usage(ctx, "HELP [command]")
		}
	}
}

// suggest picks the closest name containing the letters of typed in order.
func suggest(typed string, names []string) string {
	ranks := fuzzy.RankFindFold(typed, names)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
