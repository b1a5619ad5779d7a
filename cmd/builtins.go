package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/josephlewis42/cmdshell/commands"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the built-in commands of the shell.",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var builtins []string
		for _, entry := range commands.DefaultRegistry().Entries() {
			builtins = append(builtins, fmt.Sprintf("%s\t%s", strings.Join(entry.Names, ", "), entry.Short))
		}

		sort.Strings(builtins)

		w := newTable(cmd.OutOrStdout())
		for _, v := range builtins {
			fmt.Fprintln(w, v)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
