package cmd

import (
	"fmt"
	"time"

	"github.com/josephlewis42/cmdshell/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var onlyFailed bool

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"log"},
	Short:   "Show the command lines run by previous sessions.",
	Args:    noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		w := newTable(cmd.OutOrStdout())
		err := readHistory(func(le *logger.Entry) {
			if onlyFailed && le.Success {
				return
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", le.Time.Local().Format(time.RFC3339), le.Status, le.Cwd, le.Line)
		})
		if err != nil {
			return err
		}
		return w.Flush()
	},
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Summarize the command history.",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		report := logger.NewReport()
		if err := readHistory(report.Update); err != nil {
			return err
		}

		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func readHistory(handler func(*logger.Entry)) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	fd, err := config.ReadCommandLog()
	if err != nil {
		return err
	}
	defer fd.Close()

	return logger.ReadJSONLinesLog(fd, handler)
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(reportCommand)

	historyCmd.Flags().BoolVar(&onlyFailed, "failed", false, "only show command lines that failed")
}
