package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/josephlewis42/cmdshell/core/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	cfgPath     string
	executeLine string

	// exitCode is set by commands that succeed but must report failure, like
	// an evaluated command line that failed.
	exitCode int
)

// usageError marks invalid command line invocations.
type usageError struct {
	err error
}

func newUsageError(cmd *cobra.Command, err error) error {
	return &usageError{fmt.Errorf("%w\n%s", err, strings.TrimRight(cmd.UsageString(), "\n"))}
}

func (u *usageError) Error() string { return u.err.Error() }
func (u *usageError) Unwrap() error { return u.err }

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return newUsageError(cmd, fmt.Errorf("unexpected arguments for %q: %s", cmd.CommandPath(), strings.Join(args, " ")))
	}
	return nil
}

func loadConfig() (*config.Configuration, error) {
	return config.LoadOrDefault(cfgPath)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cmdshell",
	Short: "Interactive command shell",
	Long: `A command shell with a small built-in vocabulary that can also run
programs and pipe them together.

With no arguments an interactive session starts. Use -e to run a single
command line and exit with its status.`,
	Args:          noArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sess, err := openSession(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer sess.Close()

		if cmd.Flags().Changed("execute") {
			if out := sess.runner.Run(executeLine); !out.Success {
				exitCode = exitFailure
			}
			return nil
		}

		return sess.interactive(cfg)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// The returned value is the process exit code.
func Execute() int {
	exitCode = exitSuccess

	err := rootCmd.Execute()
	var usage *usageError
	switch {
	case err == nil:
		return exitCode
	case errors.As(err, &usage):
		printError(rootCmd.ErrOrStderr(), err)
		return exitUsage
	default:
		printError(rootCmd.ErrOrStderr(), err)
		return exitFailure
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// foldFlagNames makes long flags case insensitive.
func foldFlagNames(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ToLower(name))
}

func init() {
	rootCmd.SetGlobalNormalizationFunc(foldFlagNames)
	rootCmd.SetFlagErrorFunc(newUsageError)

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultDir(), "config directory")
	rootCmd.Flags().StringVarP(&executeLine, "execute", "e", "", "run a command line and exit with its status")
}
