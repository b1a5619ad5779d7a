package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/cmdshell/core/shellctx"
	getopt "github.com/pborman/getopt/v2"
)

func BytesToHuman(bytes int64) string {
	for _, e := range []struct {
		unit  string
		power int64
	}{
		{"P", 1e15},
		{"T", 1e12},
		{"G", 1e9},
		{"M", 1e6},
		{"K", 1e3},
	} {
		quotient := bytes / e.power
		switch {
		case quotient == 0:
			continue
		case quotient > 10:
			return fmt.Sprintf("%d%s", quotient, e.unit)
		default:
			return fmt.Sprintf("%0.1f%s", float64(bytes)/float64(e.power), e.unit)
		}
	}

	return fmt.Sprintf("%d", bytes)
}

type SimpleCommand struct {
	// Use holds a one line usage string, starting with the command name.
	Use string
	// Short holds a one line description of the command.
	Short string

	showHelp *bool
	flags    *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

func (s *SimpleCommand) name() string {
	if fields := strings.Fields(s.Use); len(fields) > 0 {
		return fields[0]
	}
	return "builtin"
}

// Run parses args, which don't include the command name, and calls the
// callback if parsing was successful.
//
// Long options are matched case-insensitively so --RECURSIVE works the same
// as --recursive.
func (s *SimpleCommand) Run(args []string, callback func() Result) Result {
	opts := s.Flags()
	if s.showHelp == nil {
		s.showHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	argv := append([]string{s.name()}, foldLongOptions(args)...)
	if err := opts.Getopt(argv, nil); err != nil {
		return Fail(UnknownOption, "%s\nUsage: %s", err, s.Use)
	}

	if *s.showHelp {
		var sb strings.Builder
		s.PrintHelp(&sb)
		return Ok(sb.String())
	}

	return callback()
}

// Args returns the positional arguments left after parsing.
func (s *SimpleCommand) Args() []string {
	return s.Flags().Args()
}

func foldLongOptions(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if arg == "--" {
			copy(out[i:], args[i:])
			break
		}
		if strings.HasPrefix(arg, "--") {
			name, value, hasValue := strings.Cut(arg, "=")
			arg = strings.ToLower(name)
			if hasValue {
				arg += "=" + value
			}
		}
		out[i] = arg
	}
	return out
}

// Usage is the result for a built-in called with the wrong arguments.
func Usage(ctx *shellctx.Context, use string) Result {
	cp := NewColorPrinter(ctx)
	return Result{
		Status: InvalidSyntax,
		Stderr: cp.Sprintf(ColorBoldRed, "Usage: ") + use,
	}
}

var (
	ColorBoldBlue   = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen  = color.New(color.FgGreen, color.Bold)
	ColorBoldCyan   = color.New(color.FgCyan, color.Bold)
	ColorBoldRed    = color.New(color.FgRed, color.Bold)
	ColorBoldYellow = color.New(color.FgYellow, color.Bold)
)

// ColorPrinter formats text in color when the context allows it.
type ColorPrinter struct {
	enabled bool
}

// NewColorPrinter creates a printer following the context's color setting.
func NewColorPrinter(ctx *shellctx.Context) ColorPrinter {
	return ColorPrinter{enabled: ctx != nil && ctx.Color}
}

// ShouldColor reports whether output will be colored.
func (c ColorPrinter) ShouldColor() bool {
	return c.enabled
}

func (c ColorPrinter) Sprintf(color *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		return color.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
