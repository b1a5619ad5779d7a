package commands

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/cmdshell/core/shellctx"
)

const (
	// ShellName is the name shown in the banner.
	ShellName = "cmdshell"
	// Version is the shell version.
	Version = "0.1.0"

	bannerWidth = 34
)

// VersionInfo implements the VERSION built-in, showing the shell banner.
func VersionInfo(ctx *shellctx.Context, _ []string) Result {
	return Ok(Banner(ctx))
}

// Banner renders the welcome box.
func Banner(ctx *shellctx.Context) string {
	color := NewColorPrinter(ctx)
	border := color.Sprintf(ColorBoldBlue, "+%s+", strings.Repeat("-", bannerWidth))
	side := color.Sprintf(ColorBoldBlue, "|")

	var sb strings.Builder
	line := func(plain, colored string) {
		pad := bannerWidth - len(plain)
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(&sb, "%s%s%s%s\n", side, colored, strings.Repeat(" ", pad), side)
	}

	fmt.Fprintln(&sb, border)
	line(
		fmt.Sprintf("  Welcome to %s (v%s)", ShellName, Version),
		fmt.Sprintf("  Welcome to %s (v%s)", color.Sprintf(ColorBoldCyan, "%s", ShellName), Version),
	)
	line(
		"  Type 'HELP' to get started.",
		fmt.Sprintf("  Type '%s' to get started.", color.Sprintf(ColorBoldGreen, "HELP")),
	)
	fmt.Fprintln(&sb, border)
	return sb.String()
}
