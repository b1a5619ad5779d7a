package commands

import (
	"github.com/josephlewis42/cmdshell/core/shellctx"
)

// ClearScreen is the VT100 sequence to home the cursor and erase the display.
const ClearScreen = "\033[H\033[2J"

// Clear implements the CLEAR built-in.
func Clear(_ *shellctx.Context, _ []string) Result {
	return Ok(ClearScreen)
}
