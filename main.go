package main

import (
	"os"

	"github.com/josephlewis42/cmdshell/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
