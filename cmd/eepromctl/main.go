// Package main provides the entry point for eepromctl, a tool editing emulated EEPROM regions in flash images.
package main

import (
	"fmt"
	"github.com/gostonefire/eepromshim/internal/cli/command"
	"os"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
