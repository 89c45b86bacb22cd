// Package main is the entry point for ringpipe.
//
// Usage:
//
//	ringpipe [flags] <command> [args]
//
// Commands:
//
//	pipe     - copy a byte stream through a ring
//	lines    - split a byte stream into newline-terminated records
//	info     - show capacity model and platform support
//	version  - show version information
package main

import (
	"fmt"
	"os"

	"github.com/momentics/hioload-ring/cmd/ringpipe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
