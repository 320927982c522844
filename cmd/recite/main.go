// Package main is the entry point for the recite CLI.
//
// Usage:
//
//	recite [flags] <command> [args]
//
// Commands:
//
//	features   - Extract a feature sequence from a WAV file
//	align      - Align two recordings or feature files with DTW
//	decode     - Decode an observation sequence with an HMM
//	stream     - Feed a WAV file through the streaming coordinator
package main

import (
	"fmt"
	"os"

	"github.com/ieee0824/recite-go/cmd/recite/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
