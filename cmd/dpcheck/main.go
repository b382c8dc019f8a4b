package main

import (
	"fmt"
	"os"
)

// Exit codes: a detected difference is distinct from a failure to run.
const (
	exitOK        = 0
	exitDifferent = 1
	exitError     = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
}
