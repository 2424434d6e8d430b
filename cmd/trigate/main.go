package main

import (
	"os"

	"github.com/haoyuan-z/trigate/cmd/trigate/commands"
)

// main is the entry point for the trigate CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
