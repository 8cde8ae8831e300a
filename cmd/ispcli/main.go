package main

import (
	"os"

	"github.com/noverdy/ispcli/cmd/ispcli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
