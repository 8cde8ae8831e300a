package config

import (
	"flag"
	"os"

	"github.com/noverdy/ispcli/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the portal API (default from Config)
//	-s string   state directory for the session snapshot
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the portal API")
	fs.StringVar(&cfg.StateDir, "s", cfg.StateDir, "directory for persisted client state")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
