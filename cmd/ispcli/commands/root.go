package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/noverdy/ispcli/internal/client/cli"
	"github.com/noverdy/ispcli/internal/client/config"
	"github.com/noverdy/ispcli/internal/logging"
)

var (
	apiBaseURL string
	stateDir   string
	verbose    bool

	app *cli.App
)

func Execute() error {
	root := &cobra.Command{
		Use:           "ispcli",
		Short:         "Terminal client for the internet package portal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := config.LoadConfig()
			if cmd.Flags().Changed("api-url") {
				cfg.APIBaseURL = apiBaseURL
			}
			if cmd.Flags().Changed("state-dir") {
				cfg.StateDir = stateDir
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			log := logging.NewSlogLogger(slog.New(handler))

			app = cli.NewApp(cfg, log)
		},
	}

	root.PersistentFlags().StringVarP(&apiBaseURL, "api-url", "a", "", "base URL of the portal API")
	root.PersistentFlags().StringVarP(&stateDir, "state-dir", "s", "", "directory for persisted client state")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		loginCmd(), registerCmd(), forgotPasswordCmd(), resetPasswordCmd(),
		whoamiCmd(), logoutCmd(), dashboardCmd(), adminCmd(), versionCmd(),
	)
	return root.Execute()
}
