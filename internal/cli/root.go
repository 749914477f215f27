// Package cli implements the tttsim command line.
package cli

import (
	"context"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/config"
)

// flagKeys maps command line flags to the config keys they override
var flagKeys = map[string]string{
	"log-level":   "logging.level",
	"log-format":  "logging.format",
	"games":       "simulation.games",
	"workers":     "simulation.workers",
	"seed":        "random.seed",
	"random-seed": "random.random_seed",
	"source":      "random.kind",
	"tracker":     "tracker.kind",
	"format":      "report.format",
	"output":      "report.output",
	"progress":    "progress.enabled",
}

// Root builds the tttsim command tree
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "tttsim",
		Short: "Simulate random games of 20x20 tic-tac-toe",
		Long: heredoc.Doc(`
			tttsim plays batches of games on a 20x20 board where ten cells in a
			row, column or diagonal win. Both players pick uniformly random
			empty cells, so the results describe the game itself rather than
			any strategy.

			Settings are read from config.yaml in the working directory,
			./config, the user config directory or /etc/tttsim, and may be
			overridden with TTT_* environment variables and flags.
		`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},

		// Running without a subcommand runs a batch
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd)
		},
	}

	// global flags
	root.PersistentFlags().StringP("config", "c", "", "Config file (default: search for config.yaml)")
	root.PersistentFlags().String("env", "", "Merge config.<env>.yaml over the config file")
	root.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "Log format (console, json)")
	root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")

	root.Version = "v0.1.0"

	addBatchFlags(root)
	root.AddCommand(Run())
	root.AddCommand(Play())
	root.AddCommand(Watch())

	return root
}

// loadConfig initializes the config, applies flag overrides and sets up logging
func loadConfig(cmd *cobra.Command) error {
	// Console logging until the config names its own, so load errors read
	// like the rest of the output
	setupLogging("info", "console", cmd.ErrOrStderr())

	path, _ := cmd.Flags().GetString("config")
	if err := config.Init(path); err != nil {
		return err
	}
	env, _ := cmd.Flags().GetString("env")
	if err := config.LoadEnvironmentConfig(env); err != nil {
		return err
	}

	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := config.Set(key, f.Value.String()); err != nil {
			return err
		}
	}

	applyLogging(cmd, config.Get())

	log.Debug().
		Str("config_file", config.ConfigFilePath()).
		Str("env", env).
		Msg("Configuration loaded")
	return nil
}

// applyLogging configures the global logger from c
func applyLogging(cmd *cobra.Command, c *config.Config) {
	setupLogging(c.Logging.Level, c.Logging.Format, cmd.ErrOrStderr())
	// If --trace flag is provided, set logging level to Trace.
	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
}

// Execute runs the root command with the given arguments. Cancelling ctx
// stops a running batch between games.
func Execute(ctx context.Context, args []string) error {
	root := Root()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
