package cli

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/config"
)

func Watch() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the batch whenever the config file changes",
		Long: heredoc.Doc(`
			watch runs a batch, then waits for changes to the config file and
			runs it again with the new settings. An invalid change is logged
			and ignored. Stop it with Ctrl-C.
		`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runBatch(cmd); err != nil {
				return err
			}

			changed := make(chan struct{}, 1)
			config.WatchConfig(func(*config.Config) {
				select {
				case changed <- struct{}{}:
				default: // a rerun is already pending
				}
			})
			log.Info().Str("config_file", config.ConfigFilePath()).Msg("Watching for config changes")

			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					log.Info().Msg("Stopped watching")
					return nil
				case <-changed:
					rerun(cmd)
				}
			}
		},
	}

	addBatchFlags(cmd)
	return cmd
}

// rerun applies the reloaded logging settings and runs the batch again. A
// failed batch is logged and watching continues.
func rerun(cmd *cobra.Command) {
	applyLogging(cmd, config.Get())
	if err := runBatch(cmd); err != nil {
		log.Error().Err(err).Msg("Batch failed")
	}
}
