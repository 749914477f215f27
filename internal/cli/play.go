package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/config"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/core"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/random"
)

func Play() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a single random game and show the final board",
		Long: heredoc.Doc(`
			play runs one game from the configured seed and prints the final
			position. The winning run, if any, is highlighted.
		`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			c := config.Get()
			seed := resolveSeed(c)

			src, err := random.NewSource(random.Kind(c.Random.Kind), seed)
			if err != nil {
				return err
			}
			sim, err := game.NewSimulator(game.GameConfig{
				Tracker: core.TrackerKind(c.Tracker.Kind),
				Logger:  log.Logger,
			}, src)
			if err != nil {
				return err
			}

			out := sim.Play()
			engine := sim.Engine()

			board := engine.Board()
			if plain, _ := cmd.Flags().GetBool("plain"); plain {
				board = engine.String()
			}

			w := cmd.OutOrStdout()
			fmt.Fprint(w, board)
			fmt.Fprintln(w, engine.Summary())
			fmt.Fprintf(w, "Seed: %d\n", seed)

			log.Debug().
				Str("result", out.Result.String()).
				Int("moves", out.Moves).
				Str("line", out.Line.String()).
				Msg("Single game finished")
			return nil
		},
	}

	addSourceFlags(cmd)
	cmd.Flags().Bool("plain", false, "Print the board without colors")
	return cmd
}
