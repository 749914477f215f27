package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/batch"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/config"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/core"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/events"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/random"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/monitoring"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/report"
)

// SPIN is the spinner character set shown while a batch runs
const SPIN = 14

func Run() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a batch of random games and report the results",
		Long: heredoc.Doc(`
			run plays the configured number of games, each from a fresh random
			move order, and prints how many were won by O (the first player),
			won by X, or drawn, along with the time taken.

			With a fixed seed and a single worker the results are reproducible.
			Each additional worker uses the seed plus its index.
		`),
		Example: heredoc.Doc(`
			$ tttsim run --games 100000 --workers 0
			$ tttsim run --format json --output results.json
		`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd)
		},
	}

	addBatchFlags(cmd)
	return cmd
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("games", "n", batch.DefaultGames, "Number of games to play")
	cmd.Flags().IntP("workers", "w", 1, "Parallel workers (0 means one per CPU)")
	addSourceFlags(cmd)
	cmd.Flags().StringP("format", "f", string(report.FormatText), "Report format (text, json)")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().Bool("progress", false, "Log progress while the batch runs")
	cmd.Flags().BoolP("quiet", "q", false, "Hide the progress spinner")
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64P("seed", "s", random.DefaultSeed, "Random seed")
	cmd.Flags().Bool("random-seed", false, "Seed from the clock instead of --seed")
	cmd.Flags().String("source", string(random.KindXorshift), "Random source (xorshift, math)")
	cmd.Flags().String("tracker", string(core.CounterTracker), "Board tracker (counter, run)")
}

// resolveSeed returns the configured seed, or a clock seed when random_seed is set
func resolveSeed(c *config.Config) uint64 {
	if !c.Random.RandomSeed {
		return c.Random.Seed
	}
	seed := random.ClockSeed()
	log.Info().Uint64("seed", seed).Msg("Using random seed")
	return seed
}

// batchOptions converts the configuration to runner options
func batchOptions(c *config.Config) batch.Options {
	return batch.Options{
		Games:   c.Simulation.Games,
		Workers: c.Simulation.Workers,
		Seed:    resolveSeed(c),
		Source:  random.Kind(c.Random.Kind),
		Tracker: core.TrackerKind(c.Tracker.Kind),
		Logger:  log.Logger,
	}
}

// newEventLogger logs batch lifecycle events at debug level. Under trace
// logging every event is logged in full.
func newEventLogger() *subscribers.LoggerSubscriber {
	l := subscribers.NewLoggerSubscriber("event_logger", log.Logger, zerolog.DebugLevel)
	if zerolog.GlobalLevel() <= zerolog.TraceLevel {
		l.SetDevMode(true)
		return l
	}
	l.SetEventFilter([]string{events.TypeBatchStarted, events.TypeBatchCompleted, events.TypeBatchAborted})
	return l
}

func spinnerSuffix(total int64, percent float64) string {
	return fmt.Sprintf(" playing %d games (%.0f%%)", total, percent)
}

func runBatch(cmd *cobra.Command) error {
	c := config.Get()

	bus := events.NewEventBus()
	bus.Subscribe(newEventLogger())

	opts := batchOptions(c)
	opts.Bus = bus
	runner, err := batch.NewRunner(opts)
	if err != nil {
		return err
	}

	var s *spinner.Spinner
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		s = spinner.New(spinner.CharSets[SPIN], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = spinnerSuffix(runner.Total(), 0)
	}

	// The monitor drives the spinner, and logs progress lines at info only
	// when progress is enabled.
	var pm *monitoring.ProgressMonitor
	if c.Progress.Enabled || s != nil {
		pm = monitoring.NewProgressMonitor(runner, c.Progress.Interval)
		if !c.Progress.Enabled {
			pm.SetLogLevel(zerolog.DebugLevel)
		}
		if s != nil {
			pm.OnTick(func(m monitoring.ProgressMetrics) {
				s.Lock()
				s.Suffix = spinnerSuffix(m.Total, m.Percent)
				s.Unlock()
			})
			s.Start()
		}
		pm.Start()
	}

	rep, err := runner.Run(cmd.Context())

	if pm != nil {
		pm.Stop()
	}
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}
	return writeReport(cmd, rep, c)
}

func writeReport(cmd *cobra.Command, rep *batch.Report, c *config.Config) error {
	format := report.Format(c.Report.Format)
	if c.Report.Output != "" {
		if err := report.WriteFile(c.Report.Output, rep, format); err != nil {
			return err
		}
		log.Info().Str("path", c.Report.Output).Msg("Report written")
		return nil
	}
	return report.Write(cmd.OutOrStdout(), rep, format)
}
