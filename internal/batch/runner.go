// Package batch plays many independent games and tallies their outcomes,
// optionally spread over several workers.
package batch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/core"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/events"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/random"
)

// WorkerReport is the share of a batch played by one worker
type WorkerReport struct {
	Index   int
	Seed    uint64
	Games   int
	Tally   Tally
	Elapsed time.Duration
}

// Report is the result of a completed batch
type Report struct {
	BatchID   string
	StartedAt time.Time
	Options   Options
	Tally     Tally
	Workers   []WorkerReport
	Elapsed   time.Duration
}

// Runner plays a batch of games. A Runner may be run more than once; each run
// gets a new batch ID.
type Runner struct {
	opts   Options
	played atomic.Int64
	logger zerolog.Logger
}

// NewRunner validates the options and creates a runner
func NewRunner(opts Options) (*Runner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		opts:   opts,
		logger: opts.Logger.With().Str("component", "BatchRunner").Logger(),
	}, nil
}

// Options returns the validated options
func (r *Runner) Options() Options { return r.opts }

// Played returns the number of games finished by the current or last run.
// It is safe to call while Run is in progress.
func (r *Runner) Played() int64 { return r.played.Load() }

// Total returns the number of games a run plays
func (r *Runner) Total() int64 { return int64(r.opts.Games) }

// Run plays every game of the batch and returns the combined tally. The
// context is checked between games; on cancellation Run returns the context
// error and no report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	opts := r.opts
	rep := &Report{
		BatchID:   uuid.New().String(),
		StartedAt: time.Now(),
		Options:   opts,
	}
	logger := r.logger.With().Str("batch_id", rep.BatchID).Logger()
	r.played.Store(0)

	shares := Split(opts.Games, opts.Workers)
	rep.Workers = make([]WorkerReport, len(shares))

	logger.Info().
		Int("games", opts.Games).
		Int("workers", len(shares)).
		Uint64("seed", opts.Seed).
		Str("source", string(opts.Source)).
		Str("tracker", string(opts.Tracker)).
		Msg("Starting batch")
	r.publish(events.NewBatchStartedEvent(rep.BatchID, opts.Games, len(shares), opts.Seed,
		string(opts.Source), string(opts.Tracker), core.BoardSize, core.WinCondition))

	g, gctx := errgroup.WithContext(ctx)
	for i, n := range shares {
		g.Go(func() error {
			wr, err := r.runWorker(gctx, i, n, logger)
			if err != nil {
				return err
			}
			rep.Workers[i] = wr
			r.publish(events.NewWorkerFinishedEvent(rep.BatchID, i, wr.Seed, wr.Tally.Counts(), wr.Elapsed))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		played := int(r.played.Load())
		logger.Warn().Err(err).Int("played", played).Msg("Batch aborted")
		r.publish(events.NewBatchAbortedEvent(rep.BatchID, err, played))
		return nil, err
	}

	for _, wr := range rep.Workers {
		rep.Tally = rep.Tally.Add(wr.Tally)
	}
	rep.Elapsed = time.Since(rep.StartedAt)

	logger.Info().
		Int("circle", rep.Tally.Circle).
		Int("cross", rep.Tally.Cross).
		Int("draw", rep.Tally.Draw).
		Dur("elapsed", rep.Elapsed).
		Msg("Batch completed")
	r.publish(events.NewBatchCompletedEvent(rep.BatchID, rep.Tally.Counts(), rep.Elapsed))
	return rep, nil
}

func (r *Runner) runWorker(ctx context.Context, index, games int, logger zerolog.Logger) (WorkerReport, error) {
	start := time.Now()
	wr := WorkerReport{Index: index, Seed: WorkerSeed(r.opts.Seed, index), Games: games}

	src, err := random.NewSource(r.opts.Source, wr.Seed)
	if err != nil {
		return wr, err
	}
	sim, err := game.NewSimulator(game.GameConfig{
		Tracker: r.opts.Tracker,
		Logger:  logger.With().Int("worker", index).Logger(),
	}, src)
	if err != nil {
		return wr, err
	}

	for i := 0; i < games; i++ {
		select {
		case <-ctx.Done():
			return wr, ctx.Err()
		default:
		}
		wr.Tally.Record(sim.Play())
		r.played.Add(1)
	}

	wr.Elapsed = time.Since(start)
	logger.Debug().
		Int("worker", index).
		Uint64("seed", wr.Seed).
		Int("games", games).
		Dur("elapsed", wr.Elapsed).
		Msg("Worker finished")
	return wr, nil
}

func (r *Runner) publish(e events.Event) {
	if r.opts.Bus != nil {
		r.opts.Bus.Publish(e)
	}
}

// Run is a convenience wrapper that creates a runner and runs it once
func Run(ctx context.Context, opts Options) (*Report, error) {
	r, err := NewRunner(opts)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx)
}
