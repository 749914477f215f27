package batch

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/core"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/events"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/random"
)

var ErrInvalidOptions = errors.New("invalid batch options")

// DefaultGames is the batch size used when none is configured
const DefaultGames = 10000

// Options configures a batch run
type Options struct {
	Games   int
	Workers int // 0 means one per CPU
	Seed    uint64
	Source  random.Kind
	Tracker core.TrackerKind
	Logger  zerolog.Logger
	Bus     events.Publisher // optional
}

// Validate checks the options and fills in the defaults for empty fields
func (o *Options) Validate() error {
	if o.Games < 0 {
		return fmt.Errorf("%w: games must be non-negative, got %d", ErrInvalidOptions, o.Games)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidOptions, o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Source == "" {
		o.Source = random.KindXorshift
	}
	if _, err := random.ParseKind(string(o.Source)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if o.Tracker == "" {
		o.Tracker = core.CounterTracker
	}
	if _, err := core.ParseTrackerKind(string(o.Tracker)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}

// Split divides games between workers. Every worker gets games/workers and
// the first worker also takes the remainder.
func Split(games, workers int) []int {
	if workers < 1 {
		workers = 1
	}
	shares := make([]int, workers)
	q, r := games/workers, games%workers
	for i := range shares {
		shares[i] = q
	}
	shares[0] += r
	return shares
}

// WorkerSeed returns the seed of the i-th worker's random source
func WorkerSeed(seed uint64, worker int) uint64 {
	return seed + uint64(worker)
}
