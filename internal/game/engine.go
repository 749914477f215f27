package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/core"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/random"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/states"
)

var (
	ErrGameOver     = errors.New("game is over")
	ErrNotStarted   = errors.New("game has no move order")
	ErrInvalidOrder = errors.New("move order does not cover the board")
)

// GameConfig holds the settings shared by every game of a simulator
type GameConfig struct {
	Size      int              // board side, defaults to core.BoardSize
	WinLength int              // run length that wins, defaults to core.WinCondition
	Tracker   core.TrackerKind // defaults to core.CounterTracker
	Logger    zerolog.Logger
}

func (c GameConfig) withDefaults() GameConfig {
	if c.Size == 0 {
		c.Size = core.BoardSize
	}
	if c.WinLength == 0 {
		c.WinLength = core.WinCondition
	}
	if c.Tracker == "" {
		c.Tracker = core.CounterTracker
	}
	return c
}

// Move is a single placement applied by Step
type Move struct {
	Turn   int
	Player int
	Cell   core.Coordinate
	Line   core.Line // winning direction if this move ended the game, else NoLine
}

// Engine plays one game at a time from a fixed move order, one placement per
// Step. Each player has its own tracker; the trackers never share cells
// because the move order hands every cell to exactly one turn.
type Engine struct {
	size, win int
	players   [2]core.Tracker
	order     []int
	turn      int
	phase     states.GamePhase
	winLine   core.Line
	lastMove  core.Coordinate
	logger    zerolog.Logger
}

// NewEngine creates an engine with empty trackers. Call Reset with a move
// order before stepping.
func NewEngine(cfg GameConfig) (*Engine, error) {
	cfg = cfg.withDefaults()
	if cfg.Size < 1 || cfg.WinLength < 1 || cfg.WinLength > cfg.Size {
		return nil, fmt.Errorf("%w: size %d, win length %d", core.ErrInvalidBoard, cfg.Size, cfg.WinLength)
	}

	e := &Engine{
		size:    cfg.Size,
		win:     cfg.WinLength,
		phase:   states.PhaseInProgress,
		winLine: core.NoLine,
		logger:  cfg.Logger.With().Str("component", "GameEngine").Logger(),
	}
	for i := range e.players {
		tr, err := core.NewTracker(cfg.Tracker, cfg.Size, cfg.WinLength)
		if err != nil {
			return nil, err
		}
		e.players[i] = tr
	}
	return e, nil
}

// Reset clears both trackers and starts a new game that will play the cells
// of order in sequence. order must hold size² cell indices; the engine reads
// it without copying.
func (e *Engine) Reset(order []int) error {
	if len(order) != e.size*e.size {
		return fmt.Errorf("%w: got %d cells, want %d", ErrInvalidOrder, len(order), e.size*e.size)
	}
	for _, tr := range e.players {
		tr.Reset()
	}
	e.order = order
	e.turn = 0
	e.phase = states.PhaseInProgress
	e.winLine = core.NoLine
	return nil
}

// Step plays the next cell of the move order for the player to move and
// checks whether it wins.
func (e *Engine) Step() (Move, error) {
	if e.order == nil {
		return Move{}, ErrNotStarted
	}
	if !e.phase.CanReceiveMoves() {
		return Move{}, ErrGameOver
	}
	return e.advance(), nil
}

func (e *Engine) advance() Move {
	c := core.FromIndex(e.order[e.turn], e.size)
	player := e.turn % 2
	tr := e.players[player]

	tr.Place(c.X, c.Y)
	move := Move{Turn: e.turn, Player: player, Cell: c, Line: core.NoLine}
	e.turn++
	e.lastMove = c

	if line, won := tr.WinningLine(c.X, c.Y); won {
		e.winLine = line
		move.Line = line
		e.transition(states.WonBy(player))
	} else if e.turn == len(e.order) {
		e.transition(states.PhaseDraw)
	}
	return move
}

func (e *Engine) transition(target states.GamePhase) {
	if !e.phase.CanTransitionTo(target) {
		panic(fmt.Sprintf("invalid phase transition from %s to %s", e.phase, target))
	}
	e.phase = target
	e.logger.Trace().
		Str("phase", target.String()).
		Int("moves", e.turn).
		Str("line", e.winLine.String()).
		Msg("Game finished")
}

// Run steps until the game ends and returns its outcome
func (e *Engine) Run() (Outcome, error) {
	if e.order == nil {
		return Outcome{}, ErrNotStarted
	}
	for !e.phase.IsTerminal() {
		e.advance()
	}
	return e.Outcome(), nil
}

// Public accessors
func (e *Engine) Phase() states.GamePhase { return e.phase }
func (e *Engine) IsGameOver() bool        { return e.phase.IsTerminal() }
func (e *Engine) Moves() int              { return e.turn }
func (e *Engine) Size() int               { return e.size }
func (e *Engine) WinLength() int          { return e.win }
func (e *Engine) WinningLine() core.Line  { return e.winLine }

// GetWinner returns the winning player index, or NoPlayer if the game is a
// draw or still running
func (e *Engine) GetWinner() int {
	result, _ := ResultFromPhase(e.phase)
	return result.Winner()
}

// Outcome returns the outcome of a finished game. For a running game the
// result is Draw with the moves played so far.
func (e *Engine) Outcome() Outcome {
	result, _ := ResultFromPhase(e.phase)
	return Outcome{Result: result, Moves: e.turn, Line: e.winLine}
}

// Owner returns the player holding the cell, or NoPlayer
func (e *Engine) Owner(x, y int) int {
	for i, tr := range e.players {
		if tr.Occupied(x, y) {
			return i
		}
	}
	return NoPlayer
}

// Simulator plays complete games from freshly shuffled move orders. It owns
// its random source, move-order buffer and engine, all reused across games,
// so separate simulators can run concurrently.
type Simulator struct {
	engine *Engine
	src    random.Source
	order  []int
	games  int
	logger zerolog.Logger
}

// NewSimulator creates a simulator drawing move orders from src. A nil src is
// replaced by a clock-seeded xorshift source.
func NewSimulator(cfg GameConfig, src random.Source) (*Simulator, error) {
	if src == nil {
		seed := random.ClockSeed()
		src = random.NewXorshift(seed)
		log.Debug().Uint64("seed", seed).Msg("No random source provided, seeding from clock")
	}

	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	return &Simulator{
		engine: engine,
		src:    src,
		order:  make([]int, engine.size*engine.size),
		logger: cfg.Logger.With().Str("component", "Simulator").Logger(),
	}, nil
}

// Play runs one game to completion from a new permutation of all cells
func (s *Simulator) Play() Outcome {
	start := time.Now()
	random.Shuffle(s.src, s.order)
	if err := s.engine.Reset(s.order); err != nil {
		panic(err) // order is always sized to the board
	}
	for !s.engine.phase.IsTerminal() {
		s.engine.advance()
	}
	s.games++

	out := s.engine.Outcome()
	s.logger.Trace().
		Int("game", s.games).
		Str("result", out.Result.String()).
		Int("moves", out.Moves).
		Dur("elapsed", time.Since(start)).
		Msg("Game played")
	return out
}

// PlayGame runs one game and returns only its result
func (s *Simulator) PlayGame() Result {
	return s.Play().Result
}

// Engine exposes the final position of the last game played
func (s *Simulator) Engine() *Engine { return s.engine }

// GamesPlayed returns the number of games this simulator has completed
func (s *Simulator) GamesPlayed() int { return s.games }
