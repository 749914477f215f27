package game

import (
	"fmt"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/core"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/states"
)

// Player indices. Circle moves on even turns, cross on odd turns.
const (
	PlayerCircle = 0
	PlayerCross  = 1
	NoPlayer     = -1
)

// PlayerSymbols maps a player index to its board symbol
var PlayerSymbols = [2]string{"O", "X"}

// Result is the final result of one game
type Result int

const (
	CircleWins Result = iota
	CrossWins
	Draw
)

func (r Result) String() string {
	switch r {
	case CircleWins:
		return "circle"
	case CrossWins:
		return "cross"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Winner returns the winning player index, or NoPlayer for a draw
func (r Result) Winner() int {
	switch r {
	case CircleWins:
		return PlayerCircle
	case CrossWins:
		return PlayerCross
	default:
		return NoPlayer
	}
}

// ResultFromPhase converts a terminal phase to its result
func ResultFromPhase(p states.GamePhase) (Result, bool) {
	switch p {
	case states.PhaseCircleWon:
		return CircleWins, true
	case states.PhaseCrossWon:
		return CrossWins, true
	case states.PhaseDraw:
		return Draw, true
	default:
		return Draw, false
	}
}

// Outcome describes how a finished game ended
type Outcome struct {
	Result Result
	Moves  int       // placements made, at most size²
	Line   core.Line // direction of the winning run, NoLine for a draw
}
