package batch

import (
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/core"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/events"
)

// Tally counts game outcomes. The zero value is an empty tally.
type Tally struct {
	Circle int
	Cross  int
	Draw   int
	Moves  int64
	Lines  [len(core.AllLines)]int // wins per completing line
}

// Record adds one finished game
func (t *Tally) Record(o game.Outcome) {
	switch o.Result {
	case game.CircleWins:
		t.Circle++
	case game.CrossWins:
		t.Cross++
	default:
		t.Draw++
	}
	t.Moves += int64(o.Moves)
	if o.Line != core.NoLine {
		t.Lines[o.Line]++
	}
}

// Add returns the sum of two tallies. It is associative and commutative, so
// worker tallies may be combined in any order.
func (t Tally) Add(other Tally) Tally {
	t.Circle += other.Circle
	t.Cross += other.Cross
	t.Draw += other.Draw
	t.Moves += other.Moves
	for i := range t.Lines {
		t.Lines[i] += other.Lines[i]
	}
	return t
}

// Games returns the number of games recorded
func (t Tally) Games() int {
	return t.Circle + t.Cross + t.Draw
}

// Counts converts the tally to its event form
func (t Tally) Counts() events.Counts {
	return events.Counts{Circle: t.Circle, Cross: t.Cross, Draw: t.Draw, Moves: t.Moves}
}
