package states

import "fmt"

// GamePhase represents the current phase of a single game
type GamePhase int

const (
	// PhaseInProgress - moves are still being played
	PhaseInProgress GamePhase = iota

	// PhaseCircleWon - the even-turn player completed a run
	PhaseCircleWon

	// PhaseCrossWon - the odd-turn player completed a run
	PhaseCrossWon

	// PhaseDraw - every cell was played without a winning run
	PhaseDraw
)

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	switch p {
	case PhaseInProgress:
		return "InProgress"
	case PhaseCircleWon:
		return "CircleWon"
	case PhaseCrossWon:
		return "CrossWon"
	case PhaseDraw:
		return "Draw"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase ends the game
func (p GamePhase) IsTerminal() bool {
	return p == PhaseCircleWon || p == PhaseCrossWon || p == PhaseDraw
}

// CanReceiveMoves returns true if a move may be applied in this phase
func (p GamePhase) CanReceiveMoves() bool {
	return p == PhaseInProgress
}

// AllowedTransitions returns the valid phases this phase can transition to.
// Terminal phases have none; a new game starts from a fresh PhaseInProgress.
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseInProgress:
		return []GamePhase{PhaseCircleWon, PhaseCrossWon, PhaseDraw}
	default:
		return []GamePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// WonBy returns the terminal phase for a win by the given player index
func WonBy(player int) GamePhase {
	if player%2 == 0 {
		return PhaseCircleWon
	}
	return PhaseCrossWon
}
