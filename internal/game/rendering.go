package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/core"
)

// This file contains the text rendering of an engine's board.

// ANSI color codes
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorBlue  = "\033[34m"
	ColorGray  = "\033[90m"

	BgYellow = "\033[43m"
)

var playerColors = [2]string{ColorRed, ColorBlue}

const EmptySymbol = "·"

// Board renders the current position with ANSI colors. The cells of the
// winning run, if any, are highlighted.
func (e *Engine) Board() string { return e.render(true) }

// String renders the current position without escape codes
func (e *Engine) String() string { return e.render(false) }

func (e *Engine) render(color bool) string {
	run := e.winningRun()

	var sb strings.Builder
	sb.Grow((e.size*3 + 4) * (e.size + 3))

	// Column headers
	sb.WriteString("   ")
	for x := 0; x < e.size; x++ {
		sb.WriteString(fmt.Sprintf("%3d", x))
	}
	sb.WriteString("\n")

	for y := 0; y < e.size; y++ {
		sb.WriteString(fmt.Sprintf("%2d ", y))
		for x := 0; x < e.size; x++ {
			owner := e.Owner(x, y)
			symbol := EmptySymbol
			if owner != NoPlayer {
				symbol = PlayerSymbols[owner]
			}

			switch {
			case !color:
				sb.WriteString("  " + symbol)
			case owner == NoPlayer:
				sb.WriteString("  " + ColorGray + symbol + ColorReset)
			case run[core.NewCoordinate(x, y)]:
				sb.WriteString("  " + BgYellow + playerColors[owner] + symbol + ColorReset)
			default:
				sb.WriteString("  " + playerColors[owner] + symbol + ColorReset)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// winningRun collects the cells of the run that ended the game
func (e *Engine) winningRun() map[core.Coordinate]bool {
	winner := e.GetWinner()
	if winner == NoPlayer || e.winLine == core.NoLine {
		return nil
	}

	run := map[core.Coordinate]bool{e.lastMove: true}
	step := e.winLine.Step()
	for _, d := range [2]core.Coordinate{step, step.Neg()} {
		for c := e.lastMove.Add(d); c.IsValid(e.size) && e.Owner(c.X, c.Y) == winner; c = c.Add(d) {
			run[c] = true
		}
	}
	return run
}

// Summary describes the outcome in one line
func (e *Engine) Summary() string {
	switch winner := e.GetWinner(); {
	case winner != NoPlayer:
		return fmt.Sprintf("%s wins on move %d with a %s run", PlayerSymbols[winner], e.turn, e.winLine)
	case e.IsGameOver():
		return fmt.Sprintf("Draw after %d moves", e.turn)
	default:
		return fmt.Sprintf("In progress after %d moves", e.turn)
	}
}
