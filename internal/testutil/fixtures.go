package testutil

import (
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/core"
)

// InterleaveOrder builds a move order that gives circle's cells to the even
// turns and cross's cells to the odd turns, in the given sequence. The
// remaining cells of the board follow in index order, alternating from
// wherever the two lists left off. len(circle) must be len(cross) or one more.
func InterleaveOrder(size int, circle, cross []core.Coordinate) []int {
	used := make([]bool, size*size)
	order := make([]int, 0, size*size)

	for i := range circle {
		order = append(order, circle[i].ToIndex(size))
		used[circle[i].ToIndex(size)] = true
		if i < len(cross) {
			order = append(order, cross[i].ToIndex(size))
			used[cross[i].ToIndex(size)] = true
		}
	}
	for idx, taken := range used {
		if !taken {
			order = append(order, idx)
		}
	}
	return order
}

// DrawOwner assigns every cell to a player so that no row, column or
// diagonal holds more than two consecutive cells of the same player, and each
// row is split evenly for even sizes.
func DrawOwner(x, y int) int {
	return (x/2 + y) % 2
}

// DrawOrder returns a move order for an even-sized board that fills every
// cell with no run longer than two, so any win length above two ends in a draw.
func DrawOrder(size int) []int {
	var circle, cross []int
	for idx := 0; idx < size*size; idx++ {
		c := core.FromIndex(idx, size)
		if DrawOwner(c.X, c.Y) == 0 {
			circle = append(circle, idx)
		} else {
			cross = append(cross, idx)
		}
	}

	order := make([]int, 0, size*size)
	for i := range circle {
		order = append(order, circle[i], cross[i])
	}
	return order
}

// RowRun returns n cells of row y starting at x
func RowRun(x, y, n int) []core.Coordinate {
	cells := make([]core.Coordinate, n)
	for i := range cells {
		cells[i] = core.NewCoordinate(x+i, y)
	}
	return cells
}
