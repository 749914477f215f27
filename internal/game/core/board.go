package core

// Board tracks one player's cells on a square grid together with the number
// of occupied cells on every row, column, diagonal and anti-diagonal.
//
// Diagonals run down-right and are indexed x-y+size-1. Anti-diagonals run
// down-left and are indexed x+y. Occupancy and counters always move together.
type Board struct {
	size, win int
	cells     []bool // length = size*size (row-major)
	rows      []int
	cols      []int
	diag      []int
	anti      []int
}

// NewBoard creates an empty board of size×size cells that is won by a run of
// winLength cells. It panics unless 1 <= winLength <= size.
func NewBoard(size, winLength int) *Board {
	checkGeometry(size, winLength)
	lines := 2*size - 1
	return &Board{
		size:  size,
		win:   winLength,
		cells: make([]bool, size*size),
		rows:  make([]int, size),
		cols:  make([]int, size),
		diag:  make([]int, lines),
		anti:  make([]int, lines),
	}
}

func (b *Board) Size() int      { return b.size }
func (b *Board) WinLength() int { return b.win }

func (b *Board) Idx(x, y int) int      { return y*b.size + x }
func (b *Board) XY(idx int) (int, int) { return idx % b.size, idx / b.size }

// InBounds checks if coordinates are within board boundaries
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.size && y >= 0 && y < b.size
}

// Reset clears every cell and counter
func (b *Board) Reset() {
	clear(b.cells)
	clear(b.rows)
	clear(b.cols)
	clear(b.diag)
	clear(b.anti)
}

// Occupied reports whether the cell is claimed. Out-of-bounds cells are never occupied.
func (b *Board) Occupied(x, y int) bool {
	return b.InBounds(x, y) && b.cells[b.Idx(x, y)]
}

// Place claims the cell and bumps the four line counters through it.
// It panics on out-of-bounds or already claimed cells.
func (b *Board) Place(x, y int) {
	if !b.InBounds(x, y) {
		cellPanic(ErrInvalidCoordinates, x, y)
	}
	idx := b.Idx(x, y)
	if b.cells[idx] {
		cellPanic(ErrCellOccupied, x, y)
	}
	b.cells[idx] = true
	b.rows[y]++
	b.cols[x]++
	b.diag[x-y+b.size-1]++
	b.anti[x+y]++
}

// LineCount returns the number of occupied cells on the given line through (x, y)
func (b *Board) LineCount(line Line, x, y int) int {
	switch line {
	case Column:
		return b.cols[x]
	case Row:
		return b.rows[y]
	case Diagonal:
		return b.diag[x-y+b.size-1]
	case AntiDiagonal:
		return b.anti[x+y]
	default:
		return 0
	}
}

// CheckWin reports whether the cell just placed completed a winning run
func (b *Board) CheckWin(x, y int) bool {
	_, won := b.WinningLine(x, y)
	return won
}

// WinningLine returns the first line through (x, y) holding a run of at least
// the win length. A line whose counter is below the win length is skipped
// without walking; otherwise the contiguous run through the cell is measured.
func (b *Board) WinningLine(x, y int) (Line, bool) {
	if !b.InBounds(x, y) {
		cellPanic(ErrInvalidCoordinates, x, y)
	}
	for _, line := range AllLines {
		if b.LineCount(line, x, y) < b.win {
			continue
		}
		if b.runReaches(x, y, line.Step()) {
			return line, true
		}
	}
	return NoLine, false
}

// runReaches walks from (x, y) both ways along step and stops as soon as the
// run reaches the win length.
func (b *Board) runReaches(x, y int, step Coordinate) bool {
	acc := 1
	if acc >= b.win {
		return true
	}
	for _, d := range [2]Coordinate{step, step.Neg()} {
		for cx, cy := x+d.X, y+d.Y; b.Occupied(cx, cy); cx, cy = cx+d.X, cy+d.Y {
			acc++
			if acc >= b.win {
				return true
			}
		}
	}
	return false
}
