package core

// runCell holds, for each of the eight directions, the length of the run of
// occupied cells that starts right next to this cell. Only empty cells keep
// meaningful values; a claimed cell's entries go stale and are never read.
type runCell [2 * len(LineSteps)]int

// RunBoard is a Tracker that maintains run lengths at the empty ends of every
// run instead of per-line counters. Placing a cell joins the runs on either
// side of it and writes the joined length to the two new ends, so a win
// check is a constant-time lookup.
//
// The grid carries a one-cell border so run ends may fall off the board.
type RunBoard struct {
	size, win int
	stride    int
	grid      []runCell // (size+2)² padded, row-major
	cells     []bool
	last      Coordinate
	lastRuns  [len(LineSteps)]int
	hasLast   bool
}

// NewRunBoard creates an empty run tracker. It panics unless 1 <= winLength <= size.
func NewRunBoard(size, winLength int) *RunBoard {
	checkGeometry(size, winLength)
	stride := size + 2
	return &RunBoard{
		size:   size,
		win:    winLength,
		stride: stride,
		grid:   make([]runCell, stride*stride),
		cells:  make([]bool, size*size),
	}
}

func (b *RunBoard) Size() int      { return b.size }
func (b *RunBoard) WinLength() int { return b.win }

func (b *RunBoard) inBounds(x, y int) bool {
	return x >= 0 && x < b.size && y >= 0 && y < b.size
}

func (b *RunBoard) padded(x, y int) int { return (y+1)*b.stride + x + 1 }

// Reset clears all cells and recorded runs
func (b *RunBoard) Reset() {
	clear(b.grid)
	clear(b.cells)
	b.hasLast = false
}

func (b *RunBoard) Occupied(x, y int) bool {
	return b.inBounds(x, y) && b.cells[y*b.size+x]
}

// Place claims the cell and records the length of the four runs through it.
// It panics on out-of-bounds or already claimed cells.
func (b *RunBoard) Place(x, y int) {
	if !b.inBounds(x, y) {
		cellPanic(ErrInvalidCoordinates, x, y)
	}
	if b.cells[y*b.size+x] {
		cellPanic(ErrCellOccupied, x, y)
	}
	b.cells[y*b.size+x] = true

	q := b.grid[b.padded(x, y)]
	for _, line := range AllLines {
		fwd, back := q[2*line], q[2*line+1]
		total := back + 1 + fwd
		b.lastRuns[line] = total

		step := line.Step()
		// The empty cell past the forward end now sees the joined run behind it
		// and the empty cell past the backward end sees it ahead.
		ahead := b.padded(x+step.X*(fwd+1), y+step.Y*(fwd+1))
		behind := b.padded(x-step.X*(back+1), y-step.Y*(back+1))
		b.grid[ahead][2*line+1] = total
		b.grid[behind][2*line] = total
	}
	b.last = NewCoordinate(x, y)
	b.hasLast = true
}

// CheckWin reports whether the cell just placed completed a winning run
func (b *RunBoard) CheckWin(x, y int) bool {
	_, won := b.WinningLine(x, y)
	return won
}

// WinningLine returns the first line whose run through the last placed cell
// reaches the win length. It panics if (x, y) is not the last placed cell.
func (b *RunBoard) WinningLine(x, y int) (Line, bool) {
	if !b.hasLast || b.last != NewCoordinate(x, y) {
		cellPanic(ErrCheckOutOfOrder, x, y)
	}
	for _, line := range AllLines {
		if b.lastRuns[line] >= b.win {
			return line, true
		}
	}
	return NoLine, false
}
