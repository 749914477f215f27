package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrCellOccupied       = errors.New("cell already occupied")
	ErrInvalidBoard       = errors.New("invalid board dimensions")
	ErrCheckOutOfOrder    = errors.New("win check does not follow placement")
	ErrUnknownTracker     = errors.New("unknown tracker kind")
)

// cellPanic aborts on a violated move precondition. Continuing would leave the
// line counters out of step with the occupancy bits.
func cellPanic(err error, x, y int) {
	panic(fmt.Errorf("cell %s: %w", NewCoordinate(x, y), err))
}
