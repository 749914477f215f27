package core

import "fmt"

// Default board geometry for the simulation.
const (
	BoardSize    = 20
	WinCondition = 10
)

// Tracker records the cells claimed by a single player and reports whether
// the most recent placement completed a winning run.
//
// CheckWin and WinningLine must be called right after Place for the same
// cell. Each game owns its trackers exclusively.
type Tracker interface {
	Reset()
	Place(x, y int)
	CheckWin(x, y int) bool
	WinningLine(x, y int) (Line, bool)
	Occupied(x, y int) bool
	Size() int
	WinLength() int
}

// TrackerKind selects a Tracker implementation
type TrackerKind string

const (
	// CounterTracker keeps per-line occupancy counters and walks the line
	// only when its counter has reached the win length.
	CounterTracker TrackerKind = "counter"
	// RunTracker keeps neighbouring run lengths at empty cells so that a
	// check never walks.
	RunTracker TrackerKind = "run"
)

// ParseTrackerKind converts a configuration string to a TrackerKind
func ParseTrackerKind(s string) (TrackerKind, error) {
	switch TrackerKind(s) {
	case CounterTracker, RunTracker:
		return TrackerKind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTracker, s)
	}
}

// NewTracker builds an empty tracker of the given kind
func NewTracker(kind TrackerKind, size, winLength int) (Tracker, error) {
	switch kind {
	case CounterTracker, "":
		return NewBoard(size, winLength), nil
	case RunTracker:
		return NewRunBoard(size, winLength), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTracker, string(kind))
	}
}

func checkGeometry(size, winLength int) {
	if size < 1 || winLength < 1 || winLength > size {
		panic(fmt.Errorf("%w: size %d, win length %d", ErrInvalidBoard, size, winLength))
	}
}
