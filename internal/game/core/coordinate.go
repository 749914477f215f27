package core

import "fmt"

// Coordinate represents a cell on the game board
type Coordinate struct {
	X, Y int
}

// NewCoordinate creates a new coordinate with the given x and y values
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// FromIndex creates a coordinate from a flat cell index using row-major ordering
func FromIndex(idx, width int) Coordinate {
	return Coordinate{
		X: idx % width,
		Y: idx / width,
	}
}

// IsValid checks if the coordinate lies on a square board of the given size
func (c Coordinate) IsValid(size int) bool {
	return c.X >= 0 && c.X < size && c.Y >= 0 && c.Y < size
}

// ToIndex converts the coordinate to a flat cell index using row-major ordering
func (c Coordinate) ToIndex(width int) int {
	return c.Y*width + c.X
}

// Add returns a new coordinate that is the sum of this coordinate and another
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X + other.X,
		Y: c.Y + other.Y,
	}
}

// Neg returns the coordinate mirrored through the origin
func (c Coordinate) Neg() Coordinate {
	return Coordinate{X: -c.X, Y: -c.Y}
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Line identifies one of the four line directions through a cell
type Line int

const (
	Column Line = iota
	Row
	Diagonal
	AntiDiagonal
	NoLine Line = -1
)

// AllLines lists the directions in the order a win check visits them
var AllLines = [...]Line{Column, Row, Diagonal, AntiDiagonal}

// LineSteps holds the forward unit step along each line. Walking backwards
// uses the negated step.
var LineSteps = [...]Coordinate{
	Column:       {X: 0, Y: 1},
	Row:          {X: 1, Y: 0},
	Diagonal:     {X: 1, Y: 1},
	AntiDiagonal: {X: 1, Y: -1},
}

// Step returns the forward unit step of the line
func (l Line) Step() Coordinate {
	return LineSteps[l]
}

func (l Line) String() string {
	switch l {
	case Column:
		return "column"
	case Row:
		return "row"
	case Diagonal:
		return "diagonal"
	case AntiDiagonal:
		return "anti_diagonal"
	case NoLine:
		return "none"
	default:
		return fmt.Sprintf("line(%d)", int(l))
	}
}
