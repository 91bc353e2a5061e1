package engine

import "fmt"

// Direction is the level change chosen between daily batches.
type Direction int

const (
	Keep Direction = iota
	Up
	Down
)

var directionNames = [...]string{Keep: "Keep", Up: "Up", Down: "Down"}

// String returns the direction name.
func (d Direction) String() string {
	if d >= Keep && d <= Down {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Decision is the outcome of one adaptive step.
type Decision struct {
	Level     int
	Direction Direction
}

// Default adaptive policy values.
const (
	DefaultFloor         = 1
	DefaultUpThreshold   = 0.85
	DefaultDownThreshold = 0.60
	DefaultCountFactor   = 5
	DefaultFloorCount    = 20
)

// Adaptive retunes the daily lag between batches.
// Zero-valued fields fall back to the defaults above.
type Adaptive struct {
	Floor         int
	UpThreshold   float64
	DownThreshold float64
	CountFactor   int
	FloorCount    int
}

func (a Adaptive) withDefaults() Adaptive {
	if a.Floor <= 0 {
		a.Floor = DefaultFloor
	}
	if a.UpThreshold == 0 {
		a.UpThreshold = DefaultUpThreshold
	}
	if a.DownThreshold == 0 {
		a.DownThreshold = DefaultDownThreshold
	}
	if a.CountFactor <= 0 {
		a.CountFactor = DefaultCountFactor
	}
	if a.FloorCount <= 0 {
		a.FloorCount = DefaultFloorCount
	}
	return a
}

// Next picks the level for the following batch.
func (a Adaptive) Next(accuracy float64, level int) Decision {
	a = a.withDefaults()
	switch {
	case accuracy >= a.UpThreshold:
		return Decision{Level: level + 1, Direction: Up}
	case accuracy < a.DownThreshold:
		next := level - 1
		if next < a.Floor {
			next = a.Floor
		}
		return Decision{Level: next, Direction: Down}
	default:
		return Decision{Level: level, Direction: Keep}
	}
}

// BatchSize returns the planned answer count for a batch at level.
func (a Adaptive) BatchSize(level int) int {
	a = a.withDefaults()
	if level <= a.Floor {
		return a.FloorCount
	}
	return a.CountFactor * level
}
