package entity

import (
	"errors"
	"fmt"
)

// Occupancy is the state of a single grid position.
type Occupancy uint8

const (
	Empty Occupancy = iota
	Ship
	Destroyed
	Missed
)

var ErrUnknownOccupancy = errors.New("unknown occupancy")

func (that Occupancy) String() string {
	switch that {
	case Empty:
		return "empty"
	case Ship:
		return "ship"
	case Destroyed:
		return "destroyed"
	case Missed:
		return "missed"
	}

	return fmt.Sprintf("occupancy(%d)", uint8(that))
}

// MarshalText - encodes occupancy by name.
func (that Occupancy) MarshalText() ([]byte, error) {
	switch that {
	case Empty, Ship, Destroyed, Missed:
		return []byte(that.String()), nil
	}

	return nil, fmt.Errorf("%w: %d", ErrUnknownOccupancy, uint8(that))
}

// UnmarshalText - decodes occupancy encoded by MarshalText.
func (that *Occupancy) UnmarshalText(text []byte) error {
	for _, occupancy := range []Occupancy{Empty, Ship, Destroyed, Missed} {
		if occupancy.String() == string(text) {
			*that = occupancy
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownOccupancy, text)
}

// IsTargeted - reports whether the position was already shot at.
func (that Occupancy) IsTargeted() bool {
	return that == Destroyed || that == Missed
}

// afterShot returns the occupancy a position takes once it is targeted.
func (that Occupancy) afterShot() Occupancy {
	switch that {
	case Empty:
		return Missed
	case Ship:
		return Destroyed
	case Destroyed, Missed:
		return that
	}

	panic(fmt.Sprintf("%s: %d", ErrUnknownOccupancy, uint8(that)))
}

type Cell struct {
	Occupancy Occupancy `json:"occupancy"`
	Revealed  bool      `json:"revealed"`
}

func NewCell(revealed bool) Cell {
	return Cell{
		Occupancy: Empty,
		Revealed:  revealed,
	}
}
