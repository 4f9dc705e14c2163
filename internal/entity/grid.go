package entity

import (
	"errors"
	"fmt"
)

const (
	GridSize  = 10
	ShipCount = 7

	CellWidth  = 50
	CellHeight = 50

	maxPlacementAttempts = 100_000
)

var (
	ErrIllegalPlacement = errors.New("ships must not touch each other")
	ErrOutOfBounds      = errors.New("point is out of grid bounds")
	ErrExhaustedPool    = errors.New("no eligible cell left")
	ErrTooManyShips     = errors.New("grid already holds all ships")
)

// Random is the source of randomness used for placement and automated targeting.
// *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	IntN(n int) int
}

// GridState is a read-only copy of a grid handed to presentation.
type GridState struct {
	Cells  [GridSize][GridSize]Cell `json:"cells"`
	Score  int                      `json:"score"`
	Origin Point                    `json:"origin"`
}

type Grid struct {
	origin  Point
	visible bool
	rng     Random

	cells [GridSize][GridSize]Cell
	ships int
	score int
}

// NewGrid - creates an empty grid anchored at origin. Cells start revealed when visible is set.
func NewGrid(origin Point, visible bool, rng Random) *Grid {
	grid := &Grid{
		origin:  origin,
		visible: visible,
		rng:     rng,
	}

	grid.clean()

	return grid
}

// PlaceShipsRandomly - samples random cells until ShipCount ships are placed.
func (that *Grid) PlaceShipsRandomly() {
	for attempts := 0; that.ships < ShipCount; attempts++ {
		if attempts >= maxPlacementAttempts {
			panic(fmt.Errorf("%w: placed %d of %d ships", ErrExhaustedPool, that.ships, ShipCount))
		}

		candidate := Point{X: that.rng.IntN(GridSize), Y: that.rng.IntN(GridSize)}
		if !that.isPlaceable(candidate) {
			continue
		}

		that.cellAt(candidate).Occupancy = Ship
		that.ships++
	}
}

// PlaceShip - puts a ship on a single cell, bypassing randomness.
func (that *Grid) PlaceShip(location Point) error {
	if !location.InBounds() {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, location)
	}

	if that.ships >= ShipCount {
		return ErrTooManyShips
	}

	if !that.isPlaceable(location) {
		return fmt.Errorf("%w: %s", ErrIllegalPlacement, location)
	}

	that.cellAt(location).Occupancy = Ship
	that.ships++

	return nil
}

// Mark - shoots at a cell and returns the resulting occupancy. Score is left to the caller.
func (that *Grid) Mark(location Point) Occupancy {
	cell := that.cellAt(location)

	cell.Revealed = true
	cell.Occupancy = cell.Occupancy.afterShot()

	return cell.Occupancy
}

// RandomUnmissedCell - picks a random cell that is not a miss. Destroyed cells stay eligible.
func (that *Grid) RandomUnmissedCell() Point {
	return that.RandomCellWhere(func(_ Point, cell Cell) bool {
		return cell.Occupancy != Missed
	})
}

// RandomCellWhere - picks a uniformly random cell among the ones accepted by eligible.
func (that *Grid) RandomCellWhere(eligible func(location Point, cell Cell) bool) Point {
	available := make([]Point, 0, GridSize*GridSize)

	for x := range GridSize {
		for y := range GridSize {
			location := Point{X: x, Y: y}
			if eligible(location, that.cells[x][y]) {
				available = append(available, location)
			}
		}
	}

	if len(available) == 0 {
		panic(ErrExhaustedPool)
	}

	return available[that.rng.IntN(len(available))]
}

// RevealAll - makes every cell visible until the next reset.
func (that *Grid) RevealAll() {
	for x := range GridSize {
		for y := range GridSize {
			that.cells[x][y].Revealed = true
		}
	}
}

// Reset - clears the grid to its initial visibility, places a fresh fleet and zeroes the score.
func (that *Grid) Reset() {
	that.clean()
	that.PlaceShipsRandomly()
	that.score = 0
}

// ContainsPoint - hit-tests a logical point against the grid footprint.
func (that *Grid) ContainsPoint(location Point) bool {
	return location.X >= that.origin.X &&
		location.X < that.origin.X+GridSize*CellWidth &&
		location.Y >= that.origin.Y &&
		location.Y < that.origin.Y+GridSize*CellHeight
}

// CellAt - translates a logical point inside the footprint to cell coordinates.
func (that *Grid) CellAt(location Point) (Point, bool) {
	if !that.ContainsPoint(location) {
		return Point{}, false
	}

	return Point{
		X: (location.X - that.origin.X) / CellWidth,
		Y: (location.Y - that.origin.Y) / CellHeight,
	}, true
}

func (that *Grid) Cell(location Point) Cell {
	return *that.cellAt(location)
}

func (that *Grid) Origin() Point {
	return that.origin
}

func (that *Grid) Score() int {
	return that.score
}

// IncrementScore - counts one destroyed enemy ship.
func (that *Grid) IncrementScore() {
	if that.score < ShipCount {
		that.score++
	}
}

// HasWon - reports whether the owner of the grid destroyed the whole enemy fleet.
func (that *Grid) HasWon() bool {
	return that.score >= ShipCount
}

// ShipCount - counts the cells seeded with a ship, destroyed or not.
func (that *Grid) ShipCount() int {
	return that.ships
}

func (that *Grid) State() GridState {
	return GridState{
		Cells:  that.cells,
		Score:  that.score,
		Origin: that.origin,
	}
}

func (that *Grid) clean() {
	for x := range GridSize {
		for y := range GridSize {
			that.cells[x][y] = NewCell(that.visible)
		}
	}

	that.ships = 0
}

func (that *Grid) cellAt(location Point) *Cell {
	if !location.InBounds() {
		panic(fmt.Errorf("%w: %s", ErrOutOfBounds, location))
	}

	return &that.cells[location.X][location.Y]
}

// isVacant treats off-grid points as vacant.
func (that *Grid) isVacant(location Point) bool {
	if !location.InBounds() {
		return true
	}

	return that.cells[location.X][location.Y].Occupancy != Ship
}

func (that *Grid) isPlaceable(location Point) bool {
	if !that.isVacant(location) {
		return false
	}

	for _, neighbour := range location.Neighbours() {
		if !that.isVacant(neighbour) {
			return false
		}
	}

	return true
}
