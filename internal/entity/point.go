package entity

import "fmt"

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (that Point) String() string {
	return fmt.Sprintf("(%d,%d)", that.X, that.Y)
}

// Neighbours - returns the up to 8 surrounding points, including ones off the grid.
func (that Point) Neighbours() [8]Point {
	return [8]Point{
		{X: that.X - 1, Y: that.Y},
		{X: that.X + 1, Y: that.Y},
		{X: that.X, Y: that.Y - 1},
		{X: that.X, Y: that.Y + 1},
		{X: that.X - 1, Y: that.Y - 1},
		{X: that.X + 1, Y: that.Y + 1},
		{X: that.X + 1, Y: that.Y - 1},
		{X: that.X - 1, Y: that.Y + 1},
	}
}

// InBounds - checks whether the point addresses a cell of a GridSize x GridSize grid.
func (that Point) InBounds() bool {
	return that.X >= 0 && that.Y >= 0 && that.X < GridSize && that.Y < GridSize
}
