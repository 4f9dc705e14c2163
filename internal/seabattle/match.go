package seabattle

import (
	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
)

// Shot is a resolved targeting action.
type Shot struct {
	Side   Side             `json:"side"`
	Cell   entity.Point     `json:"cell"`
	Result entity.Occupancy `json:"result"`
}

// Match is one side's turn-taking state: its own grid, the enemy grid and the cells already targeted.
type Match struct {
	board    *Board
	own      Side
	targeted map[entity.Point]struct{}
}

func NewMatch(board *Board, own Side) *Match {
	return &Match{
		board:    board,
		own:      own,
		targeted: make(map[entity.Point]struct{}, entity.GridSize*entity.GridSize),
	}
}

// Perform - executes one targeting action. A nil target picks a random enemy cell.
// Returns false without mutating anything when the target is rejected.
func (that *Match) Perform(target *entity.Point) (Shot, bool) {
	var (
		shot Shot
		ok   bool
	)

	that.board.UpdateBoth(func(player, bot *entity.Grid) {
		own, enemy := player, bot
		if that.own == SideBot {
			own, enemy = bot, player
		}

		shot, ok = that.perform(own, enemy, target)
	})

	return shot, ok
}

func (that *Match) perform(own, enemy *entity.Grid, target *entity.Point) (Shot, bool) {
	var cell entity.Point

	if target != nil {
		var inside bool
		if cell, inside = enemy.CellAt(*target); !inside {
			return Shot{}, false
		}

		if that.isTargeted(cell) {
			return Shot{}, false
		}
	} else {
		// misses are skipped by the grid, hits by our own record
		cell = enemy.RandomCellWhere(func(location entity.Point, c entity.Cell) bool {
			return c.Occupancy != entity.Missed && !that.isTargeted(location)
		})
	}

	result := enemy.Mark(cell)
	that.targeted[cell] = struct{}{}

	if result == entity.Destroyed {
		own.IncrementScore()
	}

	return Shot{Side: that.own, Cell: cell, Result: result}, true
}

// Reset - forgets the targeted cells and re-seeds the own grid.
func (that *Match) Reset() {
	that.board.UpdateBoth(func(player, bot *entity.Grid) {
		clear(that.targeted)

		if that.own == SideBot {
			bot.Reset()
			return
		}

		player.Reset()
	})
}

// Targeted - reports whether the cell of the enemy grid was already targeted by this match.
func (that *Match) Targeted(cell entity.Point) bool {
	var targeted bool

	that.board.View(that.own.Opponent(), func(_ *entity.Grid) {
		targeted = that.isTargeted(cell)
	})

	return targeted
}

// TargetedCount - returns how many enemy cells were targeted so far.
func (that *Match) TargetedCount() int {
	var count int

	that.board.View(that.own.Opponent(), func(_ *entity.Grid) {
		count = len(that.targeted)
	})

	return count
}

func (that *Match) isTargeted(cell entity.Point) bool {
	_, ok := that.targeted[cell]
	return ok
}
