package seabattle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
)

type Side int

var ErrUnknownSide = errors.New("unknown side")

const (
	SidePlayer Side = iota
	SideBot
)

func (that Side) String() string {
	if that == SideBot {
		return entity.WinnerBot
	}

	return entity.WinnerPlayer
}

func (that Side) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case entity.WinnerPlayer:
		*that = SidePlayer
	case entity.WinnerBot:
		*that = SideBot
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSide, text)
	}

	return nil
}

// Opponent - returns the other side.
func (that Side) Opponent() Side {
	if that == SidePlayer {
		return SideBot
	}

	return SidePlayer
}

// Board owns both grids. Each grid has its own lock; matches refer to grids by side.
type Board struct {
	grids [2]*entity.Grid
	locks [2]sync.RWMutex
}

func NewBoard(player, bot *entity.Grid) *Board {
	return &Board{
		grids: [2]*entity.Grid{SidePlayer: player, SideBot: bot},
	}
}

// View - runs fn with read access to the grid of one side.
func (that *Board) View(side Side, fn func(grid *entity.Grid)) {
	that.locks[side].RLock()
	defer that.locks[side].RUnlock()

	fn(that.grids[side])
}

// Update - runs fn with write access to the grid of one side.
func (that *Board) Update(side Side, fn func(grid *entity.Grid)) {
	that.locks[side].Lock()
	defer that.locks[side].Unlock()

	fn(that.grids[side])
}

// UpdateBoth - runs fn with write access to both grids. Locks are taken in side order.
func (that *Board) UpdateBoth(fn func(player, bot *entity.Grid)) {
	that.locks[SidePlayer].Lock()
	defer that.locks[SidePlayer].Unlock()
	that.locks[SideBot].Lock()
	defer that.locks[SideBot].Unlock()

	fn(that.grids[SidePlayer], that.grids[SideBot])
}

// State - copies the grid of one side for rendering.
func (that *Board) State(side Side) entity.GridState {
	var state entity.GridState

	that.View(side, func(grid *entity.Grid) {
		state = grid.State()
	})

	return state
}

// Outcome - derives who has won from both scores.
func (that *Board) Outcome() Outcome {
	var outcome Outcome

	that.View(SidePlayer, func(grid *entity.Grid) {
		outcome.PlayerWon = grid.HasWon()
	})
	that.View(SideBot, func(grid *entity.Grid) {
		outcome.BotWon = grid.HasWon()
	})

	return outcome
}

type Outcome struct {
	PlayerWon bool `json:"player_won"`
	BotWon    bool `json:"bot_won"`
}

func (that Outcome) IsOver() bool {
	return that.PlayerWon || that.BotWon
}

// Winner - returns the winning side, ok is false while the match is running.
func (that Outcome) Winner() (Side, bool) {
	switch {
	case that.PlayerWon:
		return SidePlayer, true
	case that.BotWon:
		return SideBot, true
	default:
		return SidePlayer, false
	}
}
