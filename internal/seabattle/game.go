package seabattle

import (
	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
)

const DefaultBotMovesPerTurn = 2

var (
	PlayerOrigin = entity.Point{X: 400, Y: 100}
	BotOrigin    = entity.Point{X: 1000, Y: 100}
)

type Options struct {
	Random          entity.Random
	BotMovesPerTurn int
}

// Game is a single player-versus-bot session: a board and the two cross-wired matches.
type Game struct {
	board  *Board
	player *Match
	bot    *Match

	botMovesPerTurn int
}

// Snapshot is everything presentation needs to paint one frame.
type Snapshot struct {
	Player  entity.GridState `json:"player"`
	Bot     entity.GridState `json:"bot"`
	Outcome Outcome          `json:"outcome"`
}

func NewGame(opts Options) *Game {
	playerGrid := entity.NewGrid(PlayerOrigin, true, opts.Random)
	botGrid := entity.NewGrid(BotOrigin, false, opts.Random)

	playerGrid.PlaceShipsRandomly()
	botGrid.PlaceShipsRandomly()

	return newGame(NewBoard(playerGrid, botGrid), opts.BotMovesPerTurn)
}

func newGame(board *Board, botMovesPerTurn int) *Game {
	if botMovesPerTurn <= 0 {
		botMovesPerTurn = DefaultBotMovesPerTurn
	}

	return &Game{
		board:           board,
		player:          NewMatch(board, SidePlayer),
		bot:             NewMatch(board, SideBot),
		botMovesPerTurn: botMovesPerTurn,
	}
}

// PlayerTurn - resolves a click of the player on the bot grid.
func (that *Game) PlayerTurn(click entity.Point) (Shot, bool) {
	if that.Outcome().IsOver() {
		return Shot{}, false
	}

	return that.player.Perform(&click)
}

// BotTurn - lets the bot make one automated move.
func (that *Game) BotTurn() (Shot, bool) {
	if that.Outcome().IsOver() {
		return Shot{}, false
	}

	return that.bot.Perform(nil)
}

// Turn - a player click followed by the bot answer. Nothing happens when the click is rejected.
func (that *Game) Turn(click entity.Point) ([]Shot, bool) {
	shot, ok := that.PlayerTurn(click)
	if !ok {
		return nil, false
	}

	shots := make([]Shot, 0, that.botMovesPerTurn+1)
	shots = append(shots, shot)

	for range that.botMovesPerTurn {
		botShot, botOK := that.BotTurn()
		if !botOK {
			break
		}

		shots = append(shots, botShot)
	}

	return shots, true
}

// Reset - starts a fresh match on both grids.
func (that *Game) Reset() {
	that.player.Reset()
	that.bot.Reset()
}

// Reveal - shows every cell of one grid until the next reset.
func (that *Game) Reveal(side Side) {
	that.board.Update(side, func(grid *entity.Grid) {
		grid.RevealAll()
	})
}

func (that *Game) Outcome() Outcome {
	return that.board.Outcome()
}

func (that *Game) Snapshot() Snapshot {
	return Snapshot{
		Player:  that.board.State(SidePlayer),
		Bot:     that.board.State(SideBot),
		Outcome: that.board.Outcome(),
	}
}
