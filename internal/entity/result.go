package entity

import "time"

const (
	WinnerPlayer = "player"
	WinnerBot    = "bot"
)

// Result is the summary of a finished match.
type Result struct {
	SessionID   string    `json:"session_id"`
	Winner      string    `json:"winner"`
	PlayerScore int       `json:"player_score"`
	BotScore    int       `json:"bot_score"`
	FinishedAt  time.Time `json:"finished_at"`
}

type Stats struct {
	PlayerWins int64    `json:"player_wins"`
	BotWins    int64    `json:"bot_wins"`
	Recent     []Result `json:"recent,omitempty"`
}
