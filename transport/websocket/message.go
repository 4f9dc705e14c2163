package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
	"github.com/rocketscienceinc/seabattle-backend/internal/seabattle"
)

const occupancyHidden = "hidden"

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TargetPayload is a click in logical coordinates.
type TargetPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type ResponsePayload struct {
	SessionID string           `json:"session_id,omitempty"`
	State     *StateView       `json:"state,omitempty"`
	Shots     []seabattle.Shot `json:"shots,omitempty"`
	Error     string           `json:"error,omitempty"`
}

type CellView struct {
	Occupancy string `json:"occupancy"`
	Revealed  bool   `json:"revealed"`
}

type GridView struct {
	Cells  [entity.GridSize][entity.GridSize]CellView `json:"cells"`
	Score  int                                        `json:"score"`
	Origin entity.Point                               `json:"origin"`
}

type StateView struct {
	Player  GridView          `json:"player"`
	Bot     GridView          `json:"bot"`
	Outcome seabattle.Outcome `json:"outcome"`
}

// newStateView - builds the client view, hiding what unrevealed cells hold.
func newStateView(snapshot seabattle.Snapshot) *StateView {
	return &StateView{
		Player:  maskGridDetails(snapshot.Player),
		Bot:     maskGridDetails(snapshot.Bot),
		Outcome: snapshot.Outcome,
	}
}

func maskGridDetails(state entity.GridState) GridView {
	view := GridView{
		Score:  state.Score,
		Origin: state.Origin,
	}

	for x := range entity.GridSize {
		for y := range entity.GridSize {
			cell := state.Cells[x][y]

			occupancy := occupancyHidden
			if cell.Revealed {
				occupancy = cell.Occupancy.String()
			}

			view.Cells[x][y] = CellView{Occupancy: occupancy, Revealed: cell.Revealed}
		}
	}

	return view
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(conn *websocket.Conn, action, errorMessage string) error {
	return that.sendMessage(conn, action, ResponsePayload{Error: errorMessage})
}
