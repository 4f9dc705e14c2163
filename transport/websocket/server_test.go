package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
	"github.com/rocketscienceinc/seabattle-backend/internal/metrics"
	"github.com/rocketscienceinc/seabattle-backend/internal/seabattle"
	"github.com/rocketscienceinc/seabattle-backend/internal/usecase"
)

type nopResultRepo struct{}

func (nopResultRepo) Save(context.Context, *entity.Result) error { return nil }

func (nopResultRepo) GetStats(context.Context, int) (*entity.Stats, error) {
	return &entity.Stats{}, nil
}

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func newTestServer(t *testing.T) (*testClient, *metrics.Metrics) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	collectors := metrics.New(prometheus.NewRegistry())
	manager := usecase.NewGameManager(logger, nopResultRepo{}, collectors, usecase.Options{
		BotMovesPerTurn: 2,
		NewRandom: func() entity.Random {
			return rand.New(rand.NewPCG(1, 2)) //nolint: gosec // deterministic tests
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := httptest.NewServer(New(logger, manager).Handler(ctx))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	t.Cleanup(func() { _ = conn.Close() })

	return &testClient{t: t, conn: conn}, collectors
}

func (that *testClient) send(action string, payload any) ResponsePayload {
	that.t.Helper()

	message := Message{Action: action}
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(that.t, err)
		message.Payload = raw
	}

	require.NoError(that.t, that.conn.WriteJSON(message))

	var reply Message
	require.NoError(that.t, that.conn.ReadJSON(&reply))
	require.Equal(that.t, action, reply.Action)

	var response ResponsePayload
	require.NoError(that.t, json.Unmarshal(reply.Payload, &response))

	return response
}

func TestServer_GameFlow(t *testing.T) {
	client, collectors := newTestServer(t)

	t.Run("Moves before a game are refused", func(t *testing.T) {
		response := client.send(actionTarget, TargetPayload{X: 1001, Y: 101})

		assert.Equal(t, errNoSession, response.Error)
		assert.Nil(t, response.State)
	})

	// Given: a new game
	response := client.send(actionNewGame, nil)
	require.Empty(t, response.Error)
	require.NotEmpty(t, response.SessionID)
	require.NotNil(t, response.State)
	assert.Equal(t, 1.0, testutil.ToFloat64(collectors.ActiveSessions))

	t.Run("Bot field is masked and player field is visible", func(t *testing.T) {
		state := client.send(actionState, nil).State
		require.NotNil(t, state)

		assert.Equal(t, occupancyHidden, state.Bot.Cells[0][0].Occupancy)
		assert.False(t, state.Bot.Cells[0][0].Revealed)
		assert.NotEqual(t, occupancyHidden, state.Player.Cells[0][0].Occupancy)
		assert.Equal(t, seabattle.BotOrigin, state.Bot.Origin)
	})

	t.Run("Click on the bot field resolves a turn", func(t *testing.T) {
		response := client.send(actionTarget, TargetPayload{X: seabattle.BotOrigin.X + 1, Y: seabattle.BotOrigin.Y + 1})

		require.Empty(t, response.Error)
		require.Len(t, response.Shots, 3)
		assert.Equal(t, entity.Point{}, response.Shots[0].Cell)
		assert.True(t, response.State.Bot.Cells[0][0].Revealed)
		assert.NotEqual(t, occupancyHidden, response.State.Bot.Cells[0][0].Occupancy)
	})

	t.Run("Repeated click is reported as an invalid target", func(t *testing.T) {
		response := client.send(actionTarget, TargetPayload{X: seabattle.BotOrigin.X + 2, Y: seabattle.BotOrigin.Y + 2})

		assert.Contains(t, response.Error, "can't be targeted")
		assert.Empty(t, response.Shots)
	})

	t.Run("Bot move on request", func(t *testing.T) {
		response := client.send(actionBotMove, nil)

		require.Empty(t, response.Error)
		require.Len(t, response.Shots, 1)
		assert.Equal(t, seabattle.SideBot, response.Shots[0].Side)
	})

	t.Run("Reveal and reset", func(t *testing.T) {
		response := client.send(actionReveal, nil)
		require.Empty(t, response.Error)
		assert.True(t, response.State.Bot.Cells[9][9].Revealed)
		assert.NotEqual(t, occupancyHidden, response.State.Bot.Cells[9][9].Occupancy)

		response = client.send(actionReset, nil)
		require.Empty(t, response.Error)
		assert.Equal(t, occupancyHidden, response.State.Bot.Cells[9][9].Occupancy)
		assert.Zero(t, response.State.Player.Score)
	})

	t.Run("Unknown action is answered with an error", func(t *testing.T) {
		response := client.send("game:undo", nil)

		assert.Equal(t, "unknown action", response.Error)
	})

	t.Run("New game replaces the previous session", func(t *testing.T) {
		previous := response.SessionID

		next := client.send(actionNewGame, nil)

		assert.NotEqual(t, previous, next.SessionID)
		assert.Equal(t, 1.0, testutil.ToFloat64(collectors.ActiveSessions))
	})
}

func TestMaskGridDetails(t *testing.T) {
	// Given: a grid state with one revealed miss and one hidden ship
	var state entity.GridState
	state.Cells[0][0] = entity.Cell{Occupancy: entity.Missed, Revealed: true}
	state.Cells[1][1] = entity.Cell{Occupancy: entity.Ship}
	state.Score = 2

	// When: masking it
	view := maskGridDetails(state)

	// Then: only revealed occupancy is visible
	assert.Equal(t, CellView{Occupancy: "missed", Revealed: true}, view.Cells[0][0])
	assert.Equal(t, CellView{Occupancy: occupancyHidden}, view.Cells[1][1])
	assert.Equal(t, 2, view.Score)
}
