package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
)

type mockStats struct {
	mock.Mock
}

func (that *mockStats) Stats(ctx context.Context) (*entity.Stats, error) {
	args := that.Called(ctx)
	stats, _ := args.Get(0).(*entity.Stats)
	return stats, args.Error(1)
}

func newTestRouter(stats statsUseCase) http.Handler {
	return NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), stats)
}

func TestRouter_Ping(t *testing.T) {
	rec := httptest.NewRecorder()

	newTestRouter(&mockStats{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestRouter_Stats(t *testing.T) {
	t.Run("Returns win counts as JSON", func(t *testing.T) {
		// Given: two player wins and one bot win
		stats := &mockStats{}
		stats.On("Stats", mock.Anything).Return(&entity.Stats{PlayerWins: 2, BotWins: 1}, nil).Once()

		// When: requesting the stats
		rec := httptest.NewRecorder()
		newTestRouter(stats).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

		// Then: they are encoded
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"player_wins":2,"bot_wins":1}`, rec.Body.String())
		stats.AssertExpectations(t)
	})

	t.Run("Repository failure is a server error", func(t *testing.T) {
		stats := &mockStats{}
		stats.On("Stats", mock.Anything).Return(nil, errors.New("redis down")).Once()

		rec := httptest.NewRecorder()
		newTestRouter(stats).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("Only GET is allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestRouter(&mockStats{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stats", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRouter_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()

	newTestRouter(&mockStats{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
