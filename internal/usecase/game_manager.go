package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/seabattle-backend/internal/apperror"
	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
	"github.com/rocketscienceinc/seabattle-backend/internal/metrics"
	"github.com/rocketscienceinc/seabattle-backend/internal/pkg"
	"github.com/rocketscienceinc/seabattle-backend/internal/seabattle"
)

const recentResults = 10

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
	GetStats(ctx context.Context, recent int) (*entity.Stats, error)
}

// TurnResult is what a client gets back after a move.
type TurnResult struct {
	Shots    []seabattle.Shot   `json:"shots"`
	Snapshot seabattle.Snapshot `json:"state"`
}

type session struct {
	mu       sync.Mutex
	game     *seabattle.Game
	recorded bool
}

type Options struct {
	BotMovesPerTurn int
	NewRandom       func() entity.Random
}

type GameManager struct {
	logger     *slog.Logger
	resultRepo resultRepo
	metrics    *metrics.Metrics
	opts       Options

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewGameManager(logger *slog.Logger, resultRepo resultRepo, collectors *metrics.Metrics, opts Options) *GameManager {
	return &GameManager{
		logger:     logger.With("component", "game_manager"),
		resultRepo: resultRepo,
		metrics:    collectors,
		opts:       opts,
		sessions:   make(map[string]*session),
	}
}

// NewSession - starts a fresh game and returns its id.
func (that *GameManager) NewSession(_ context.Context) (string, seabattle.Snapshot) {
	game := seabattle.NewGame(seabattle.Options{
		Random:          that.opts.NewRandom(),
		BotMovesPerTurn: that.opts.BotMovesPerTurn,
	})

	id := pkg.GenerateNewSessionID()

	that.mu.Lock()
	that.sessions[id] = &session{game: game}
	that.mu.Unlock()

	that.metrics.ActiveSessions.Inc()
	that.logger.Info("session created", "sessionID", id)

	return id, game.Snapshot()
}

// Target - resolves a player click and lets the bot answer.
func (that *GameManager) Target(ctx context.Context, id string, click entity.Point) (*TurnResult, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.game.Outcome().IsOver() {
		return nil, apperror.ErrMatchOver
	}

	shots, ok := sess.game.Turn(click)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvalidTarget, click)
	}

	return that.afterMove(ctx, id, sess, shots), nil
}

// BotMove - lets the bot make a single automated move.
func (that *GameManager) BotMove(ctx context.Context, id string) (*TurnResult, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	shot, ok := sess.game.BotTurn()
	if !ok {
		return nil, apperror.ErrMatchOver
	}

	return that.afterMove(ctx, id, sess, []seabattle.Shot{shot}), nil
}

// Reset - regenerates both fields of the session.
func (that *GameManager) Reset(_ context.Context, id string) (seabattle.Snapshot, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return seabattle.Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.game.Reset()
	sess.recorded = false

	that.logger.Info("session reset", "sessionID", id)

	return sess.game.Snapshot(), nil
}

// Reveal - reveals the bot field of the session.
func (that *GameManager) Reveal(_ context.Context, id string) (seabattle.Snapshot, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return seabattle.Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.game.Reveal(seabattle.SideBot)

	return sess.game.Snapshot(), nil
}

func (that *GameManager) State(_ context.Context, id string) (seabattle.Snapshot, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return seabattle.Snapshot{}, err
	}

	return sess.game.Snapshot(), nil
}

// CloseSession - forgets the session. Unknown ids are ignored.
func (that *GameManager) CloseSession(_ context.Context, id string) {
	that.mu.Lock()
	_, ok := that.sessions[id]
	delete(that.sessions, id)
	that.mu.Unlock()

	if ok {
		that.metrics.ActiveSessions.Dec()
		that.logger.Info("session closed", "sessionID", id)
	}
}

func (that *GameManager) Stats(ctx context.Context) (*entity.Stats, error) {
	stats, err := that.resultRepo.GetStats(ctx, recentResults)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

func (that *GameManager) getSession(id string) (*session, error) {
	that.mu.RLock()
	sess, ok := that.sessions[id]
	that.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	return sess, nil
}

// afterMove counts the shots and records the result once the match is over. Caller holds sess.mu.
func (that *GameManager) afterMove(ctx context.Context, id string, sess *session, shots []seabattle.Shot) *TurnResult {
	for _, shot := range shots {
		that.metrics.Shots.WithLabelValues(shot.Side.String(), shot.Result.String()).Inc()
	}

	snapshot := sess.game.Snapshot()

	if winner, over := snapshot.Outcome.Winner(); over && !sess.recorded {
		sess.recorded = true
		that.recordResult(ctx, id, winner, snapshot)
	}

	return &TurnResult{
		Shots:    shots,
		Snapshot: snapshot,
	}
}

func (that *GameManager) recordResult(ctx context.Context, id string, winner seabattle.Side, snapshot seabattle.Snapshot) {
	log := that.logger.With("method", "recordResult", "sessionID", id)

	that.metrics.MatchesFinished.WithLabelValues(winner.String()).Inc()

	result := &entity.Result{
		SessionID:   id,
		Winner:      winner.String(),
		PlayerScore: snapshot.Player.Score,
		BotScore:    snapshot.Bot.Score,
		FinishedAt:  time.Now().UTC(),
	}

	if err := that.resultRepo.Save(ctx, result); err != nil {
		log.Error("failed to save result", "error", err)
		return
	}

	log.Info("match finished", "winner", result.Winner, "playerScore", result.PlayerScore, "botScore", result.BotScore)
}
