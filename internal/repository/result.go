package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
)

const (
	winsKey    = "results:wins"
	historyKey = "results:history"

	historyLimit = 100
)

var ErrUnknownWinner = errors.New("unknown winner")

type ResultRepository interface {
	Save(ctx context.Context, result *entity.Result) error
	GetStats(ctx context.Context, recent int) (*entity.Stats, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

// Save - counts the win and prepends the result to the bounded history.
func (that *dbResult) Save(ctx context.Context, result *entity.Result) error {
	if result.Winner != entity.WinnerPlayer && result.Winner != entity.WinnerBot {
		return fmt.Errorf("%w: %q", ErrUnknownWinner, result.Winner)
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, winsKey, result.Winner, 1)
		pipe.LPush(ctx, historyKey, resultJSON)
		pipe.LTrim(ctx, historyKey, 0, historyLimit-1)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

// GetStats - returns win counters and up to recent latest results.
func (that *dbResult) GetStats(ctx context.Context, recent int) (*entity.Stats, error) {
	wins, err := that.client.HGetAll(ctx, winsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get wins: %w", err)
	}

	stats := &entity.Stats{}

	if stats.PlayerWins, err = parseCounter(wins[entity.WinnerPlayer]); err != nil {
		return nil, err
	}

	if stats.BotWins, err = parseCounter(wins[entity.WinnerBot]); err != nil {
		return nil, err
	}

	if recent <= 0 {
		return stats, nil
	}

	history, err := that.client.LRange(ctx, historyKey, 0, int64(recent)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	stats.Recent = make([]entity.Result, 0, len(history))
	for _, item := range history {
		var result entity.Result
		if err = json.Unmarshal([]byte(item), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}

		stats.Recent = append(stats.Recent, result)
	}

	return stats, nil
}

func parseCounter(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}

	counter, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse counter: %w", err)
	}

	return counter, nil
}
