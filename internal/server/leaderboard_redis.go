package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "geoguessr:leaderboard"

// RedisLeaderboard ranks matches in a sorted set scored by total.
type RedisLeaderboard struct {
	client *redis.Client
	key    string
}

func NewRedisLeaderboard(client *redis.Client) *RedisLeaderboard {
	return &RedisLeaderboard{client: client, key: leaderboardKey}
}

func (l *RedisLeaderboard) Submit(ctx context.Context, e LeaderboardEntry) error {
	member, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := l.client.ZAdd(ctx, l.key, redis.Z{Score: float64(e.Total), Member: string(member)}).Err(); err != nil {
		return fmt.Errorf("adding leaderboard entry: %w", err)
	}
	return nil
}

func (l *RedisLeaderboard) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	members, err := l.client.ZRevRange(ctx, l.key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for _, m := range members {
		var e LeaderboardEntry
		if err := json.Unmarshal([]byte(m), &e); err != nil {
			return nil, fmt.Errorf("decoding leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Check implements health.Checker.
func (l *RedisLeaderboard) Check(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
