package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kursadbilgin/feishu-order-notify/internal/activitylog"
	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const activityLogKey = "feishu_order_notify:logs"

var appendScript = goredis.NewScript(`
redis.call("LPUSH", KEYS[1], ARGV[1])
redis.call("LTRIM", KEYS[1], 0, tonumber(ARGV[2]) - 1)
redis.call("EXPIRE", KEYS[1], ARGV[3])
return redis.call("LLEN", KEYS[1])
`)

var _ activitylog.Store = (*ActivityStore)(nil)

// ActivityStore keeps the activity log in a single Redis list with a TTL.
type ActivityStore struct {
	client *goredis.Client
	key    string
	limit  int64
	ttl    time.Duration
	script *goredis.Script
}

func NewActivityStore(client *goredis.Client, limit int, ttl time.Duration) (*ActivityStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if limit <= 0 {
		limit = activitylog.DefaultLimit
	}
	if ttl < time.Second {
		ttl = activitylog.DefaultTTL
	}

	return &ActivityStore{
		client: client,
		key:    activityLogKey,
		limit:  int64(limit),
		ttl:    ttl,
		script: appendScript,
	}, nil
}

func (s *ActivityStore) Append(ctx context.Context, outcome domain.DispatchOutcome) error {
	if s == nil || s.client == nil || s.script == nil {
		return fmt.Errorf("activity store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch outcome: %w", err)
	}

	ttlSeconds := int64(s.ttl / time.Second)
	if err := s.script.Run(ctx, s.client, []string{s.key}, payload, s.limit, ttlSeconds).Err(); err != nil {
		return fmt.Errorf("failed to append activity log entry: %w", err)
	}

	return nil
}

func (s *ActivityStore) ReadAll(ctx context.Context) ([]domain.DispatchOutcome, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("activity store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	raw, err := s.client.LRange(ctx, s.key, 0, s.limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read activity log: %w", err)
	}

	outcomes := make([]domain.DispatchOutcome, 0, len(raw))
	for _, item := range raw {
		var outcome domain.DispatchOutcome
		if err := json.Unmarshal([]byte(item), &outcome); err != nil {
			continue
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

func (s *ActivityStore) Clear(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("activity store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear activity log: %w", err)
	}
	return nil
}
