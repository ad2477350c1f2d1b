package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/barekit/orbitai/pkg/ledger/consts"
	"github.com/barekit/orbitai/pkg/ledger/record"
)

// RedisLedger implements the ledger using Redis.
type RedisLedger struct {
	client *redis.Client
}

// New creates a new RedisLedger.
func New(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

// Append pushes the event onto the session's list under "ledger:session:{id}"
// and, when it carries a deployment id, stores it as that deployment's latest event.
func (l *RedisLedger) Append(ctx context.Context, e record.Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pipe := l.client.TxPipeline()
	pipe.RPush(ctx, consts.KeySessionEvents+e.SessionID, b)
	if e.DeploymentID != "" {
		pipe.Set(ctx, consts.KeyDeploymentLatest+e.DeploymentID, b, 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// History loads a session's events.
func (l *RedisLedger) History(ctx context.Context, sessionID string) ([]record.Event, error) {
	result, err := l.client.LRange(ctx, consts.KeySessionEvents+sessionID, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	events := make([]record.Event, len(result))
	for i, item := range result {
		if err := json.Unmarshal([]byte(item), &events[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event at index %d: %w", i, err)
		}
	}
	return events, nil
}

// Latest loads the newest event for deploymentID.
func (l *RedisLedger) Latest(ctx context.Context, deploymentID string) (*record.Event, error) {
	raw, err := l.client.Get(ctx, consts.KeyDeploymentLatest+deploymentID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var e record.Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &e, nil
}
