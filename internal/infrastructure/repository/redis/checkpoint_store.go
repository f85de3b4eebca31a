package redis

import (
	"context"
	"errors"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/record"
)

const (
	defaultKeyPrefix = "match-tracker:"
	checkpointKey    = "checkpoint:live"

	// DefaultTTL bounds how long an abandoned checkpoint survives without a new event.
	DefaultTTL = 24 * time.Hour
)

// Config configures CheckpointStore.
type Config struct {
	Client    *redis.Client
	KeyPrefix string
	TTL       time.Duration
}

// CheckpointStore keeps the live match snapshot under a single Redis key.
type CheckpointStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewCheckpointStore(cfg Config) *CheckpointStore {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &CheckpointStore{
		client: cfg.Client,
		key:    prefix + checkpointKey,
		ttl:    ttl,
	}
}

func (s *CheckpointStore) Save(ctx context.Context, cp match.Checkpoint) error {
	payload, err := record.EncodeCheckpoint(cp)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, payload, s.ttl).Err(); err != nil {
		return crerr.Wrapf(err, "save checkpoint match=%s", cp.MatchID)
	}
	return nil
}

func (s *CheckpointStore) Get(ctx context.Context) (match.Checkpoint, bool, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return match.Checkpoint{}, false, nil
		}
		return match.Checkpoint{}, false, crerr.Wrap(err, "get checkpoint")
	}

	cp, err := record.DecodeCheckpoint(raw)
	if err != nil {
		return match.Checkpoint{}, false, err
	}
	return cp, true, nil
}

func (s *CheckpointStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return crerr.Wrap(err, "clear checkpoint")
	}
	return nil
}

// Ping reports whether the Redis server is reachable.
func (s *CheckpointStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
