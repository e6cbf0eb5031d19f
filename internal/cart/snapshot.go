package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/redis"
)

// SnapshotStore persists cart snapshots keyed by customer ID. Load returns
// found=false for a missing snapshot so callers can distinguish an absent
// cart from a backend failure.
type SnapshotStore interface {
	Load(ctx context.Context, customerID string) ([]byte, bool, error)
	Save(ctx context.Context, customerID string, payload []byte) error
	Delete(ctx context.Context, customerID string) error
}

// RedisSnapshots stores snapshots under the cart key namespace with a TTL
// so abandoned carts age out on their own.
type RedisSnapshots struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshots(client *redis.Client, ttl time.Duration) (*RedisSnapshots, error) {
	if client == nil {
		return nil, errors.New(errors.CodeInternal, "snapshot store requires a redis client")
	}
	return &RedisSnapshots{client: client, ttl: ttl}, nil
}

func (r *RedisSnapshots) Load(ctx context.Context, customerID string) ([]byte, bool, error) {
	value, found, err := r.client.GetOptional(ctx, r.client.CartSnapshotKey(customerID))
	if err != nil || !found {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (r *RedisSnapshots) Save(ctx context.Context, customerID string, payload []byte) error {
	return r.client.Set(ctx, r.client.CartSnapshotKey(customerID), payload, r.ttl)
}

func (r *RedisSnapshots) Delete(ctx context.Context, customerID string) error {
	return r.client.Del(ctx, r.client.CartSnapshotKey(customerID))
}

func encodeSnapshot(snapshot Snapshot) ([]byte, error) {
	return json.Marshal(snapshot)
}

// decodeSnapshot parses a persisted payload. Any parse failure yields an
// empty snapshot and an error so the caller can log and start fresh
// instead of refusing the session.
func decodeSnapshot(payload []byte) (Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return Snapshot{}, errors.Wrap(errors.CodeInternal, err, "decode cart snapshot")
	}
	return snapshot, nil
}
