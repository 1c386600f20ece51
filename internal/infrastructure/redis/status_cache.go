package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"art-auction/internal/domain"

	"github.com/go-redis/redis/v8"
)

// stateTTL bounds staleness for pollers; the services refresh the entry on
// every committed transition or accepted bid anyway.
const stateTTL = 5 * time.Minute

// RedisStateCache serves the poll-side auction state reads. ErrCacheMiss
// tells the caller to fall through to the store.
type RedisStateCache struct {
	client *redis.Client
}

var ErrCacheMiss = fmt.Errorf("auction state not cached")

func NewRedisStateCache(client *redis.Client) *RedisStateCache {
	return &RedisStateCache{client: client}
}

func (r *RedisStateCache) SetState(ctx context.Context, state *domain.AuctionState) error {
	key := fmt.Sprintf("auction:%s:state", state.AuctionID)

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, stateTTL).Err()
}

func (r *RedisStateCache) GetState(ctx context.Context, auctionID string) (*domain.AuctionState, error) {
	key := fmt.Sprintf("auction:%s:state", auctionID)

	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var state domain.AuctionState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}
