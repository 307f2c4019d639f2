package credstore

import (
	"context"
	"encoding/json"

	"github.com/agentvoice/relay/internal/agentforce"
	"github.com/agentvoice/relay/internal/shared"
	"github.com/redis/go-redis/v9"
)

const stateKey = "agentforce:state"

// Store persists the agent client's issued token and session state across
// restarts. No TTL is applied: the remote service is the only authority on
// expiry, signalled by 401/404 responses.
type Store struct {
	redis *redis.Client
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

func (s *Store) LoadState(ctx context.Context) (agentforce.State, error) {
	data, err := s.redis.Get(ctx, stateKey).Bytes()
	if err == redis.Nil {
		return agentforce.State{}, shared.ErrNotFound
	}
	if err != nil {
		return agentforce.State{}, err
	}

	var st agentforce.State
	if err := json.Unmarshal(data, &st); err != nil {
		return agentforce.State{}, err
	}
	return st, nil
}

func (s *Store) SaveState(ctx context.Context, st agentforce.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, stateKey, data, 0).Err()
}

func (s *Store) ClearState(ctx context.Context) error {
	return s.redis.Del(ctx, stateKey).Err()
}
