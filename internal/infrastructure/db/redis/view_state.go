package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

const viewStateTTL = 12 * time.Hour

// ViewStateStore keeps the current view of each browser session.
// Key format: shell:<sid>
type ViewStateStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewViewStateStore(client redis.Cmdable) *ViewStateStore {
	return &ViewStateStore{client: client, ttl: viewStateTTL}
}

// Load returns the stored state, or the initial state when the session has none.
func (s *ViewStateStore) Load(ctx context.Context, sid string) (domain.ViewState, error) {
	raw, err := s.client.Get(ctx, viewStateKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.InitialViewState(), nil
	}
	if err != nil {
		return domain.InitialViewState(), fmt.Errorf("load view state: %w", err)
	}

	var state domain.ViewState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.InitialViewState(), fmt.Errorf("decode view state: %w", err)
	}
	state.View = domain.ParseView(string(state.View))
	return state, nil
}

// Save stores the state and refreshes its TTL.
func (s *ViewStateStore) Save(ctx context.Context, sid string, state domain.ViewState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode view state: %w", err)
	}
	if err := s.client.Set(ctx, viewStateKey(sid), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save view state: %w", err)
	}
	return nil
}

func viewStateKey(sid string) string {
	return "shell:" + sid
}
