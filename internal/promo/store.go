package promo

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/genesis-wellness/storefront-api/internal/pricing"
)

// Store persists the promotion ledger per cart. Registration is append-only;
// pricing reads a snapshot per call.
type Store interface {
	Load(ctx context.Context, cartID string) ([]pricing.Promotion, error)
	Save(ctx context.Context, cartID string, records []pricing.Promotion) error
	Clear(ctx context.Context, cartID string) error
}

// RedisStore keeps each cart's ledger as a JSON document with a TTL matching
// the cart lifetime.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

func (s *RedisStore) key(cartID string) string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = "promo:"
	}
	return prefix + cartID
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, cartID string) ([]pricing.Promotion, error) {
	data, err := s.Client.Get(ctx, s.key(cartID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var records []pricing.Promotion
	if err := json.Unmarshal(data, &records); err != nil {
		// Corrupt ledger payloads reset to empty rather than failing pricing.
		return nil, nil
	}
	return records, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, cartID string, records []pricing.Promotion) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.key(cartID), data, s.TTL).Err()
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context, cartID string) error {
	return s.Client.Del(ctx, s.key(cartID)).Err()
}

// MemoryStore is an in-process Store used by tests.
type MemoryStore struct {
	mu      sync.Mutex
	ledgers map[string][]pricing.Promotion
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, cartID string) ([]pricing.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pricing.Promotion(nil), s.ledgers[cartID]...), nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, cartID string, records []pricing.Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledgers == nil {
		s.ledgers = make(map[string][]pricing.Promotion)
	}
	s.ledgers[cartID] = append([]pricing.Promotion(nil), records...)
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ledgers, cartID)
	return nil
}
