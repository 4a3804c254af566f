// internal/domain/cart/repository.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Repository loads and saves a customer's cart
type Repository interface {
	Load(ctx context.Context, customerID string) (*Store, error)
	Save(ctx context.Context, customerID string, store *Store) error
	Delete(ctx context.Context, customerID string) error
}

// RedisRepository keeps carts as JSON blobs in Redis
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository creates a Redis-backed cart repository
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{
		client: client,
		ttl:    ttl,
	}
}

// Load returns the stored cart, or an empty one when none exists
func (r *RedisRepository) Load(ctx context.Context, customerID string) (*Store, error) {
	data, err := r.client.Get(ctx, cartKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	store := NewStore()
	if err := json.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return store, nil
}

// Save writes the cart and refreshes its expiry
func (r *RedisRepository) Save(ctx context.Context, customerID string, store *Store) error {
	data, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(customerID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete removes the stored cart
func (r *RedisRepository) Delete(ctx context.Context, customerID string) error {
	if err := r.client.Del(ctx, cartKey(customerID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(customerID string) string {
	return fmt.Sprintf("cart:session:%s", customerID)
}

// MemoryRepository keeps carts in process memory
type MemoryRepository struct {
	mu    sync.Mutex
	carts map[string][]byte
}

// NewMemoryRepository creates an in-memory cart repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string][]byte)}
}

// Load returns a copy of the stored cart
func (m *MemoryRepository) Load(_ context.Context, customerID string) (*Store, error) {
	m.mu.Lock()
	data, ok := m.carts[customerID]
	m.mu.Unlock()

	store := NewStore()
	if !ok {
		return store, nil
	}
	if err := json.Unmarshal(data, store); err != nil {
		return nil, err
	}
	return store, nil
}

// Save stores a serialized copy so later mutations do not leak in
func (m *MemoryRepository) Save(_ context.Context, customerID string, store *Store) error {
	data, err := json.Marshal(store)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.carts[customerID] = data
	m.mu.Unlock()
	return nil
}

// Delete removes the stored cart
func (m *MemoryRepository) Delete(_ context.Context, customerID string) error {
	m.mu.Lock()
	delete(m.carts, customerID)
	m.mu.Unlock()
	return nil
}
