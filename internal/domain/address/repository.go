// internal/domain/address/repository.go
package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Repository loads and saves a customer's address book
type Repository interface {
	Load(ctx context.Context, customerID string) (*Book, error)
	Save(ctx context.Context, customerID string, book *Book) error
}

// RedisRepository keeps address books as JSON in Redis
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository creates a Redis-backed address repository
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

// Load returns the stored book, or an empty one
func (r *RedisRepository) Load(ctx context.Context, customerID string) (*Book, error) {
	data, err := r.client.Get(ctx, bookKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewBook(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	book := NewBook()
	if err := json.Unmarshal(data, book); err != nil {
		return nil, fmt.Errorf("unmarshal address book failed: %w", err)
	}
	return book, nil
}

// Save writes the book and refreshes its expiry
func (r *RedisRepository) Save(ctx context.Context, customerID string, book *Book) error {
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshal address book failed: %w", err)
	}
	if err := r.client.Set(ctx, bookKey(customerID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func bookKey(customerID string) string {
	return fmt.Sprintf("address:session:%s", customerID)
}

// MemoryRepository keeps address books in process memory
type MemoryRepository struct {
	mu    sync.Mutex
	books map[string][]byte
}

// NewMemoryRepository creates an in-memory address repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{books: make(map[string][]byte)}
}

func (m *MemoryRepository) Load(_ context.Context, customerID string) (*Book, error) {
	m.mu.Lock()
	data, ok := m.books[customerID]
	m.mu.Unlock()

	book := NewBook()
	if !ok {
		return book, nil
	}
	if err := json.Unmarshal(data, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (m *MemoryRepository) Save(_ context.Context, customerID string, book *Book) error {
	data, err := json.Marshal(book)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.books[customerID] = data
	m.mu.Unlock()
	return nil
}
