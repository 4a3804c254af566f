// internal/domain/escalation/repository.go
package escalation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("escalation not found")

// Repository stores escalations
type Repository interface {
	Create(ctx context.Context, record *Record) error
	List(ctx context.Context, status Status, limit int) ([]Record, error)
	GetByReference(ctx context.Context, reference string) (*Record, error)
}

// GormRepository stores escalations in Postgres
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a gorm-backed repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Create inserts a record
func (r *GormRepository) Create(ctx context.Context, record *Record) error {
	if record.Status == "" {
		record.Status = StatusOpen
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create escalation: %w", err)
	}
	return nil
}

// List returns the newest records first, optionally filtered by status
func (r *GormRepository) List(ctx context.Context, status Status, limit int) ([]Record, error) {
	var records []Record

	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve escalations: %w", err)
	}
	return records, nil
}

// GetByReference finds a record by its support reference
func (r *GormRepository) GetByReference(ctx context.Context, reference string) (*Record, error) {
	var record Record
	result := r.db.WithContext(ctx).Where("reference = ?", reference).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve escalation: %w", result.Error)
	}
	return &record, nil
}

// MemoryRepository keeps escalations in process memory
type MemoryRepository struct {
	mu      sync.Mutex
	records []Record
	nextID  uint
}

// NewMemoryRepository creates an in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (m *MemoryRepository) Create(_ context.Context, record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.records {
		if existing.Reference == record.Reference {
			return fmt.Errorf("failed to create escalation: duplicate reference %s", record.Reference)
		}
	}

	now := time.Now().UTC()
	record.ID = m.nextID
	m.nextID++
	if record.Status == "" {
		record.Status = StatusOpen
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	m.records = append(m.records, *record)
	return nil
}

func (m *MemoryRepository) List(_ context.Context, status Status, limit int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryRepository) GetByReference(_ context.Context, reference string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.Reference == reference {
			out := r
			return &out, nil
		}
	}
	return nil, ErrNotFound
}
