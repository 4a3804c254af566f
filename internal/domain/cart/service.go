// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	ErrCustomerRequired = errors.New("customer session is required")
	ErrInvalidPrice     = errors.New("unit price must be positive")
	ErrProductRequired  = errors.New("product id is required")
)

// Service handles cart business logic for every customer session
type Service struct {
	repo  Repository
	locks sync.Map // customerID -> *sync.Mutex
}

// NewService creates a new cart service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddLineRequest represents add to cart request
type AddLineRequest struct {
	ProductID   string          `json:"product_id" binding:"required"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	MaxQuantity int             `json:"max_quantity"` // Stock ceiling supplied by the catalog
}

// UpdateQuantityRequest represents update cart item request
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Get returns the customer's cart
func (s *Service) Get(ctx context.Context, customerID string) (*Snapshot, error) {
	if customerID == "" {
		return nil, ErrCustomerRequired
	}
	store, err := s.repo.Load(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return store.Snapshot(), nil
}

// Snapshot is Get under the name the checkout orchestrator uses
func (s *Service) Snapshot(ctx context.Context, customerID string) (*Snapshot, error) {
	return s.Get(ctx, customerID)
}

// AddLine adds one unit of a product. clamped reports that the stock ceiling was hit.
func (s *Service) AddLine(ctx context.Context, customerID string, req *AddLineRequest) (snapshot *Snapshot, clamped bool, err error) {
	if req.ProductID == "" {
		return nil, false, ErrProductRequired
	}
	if !req.UnitPrice.IsPositive() {
		return nil, false, ErrInvalidPrice
	}

	err = s.mutate(ctx, customerID, func(store *Store) {
		clamped = store.AddLine(req.ProductID, req.Name, req.UnitPrice, req.MaxQuantity)
	})
	if err != nil {
		return nil, false, err
	}
	snapshot, err = s.Get(ctx, customerID)
	return snapshot, clamped, err
}

// SetQuantity updates a line; zero or less removes it
func (s *Service) SetQuantity(ctx context.Context, customerID, productID string, quantity int) (*Snapshot, error) {
	err := s.mutate(ctx, customerID, func(store *Store) {
		store.SetQuantity(productID, quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, customerID)
}

// RemoveLine removes a product from the cart
func (s *Service) RemoveLine(ctx context.Context, customerID, productID string) (*Snapshot, error) {
	err := s.mutate(ctx, customerID, func(store *Store) {
		store.RemoveLine(productID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, customerID)
}

// Clear removes all items from the cart
func (s *Service) Clear(ctx context.Context, customerID string) error {
	return s.mutate(ctx, customerID, func(store *Store) {
		store.Clear()
	})
}

func (s *Service) mutate(ctx context.Context, customerID string, fn func(*Store)) error {
	if customerID == "" {
		return ErrCustomerRequired
	}

	mu := s.lockFor(customerID)
	mu.Lock()
	defer mu.Unlock()

	store, err := s.repo.Load(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	fn(store)

	if err := s.repo.Save(ctx, customerID, store); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *Service) lockFor(customerID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(customerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
