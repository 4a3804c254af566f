// internal/domain/address/service.go
package address

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrCustomerRequired = errors.New("customer session is required")

// View is the address book as returned to callers
type View struct {
	Addresses  []Address `json:"addresses"`
	SelectedID string    `json:"selected_id,omitempty"`
}

// Service handles address book operations per customer
type Service struct {
	repo  Repository
	locks sync.Map
}

// NewService creates a new address service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every address and the current selection
func (s *Service) List(ctx context.Context, customerID string) (*View, error) {
	book, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return viewOf(book), nil
}

// Selected returns the selected address, or nil when none is selected
func (s *Service) Selected(ctx context.Context, customerID string) (*Address, error) {
	book, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return book.Selected(), nil
}

// Create adds an address
func (s *Service) Create(ctx context.Context, customerID string, fields Fields) (*Address, error) {
	var created *Address
	err := s.mutate(ctx, customerID, func(book *Book) error {
		addr, err := book.Create(fields)
		created = addr
		return err
	})
	return created, err
}

// Update edits an address
func (s *Service) Update(ctx context.Context, customerID, id string, fields Fields) (*Address, error) {
	var updated *Address
	err := s.mutate(ctx, customerID, func(book *Book) error {
		addr, err := book.Update(id, fields)
		updated = addr
		return err
	})
	return updated, err
}

// Delete removes an address
func (s *Service) Delete(ctx context.Context, customerID, id string) (*View, error) {
	return s.mutateView(ctx, customerID, func(book *Book) error {
		return book.Delete(id)
	})
}

// Select chooses the address used for checkout
func (s *Service) Select(ctx context.Context, customerID, id string) (*View, error) {
	return s.mutateView(ctx, customerID, func(book *Book) error {
		return book.Select(id)
	})
}

// SetDefault marks an address as default
func (s *Service) SetDefault(ctx context.Context, customerID, id string) (*View, error) {
	return s.mutateView(ctx, customerID, func(book *Book) error {
		return book.SetDefault(id)
	})
}

func (s *Service) mutateView(ctx context.Context, customerID string, fn func(*Book) error) (*View, error) {
	var view *View
	err := s.mutate(ctx, customerID, func(book *Book) error {
		if err := fn(book); err != nil {
			return err
		}
		view = viewOf(book)
		return nil
	})
	return view, err
}

// mutate loads the book, applies fn and saves only when fn succeeds
func (s *Service) mutate(ctx context.Context, customerID string, fn func(*Book) error) error {
	if customerID == "" {
		return ErrCustomerRequired
	}

	mu, _ := s.locks.LoadOrStore(customerID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	book, err := s.load(ctx, customerID)
	if err != nil {
		return err
	}
	if err := fn(book); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, customerID, book); err != nil {
		return fmt.Errorf("failed to save address book: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, customerID string) (*Book, error) {
	if customerID == "" {
		return nil, ErrCustomerRequired
	}
	book, err := s.repo.Load(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load address book: %w", err)
	}
	return book, nil
}

func viewOf(book *Book) *View {
	return &View{Addresses: book.Addresses(), SelectedID: book.SelectedID()}
}
