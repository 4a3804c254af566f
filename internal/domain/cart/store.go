// internal/domain/cart/store.go
package cart

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Store holds the line items of one customer's cart.
// Totals are never cached; they are folded from the lines on every read.
type Store struct {
	lines     []Line
	updatedAt time.Time
}

// NewStore creates an empty cart store
func NewStore() *Store {
	return &Store{lines: []Line{}}
}

// AddLine adds one unit of a product, never going above maxQuantity.
// It reports clamped=true when the stock ceiling stopped the increment.
func (s *Store) AddLine(productID, name string, unitPrice decimal.Decimal, maxQuantity int) (clamped bool) {
	if i := s.indexOf(productID); i >= 0 {
		if s.lines[i].Quantity >= maxQuantity {
			if maxQuantity > 0 {
				s.lines[i].Quantity = maxQuantity
			}
			return true
		}
		s.lines[i].Quantity++
		s.lines[i].UnitPrice = unitPrice
		if name != "" {
			s.lines[i].Name = name
		}
		s.touch()
		return false
	}

	// Out of stock
	if maxQuantity < 1 {
		return true
	}

	s.lines = append(s.lines, Line{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  1,
	})
	s.touch()
	return false
}

// SetQuantity sets the quantity of an existing line; quantity <= 0 removes it.
// Stock ceilings are checked by the caller.
func (s *Store) SetQuantity(productID string, quantity int) {
	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		s.removeAt(i)
		return
	}
	s.lines[i].Quantity = quantity
	s.touch()
}

// RemoveLine removes a line unconditionally
func (s *Store) RemoveLine(productID string) {
	if i := s.indexOf(productID); i >= 0 {
		s.removeAt(i)
	}
}

// Clear empties the cart
func (s *Store) Clear() {
	s.lines = []Line{}
	s.touch()
}

// Lines returns a copy of the current lines
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of distinct products
func (s *Store) Len() int {
	return len(s.lines)
}

// Quantity returns the quantity held for a product, 0 if absent
func (s *Store) Quantity(productID string) int {
	if i := s.indexOf(productID); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

// Totals folds the lines into subtotal and item count
func (s *Store) Totals() Totals {
	totals := Totals{Subtotal: decimal.Zero}
	for _, line := range s.lines {
		totals.Subtotal = totals.Subtotal.Add(line.LineTotal())
		totals.ItemCount += line.Quantity
	}
	return totals
}

// Snapshot captures the lines and totals as of now
func (s *Store) Snapshot() *Snapshot {
	return &Snapshot{
		Lines:      s.Lines(),
		Totals:     s.Totals(),
		CapturedAt: time.Now().UTC(),
	}
}

// UpdatedAt returns the time of the last mutation
func (s *Store) UpdatedAt() time.Time {
	return s.updatedAt
}

type storeState struct {
	Items     []Line    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON implements json.Marshaler
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(storeState{Items: s.lines, UpdatedAt: s.updatedAt})
}

// UnmarshalJSON implements json.Unmarshaler. Lines with a quantity below one
// are dropped and duplicate products are merged.
func (s *Store) UnmarshalJSON(data []byte) error {
	var state storeState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}

	s.lines = make([]Line, 0, len(state.Items))
	for _, item := range state.Items {
		if item.Quantity < 1 || item.ProductID == "" {
			continue
		}
		if i := s.indexOf(item.ProductID); i >= 0 {
			s.lines[i].Quantity += item.Quantity
			continue
		}
		s.lines = append(s.lines, item)
	}
	s.updatedAt = state.UpdatedAt
	return nil
}

func (s *Store) indexOf(productID string) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.touch()
}

func (s *Store) touch() {
	s.updatedAt = time.Now().UTC()
}
