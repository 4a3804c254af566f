// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line represents one product in the cart
type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns unit price times quantity
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals represents calculated cart totals
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"` // Sum of all quantities
}

// Snapshot is an immutable copy of the cart taken at a point in time
type Snapshot struct {
	Lines      []Line    `json:"lines"`
	Totals     Totals    `json:"totals"`
	CapturedAt time.Time `json:"captured_at"`
}

// IsEmpty reports whether the snapshot has no lines
func (s *Snapshot) IsEmpty() bool {
	return s == nil || len(s.Lines) == 0
}
