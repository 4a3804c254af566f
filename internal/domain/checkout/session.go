// internal/domain/checkout/session.go
package checkout

import (
	"time"

	"github.com/your-org/pharmacy-checkout/internal/domain/address"
	"github.com/your-org/pharmacy-checkout/internal/domain/cart"
	"github.com/your-org/pharmacy-checkout/internal/domain/delivery"
	"github.com/your-org/pharmacy-checkout/internal/domain/payment"
)

// Session is one attempt to turn a cart into an order
type Session struct {
	ID               string                 `json:"id"`
	CustomerID       string                 `json:"-"`
	Phase            Phase                  `json:"phase"`
	Method           Method                 `json:"method,omitempty"`
	AddressID        string                 `json:"address_id,omitempty"`
	Address          *address.Address       `json:"address,omitempty"`
	Lines            []cart.Line            `json:"lines,omitempty"`
	Quote            *delivery.Quote        `json:"quote,omitempty"`
	Gateway          *payment.SessionHandle `json:"gateway,omitempty"`
	PaymentCompleted bool                   `json:"payment_completed"`
	PaymentID        string                 `json:"payment_id,omitempty"`
	InFlight         bool                   `json:"in_flight"`
	OrderID          string                 `json:"order_id,omitempty"`
	Notice           *Notice                `json:"notice,omitempty"`
	StartedAt        time.Time              `json:"started_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// clone returns a copy that shares nothing mutable with s
func (s *Session) clone() *Session {
	out := *s
	if s.Address != nil {
		addr := *s.Address
		out.Address = &addr
	}
	if s.Lines != nil {
		out.Lines = make([]cart.Line, len(s.Lines))
		copy(out.Lines, s.Lines)
	}
	if s.Quote != nil {
		q := *s.Quote
		out.Quote = &q
	}
	if s.Gateway != nil {
		h := *s.Gateway
		out.Gateway = &h
	}
	if s.Notice != nil {
		n := *s.Notice
		out.Notice = &n
	}
	return &out
}
