// internal/domain/payment/widget.go
package payment

import (
	"context"
	"errors"
	"sync"
)

var ErrUnknownSession = errors.New("no pending payment for this session")

// WidgetStatus is the raw status reported by the browser widget
type WidgetStatus string

const (
	WidgetSuccess   WidgetStatus = "success"
	WidgetDismissed WidgetStatus = "dismissed"
	WidgetFailed    WidgetStatus = "failed"
)

// WidgetResult is the callback the browser posts once the widget closes
type WidgetResult struct {
	Token     string       `json:"token" binding:"required"`
	Status    WidgetStatus `json:"status" binding:"required,oneof=success dismissed failed"`
	PaymentID string       `json:"payment_id"`
	OrderID   string       `json:"order_id"`
	Signature string       `json:"signature"`
	Reason    string       `json:"reason"`
}

// Widget shows a hosted checkout to the customer and waits for the result
type Widget interface {
	Present(ctx context.Context, handle *SessionHandle) (*WidgetResult, error)
}

type pendingPresentation struct {
	handle *SessionHandle
	result chan *WidgetResult
}

// Bridge is a Widget whose checkout runs in the customer's browser. Present
// publishes the handle to the customer's subscribers and blocks until the
// browser calls Resolve.
type Bridge struct {
	mu      sync.Mutex
	pending map[string]*pendingPresentation
	subs    map[string]map[chan *SessionHandle]struct{}
}

// NewBridge creates an empty bridge
func NewBridge() *Bridge {
	return &Bridge{
		pending: make(map[string]*pendingPresentation),
		subs:    make(map[string]map[chan *SessionHandle]struct{}),
	}
}

// Subscribe returns a channel that receives every handle presented to
// customerID until the returned cancel func is called.
func (b *Bridge) Subscribe(customerID string) (<-chan *SessionHandle, func()) {
	ch := make(chan *SessionHandle, 1)

	b.mu.Lock()
	if b.subs[customerID] == nil {
		b.subs[customerID] = make(map[chan *SessionHandle]struct{})
	}
	b.subs[customerID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[customerID], ch)
			if len(b.subs[customerID]) == 0 {
				delete(b.subs, customerID)
			}
			b.mu.Unlock()
		})
	}
}

// Present implements Widget
func (b *Bridge) Present(ctx context.Context, handle *SessionHandle) (*WidgetResult, error) {
	p := &pendingPresentation{
		handle: handle,
		result: make(chan *WidgetResult, 1),
	}

	b.mu.Lock()
	b.pending[handle.Token] = p
	for ch := range b.subs[handle.CustomerID] {
		select {
		case ch <- handle:
		default:
		}
	}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		if b.pending[handle.Token] == p {
			delete(b.pending, handle.Token)
		}
		b.mu.Unlock()
	}()

	select {
	case res := <-p.result:
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Resolve delivers the browser's result for the pending checkout of
// customerID. Each presentation resolves at most once.
func (b *Bridge) Resolve(customerID string, result *WidgetResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[result.Token]
	if !ok || p.handle.CustomerID != customerID {
		return ErrUnknownSession
	}
	delete(b.pending, result.Token)
	p.result <- result
	return nil
}

// Pending returns the handle currently awaiting a result for customerID
func (b *Bridge) Pending(customerID string) *SessionHandle {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.pending {
		if p.handle.CustomerID == customerID {
			return p.handle
		}
	}
	return nil
}
