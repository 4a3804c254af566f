// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-checkout/internal/domain/address"
	"github.com/your-org/pharmacy-checkout/internal/domain/cart"
	"github.com/your-org/pharmacy-checkout/internal/domain/delivery"
	"github.com/your-org/pharmacy-checkout/internal/domain/escalation"
	"github.com/your-org/pharmacy-checkout/internal/domain/order"
	"github.com/your-org/pharmacy-checkout/internal/domain/payment"
	"github.com/your-org/pharmacy-checkout/internal/pkg/metrics"
)

// CartReader gives the orchestrator the customer's cart
type CartReader interface {
	Snapshot(ctx context.Context, customerID string) (*cart.Snapshot, error)
	Clear(ctx context.Context, customerID string) error
}

// AddressReader gives the orchestrator the selected delivery address
type AddressReader interface {
	Selected(ctx context.Context, customerID string) (*address.Address, error)
}

// OrderSubmitter records an order remotely
type OrderSubmitter interface {
	Submit(ctx context.Context, req *order.SubmitRequest) (*order.SubmitResponse, error)
}

// EscalationRecorder stores paid-but-unrecorded orders
type EscalationRecorder interface {
	Create(ctx context.Context, record *escalation.Record) error
}

// Deps are the collaborators of Service
type Deps struct {
	Cart              CartReader
	Addresses         AddressReader
	Pricing           delivery.Pricing
	Gateway           payment.Gateway
	Orders            OrderSubmitter
	Escalations       EscalationRecorder
	Metrics           *metrics.Registry
	Logger            logrus.FieldLogger
	SubmissionTimeout time.Duration
	SessionTTL        time.Duration // Idle sessions and last orders older than this are swept
}

// Result is a finished Confirm
type Result struct {
	Session *Session     `json:"session"`
	Order   *order.Order `json:"order,omitempty"`
	Notice  Notice       `json:"notice"`
}

// encodePayload serializes the intended order for the escalation record
var encodePayload = json.Marshal

// Service drives checkout sessions, one per customer. The mutex guards the
// session maps only and is never held across a network call.
//
// Sessions are discarded on cancellation, after a successful session has been
// read once through Current, and by Sweep once idle for SessionTTL.
type Service struct {
	deps Deps
	now  func() time.Time

	mu         sync.Mutex
	sessions   map[string]*Session
	lastOrders map[string]*order.Order
}

// NewService creates a checkout orchestrator
func NewService(deps Deps) *Service {
	if deps.SubmissionTimeout <= 0 {
		deps.SubmissionTimeout = 45 * time.Second
	}
	if deps.SessionTTL <= 0 {
		deps.SessionTTL = 2 * time.Hour
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Service{
		deps:       deps,
		now:        time.Now,
		sessions:   make(map[string]*Session),
		lastOrders: make(map[string]*order.Order),
	}
}

// Begin starts a new session in the cart phase, replacing any session that
// is not being submitted.
func (s *Service) Begin(ctx context.Context, customerID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[customerID]; ok && (existing.InFlight || existing.Phase == PhaseSubmitting) {
		return nil, ErrCheckoutInProgress
	}

	now := s.now().UTC()
	session := &Session{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Phase:      PhaseCart,
		StartedAt:  now,
		UpdatedAt:  now,
	}
	s.sessions[customerID] = session

	s.log(session).Info("Checkout started")
	return session.clone(), nil
}

// ProceedToAddress moves cart -> address when the cart has lines
func (s *Service) ProceedToAddress(ctx context.Context, customerID string) (*Session, error) {
	if _, err := s.expectPhase(customerID, PhaseCart); err != nil {
		return nil, err
	}

	snapshot, err := s.deps.Cart.Snapshot(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if snapshot.IsEmpty() {
		return nil, ErrNoCartLines
	}

	return s.transition(customerID, PhaseCart, PhaseAddress, nil)
}

// ProceedToPayment moves address -> payment when a valid address is
// selected, and prices the order.
func (s *Service) ProceedToPayment(ctx context.Context, customerID string) (*Session, error) {
	if _, err := s.expectPhase(customerID, PhaseAddress); err != nil {
		return nil, err
	}

	selected, err := s.selectedAddress(ctx, customerID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.deps.Cart.Snapshot(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if snapshot.IsEmpty() {
		return nil, ErrNoCartLines
	}

	quote := s.deps.Pricing.Quote(snapshot.Totals.Subtotal)
	return s.transition(customerID, PhaseAddress, PhasePayment, func(session *Session) {
		session.AddressID = selected.ID
		session.Quote = &quote
	})
}

// Back steps back one phase: address -> cart, payment -> address
func (s *Service) Back(ctx context.Context, customerID string) (*Session, error) {
	s.mu.Lock()
	session, ok := s.sessions[customerID]
	var phase Phase
	if ok {
		phase = session.Phase
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoSession
	}

	switch phase {
	case PhaseAddress:
		return s.transition(customerID, PhaseAddress, PhaseCart, nil)
	case PhasePayment:
		return s.transition(customerID, PhasePayment, PhaseAddress, nil)
	default:
		return nil, ErrInvalidTransition
	}
}

// Cancel abandons a session in the payment phase and discards it. The
// returned view is the last one the session will have.
func (s *Service) Cancel(ctx context.Context, customerID string) (*Session, error) {
	session, err := s.transition(customerID, PhasePayment, PhaseCancelled, func(session *Session) {
		session.Notice = &Notice{Kind: NoticeInfo, Message: "Checkout cancelled."}
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if current, ok := s.sessions[customerID]; ok && current.ID == session.ID {
		delete(s.sessions, customerID)
	}
	s.mu.Unlock()

	s.deps.Metrics.CheckoutOutcome("cancelled")
	return session, nil
}

// Current returns a copy of the customer's session. A successful session is
// returned once and then discarded; the order stays available via LastOrder.
func (s *Service) Current(customerID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[customerID]
	if !ok {
		return nil, ErrNoSession
	}
	view := session.clone()
	if session.Phase == PhaseSuccess {
		delete(s.sessions, customerID)
	}
	return view, nil
}

// Sweep evicts sessions idle for longer than the session TTL and last orders
// older than it. Sessions being submitted are never evicted. It returns the
// number of sessions removed.
func (s *Service) Sweep() int {
	cutoff := s.now().UTC().Add(-s.deps.SessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.InFlight || session.Phase == PhaseSubmitting {
			continue
		}
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	for id, o := range s.lastOrders {
		if o.CreatedAt.Before(cutoff) {
			delete(s.lastOrders, id)
		}
	}
	return removed
}

// RunJanitor sweeps every interval until ctx is done
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.deps.Logger.WithField("removed", removed).Debug("Evicted idle checkout sessions")
			}
		}
	}
}

// LastOrder returns the customer's most recent successful order
func (s *Service) LastOrder(customerID string) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.lastOrders[customerID]
	if !ok {
		return nil, ErrNoOrder
	}
	out := *o
	return &out, nil
}

// Confirm places the order: payment -> submitting -> success, or back to
// payment on a recoverable failure, or failed when a captured payment could
// not be recorded. At most one Confirm runs per session; concurrent calls
// get ErrSubmissionInFlight without touching the gateway or order API.
func (s *Service) Confirm(ctx context.Context, customerID string, method Method) (*Result, error) {
	if !method.IsValid() {
		return nil, ErrInvalidMethod
	}

	if err := s.claim(customerID, method); err != nil {
		return nil, err
	}

	// Snapshot the cart and address as of confirmation
	req, quote, err := s.prepare(ctx, customerID, method)
	if err != nil {
		return s.fail(customerID, err, false)
	}

	paymentID := ""
	if method == MethodOnline {
		outcome, err := s.pay(ctx, customerID, req, quote)
		if err != nil {
			return s.fail(customerID, err, false)
		}
		paymentID = outcome.PaymentID
		s.update(customerID, func(session *Session) {
			session.PaymentCompleted = true
			session.PaymentID = paymentID
		})
	}

	return s.submit(ctx, customerID, req, paymentID)
}

// claim sets the in-flight flag and enters submitting
func (s *Service) claim(customerID string, method Method) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[customerID]
	if !ok {
		return ErrNoSession
	}
	if session.InFlight || session.Phase == PhaseSubmitting {
		return ErrSubmissionInFlight
	}
	if !CanTransitionTo(session.Phase, PhaseSubmitting) {
		return ErrInvalidTransition
	}

	session.InFlight = true
	session.Phase = PhaseSubmitting
	session.Method = method
	session.PaymentCompleted = false
	session.PaymentID = ""
	session.Gateway = nil
	session.Notice = nil
	session.UpdatedAt = s.now().UTC()

	s.log(session).Info("Checkout confirmed")
	return nil
}

func (s *Service) prepare(ctx context.Context, customerID string, method Method) (*order.SubmitRequest, delivery.Quote, error) {
	selected, err := s.selectedAddress(ctx, customerID)
	if err != nil {
		return nil, delivery.Quote{}, err
	}
	snapshot, err := s.deps.Cart.Snapshot(ctx, customerID)
	if err != nil {
		return nil, delivery.Quote{}, fmt.Errorf("failed to load cart: %w", err)
	}
	if snapshot.IsEmpty() {
		return nil, delivery.Quote{}, ErrNoCartLines
	}

	quote := s.deps.Pricing.Quote(snapshot.Totals.Subtotal)
	s.update(customerID, func(session *Session) {
		session.AddressID = selected.ID
		session.Address = selected
		session.Lines = snapshot.Lines
		session.Quote = &quote
	})

	paymentMethod := order.PaymentMethodCOD
	if method == MethodOnline {
		paymentMethod = order.PaymentMethodCard
	}

	return &order.SubmitRequest{
		Address:       *selected,
		Lines:         snapshot.Lines,
		DeliveryFee:   quote.DeliveryFee,
		PaymentMethod: paymentMethod,
	}, quote, nil
}

// pay runs the hosted checkout for the snapshot total
func (s *Service) pay(ctx context.Context, customerID string, req *order.SubmitRequest, quote delivery.Quote) (payment.Outcome, error) {
	gateway := s.deps.Gateway
	total := quote.Total

	started := time.Now()
	handle, err := gateway.CreateSession(ctx, total, payment.Customer{
		ID:    customerID,
		Name:  req.Address.FullName,
		Phone: req.Address.Phone,
	})
	s.deps.Metrics.GatewaySession(gateway.Name(), time.Since(started), err)
	if err != nil {
		return payment.Outcome{}, &GatewaySessionError{Err: err}
	}

	s.update(customerID, func(session *Session) {
		session.Gateway = handle
	})

	outcome := gateway.PresentCheckout(ctx, handle)
	s.deps.Logger.WithFields(logrus.Fields{
		"customer": customerID,
		"gateway":  gateway.Name(),
		"outcome":  outcome.Status,
	}).Info("Payment widget closed")

	switch outcome.Status {
	case payment.StatusCompleted:
		return outcome, nil
	case payment.StatusCancelled:
		return outcome, ErrGatewayCancelled
	default:
		return outcome, &GatewayFailedError{Reason: outcome.Reason}
	}
}

// submit sends the order exactly once. The call is detached from ctx so a
// client disconnect cannot abandon it halfway.
func (s *Service) submit(ctx context.Context, customerID string, req *order.SubmitRequest, paymentID string) (*Result, error) {
	subCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.deps.SubmissionTimeout)
	defer cancel()

	resp, err := s.deps.Orders.Submit(subCtx, req)
	s.deps.Metrics.OrderSubmission(err)
	if err != nil {
		paid := paymentID != "" || s.paymentCompleted(customerID)
		if !paid {
			return s.fail(customerID, &OrderSubmissionError{Err: err}, false)
		}
		return s.fail(customerID, s.escalate(subCtx, customerID, req, paymentID, err), true)
	}

	placed := order.NewPlaced(req, resp, paymentID, s.now())
	if err := s.deps.Cart.Clear(subCtx, customerID); err != nil {
		s.deps.Logger.WithError(err).WithField("customer", customerID).Warn("Failed to clear cart after order")
	}

	notice := SuccessNotice(placed.OrderID)
	s.mu.Lock()
	session := s.sessions[customerID]
	session.Phase = PhaseSuccess
	session.InFlight = false
	session.OrderID = placed.OrderID
	session.Notice = &notice
	session.UpdatedAt = s.now().UTC()
	s.lastOrders[customerID] = placed
	view := session.clone()
	s.mu.Unlock()

	s.deps.Metrics.CheckoutOutcome("success")
	s.log(view).WithField("order_id", placed.OrderID).Info("Order placed")

	return &Result{Session: view, Order: placed, Notice: notice}, nil
}

// escalate records a captured payment whose order was not recorded
func (s *Service) escalate(ctx context.Context, customerID string, req *order.SubmitRequest, paymentID string, cause error) error {
	reference := escalation.NewReference()

	s.mu.Lock()
	session := s.sessions[customerID]
	var handle payment.SessionHandle
	if session.Gateway != nil {
		handle = *session.Gateway
	}
	s.mu.Unlock()

	logger := s.deps.Logger.WithFields(logrus.Fields{
		"customer":  customerID,
		"reference": reference,
		"gateway":   handle.Provider,
		"payment":   paymentID,
	})

	payload, err := encodePayload(req)
	if err != nil {
		logger.WithError(err).Error("Failed to encode escalation payload")
	}
	record := &escalation.Record{
		Reference:       reference,
		CustomerID:      customerID,
		Gateway:         handle.Provider,
		GatewayOrderRef: handle.OrderRef,
		PaymentID:       paymentID,
		Amount:          handle.Amount,
		Currency:        handle.Currency,
		Payload:         string(payload),
		Reason:          cause.Error(),
	}

	if s.deps.Escalations != nil {
		if err := s.deps.Escalations.Create(ctx, record); err != nil {
			logger.WithError(err).Error("Failed to store escalation")
		}
	}
	s.deps.Metrics.Escalation()
	logger.WithError(cause).Error("Payment captured but order not recorded")

	return &OrderSubmissionError{PaymentCompleted: true, Reference: reference, Err: cause}
}

// fail ends a Confirm. terminal sessions go to failed; everything else
// returns to payment so the customer can try again.
func (s *Service) fail(customerID string, err error, terminal bool) (*Result, error) {
	notice := NoticeFor(err)

	s.mu.Lock()
	session := s.sessions[customerID]
	session.InFlight = false
	if terminal {
		session.Phase = PhaseFailed
	} else {
		session.Phase = PhasePayment
	}
	session.Notice = &notice
	session.UpdatedAt = s.now().UTC()
	view := session.clone()
	s.mu.Unlock()

	result := "retry"
	switch {
	case terminal:
		result = "escalated"
	case errors.Is(err, ErrGatewayCancelled):
		result = "payment_cancelled"
	}
	s.deps.Metrics.CheckoutOutcome(result)
	s.log(view).WithError(err).Warn("Checkout attempt did not complete")

	return &Result{Session: view, Notice: notice}, err
}

func (s *Service) selectedAddress(ctx context.Context, customerID string) (*address.Address, error) {
	selected, err := s.deps.Addresses.Selected(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load address book: %w", err)
	}
	if selected == nil {
		return nil, ErrNoAddressSelected
	}
	if err := address.Validate(selected.Fields()); err != nil {
		return nil, ErrNoAddressSelected
	}
	return selected, nil
}

func (s *Service) expectPhase(customerID string, phase Phase) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[customerID]
	if !ok {
		return nil, ErrNoSession
	}
	if session.Phase != phase {
		return nil, ErrInvalidTransition
	}
	return session.clone(), nil
}

// transition moves from -> to if the session is still in from
func (s *Service) transition(customerID string, from, to Phase, fn func(*Session)) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[customerID]
	if !ok {
		return nil, ErrNoSession
	}
	if session.Phase != from || !CanTransitionTo(from, to) {
		return nil, ErrInvalidTransition
	}

	session.Phase = to
	session.Notice = nil
	if fn != nil {
		fn(session)
	}
	session.UpdatedAt = s.now().UTC()

	s.log(session).WithField("from", from).Debug("Checkout phase changed")
	return session.clone(), nil
}

func (s *Service) update(customerID string, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[customerID]; ok {
		fn(session)
		session.UpdatedAt = s.now().UTC()
	}
}

func (s *Service) paymentCompleted(customerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[customerID]
	return ok && session.PaymentCompleted
}

func (s *Service) log(session *Session) *logrus.Entry {
	return s.deps.Logger.WithFields(logrus.Fields{
		"customer": session.CustomerID,
		"session":  session.ID,
		"phase":    session.Phase,
		"method":   session.Method,
	})
}
