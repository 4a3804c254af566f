package checkout

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/your-org/pharmacy-checkout/internal/domain/escalation"
	"github.com/your-org/pharmacy-checkout/internal/domain/order"
	"github.com/your-org/pharmacy-checkout/internal/domain/payment"
)

// MockGateway implements payment.Gateway for testing
type MockGateway struct {
	SessionErr error
	Outcome    payment.Outcome

	sessions int32
	presents int32

	mu     sync.Mutex
	amount decimal.Decimal
}

func (m *MockGateway) Name() string {
	return "mock"
}

func (m *MockGateway) CreateSession(_ context.Context, amount decimal.Decimal, customer payment.Customer) (*payment.SessionHandle, error) {
	atomic.AddInt32(&m.sessions, 1)
	m.mu.Lock()
	m.amount = amount
	m.mu.Unlock()
	if m.SessionErr != nil {
		return nil, m.SessionErr
	}
	return &payment.SessionHandle{
		Provider:   "mock",
		Token:      "tok_1",
		OrderRef:   "order_1",
		Amount:     amount,
		Currency:   "INR",
		CustomerID: customer.ID,
	}, nil
}

func (m *MockGateway) PresentCheckout(context.Context, *payment.SessionHandle) payment.Outcome {
	atomic.AddInt32(&m.presents, 1)
	return m.Outcome
}

func (m *MockGateway) SessionCalls() int {
	return int(atomic.LoadInt32(&m.sessions))
}

func (m *MockGateway) ChargedAmount() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.amount
}

// MockOrders implements OrderSubmitter for testing. When Entered is set, Submit
// signals it and waits on Release before answering.
type MockOrders struct {
	Err      error
	OrderID  int64
	Entered  chan struct{}
	Release  chan struct{}
	calls    int32
	mu       sync.Mutex
	requests []*order.SubmitRequest
}

func (m *MockOrders) Submit(_ context.Context, req *order.SubmitRequest) (*order.SubmitResponse, error) {
	atomic.AddInt32(&m.calls, 1)
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Entered != nil {
		m.Entered <- struct{}{}
		<-m.Release
	}
	if m.Err != nil {
		return nil, m.Err
	}
	id := m.OrderID
	if id == 0 {
		id = 1042
	}
	return &order.SubmitResponse{Message: "Order created", OrderID: id, UserID: 7}, nil
}

func (m *MockOrders) Calls() int {
	return int(atomic.LoadInt32(&m.calls))
}

func (m *MockOrders) LastRequest() *order.SubmitRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// FailingEscalations implements EscalationRecorder and rejects every record
type FailingEscalations struct {
	Err   error
	calls int32
}

func (m *FailingEscalations) Create(context.Context, *escalation.Record) error {
	atomic.AddInt32(&m.calls, 1)
	return m.Err
}

func (m *FailingEscalations) Calls() int {
	return int(atomic.LoadInt32(&m.calls))
}

// logged reports whether hook captured msg at level
func logged(hook *logtest.Hook, level logrus.Level, msg string) bool {
	for _, entry := range hook.AllEntries() {
		if entry.Level == level && entry.Message == msg {
			return true
		}
	}
	return false
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
