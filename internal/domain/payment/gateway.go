// internal/domain/payment/gateway.go
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-checkout/internal/config"
)

// CancelledByUserReason is the failure reason the hosted widget reports when
// the customer closes it; it counts as a cancellation, not a failure.
const CancelledByUserReason = "Payment cancelled by user"

// Status is the normalized result of presenting a hosted checkout
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Outcome is what the customer did in the hosted checkout
type Outcome struct {
	Status    Status `json:"status"`
	Reason    string `json:"reason,omitempty"`
	PaymentID string `json:"payment_id,omitempty"`
}

// Completed builds a completed outcome
func Completed(paymentID string) Outcome {
	return Outcome{Status: StatusCompleted, PaymentID: paymentID}
}

// Cancelled builds a cancelled outcome
func Cancelled() Outcome {
	return Outcome{Status: StatusCancelled}
}

// Failed builds a failed outcome
func Failed(reason string) Outcome {
	return Outcome{Status: StatusFailed, Reason: reason}
}

// Customer identifies the payer to the provider
type Customer struct {
	ID    string
	Name  string
	Phone string
	Email string
}

// SessionHandle is what the browser widget needs to open a checkout
type SessionHandle struct {
	Provider    string          `json:"provider"`
	Token       string          `json:"token"`
	OrderRef    string          `json:"order_ref"`
	Amount      decimal.Decimal `json:"amount"`
	MinorAmount int64           `json:"minor_amount,omitempty"`
	Currency    string          `json:"currency"`
	KeyID       string          `json:"key_id,omitempty"`
	CustomerID  string          `json:"-"`
}

// SessionError is returned when the provider does not hand out a session
type SessionError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *SessionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s session failed with status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s session failed: %s", e.Provider, e.Message)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// Gateway is a hosted payment provider
type Gateway interface {
	Name() string
	CreateSession(ctx context.Context, amount decimal.Decimal, customer Customer) (*SessionHandle, error)
	PresentCheckout(ctx context.Context, handle *SessionHandle) Outcome
}

// NewGateway returns the provider selected by configuration
func NewGateway(cfg config.PaymentConfig, widget Widget, logger logrus.FieldLogger) (Gateway, error) {
	switch cfg.Provider {
	case config.ProviderRazorpay:
		return NewRazorpay(cfg, widget, logger), nil
	case config.ProviderCashfree:
		return NewCashfree(cfg, widget, logger), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}

// present opens the widget and maps its result onto an Outcome. verify is
// called only for a success report.
func present(ctx context.Context, widget Widget, handle *SessionHandle, verify func(*WidgetResult) Outcome) Outcome {
	result, err := widget.Present(ctx, handle)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Failed("payment window expired")
		}
		return Failed(err.Error())
	}

	switch result.Status {
	case WidgetDismissed:
		return Cancelled()
	case WidgetFailed:
		if result.Reason == CancelledByUserReason {
			return Cancelled()
		}
		if result.Reason == "" {
			return Failed("Payment was not completed.")
		}
		return Failed(result.Reason)
	case WidgetSuccess:
		return verify(result)
	default:
		return Failed(fmt.Sprintf("unknown widget status %q", result.Status))
	}
}
