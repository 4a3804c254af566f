// internal/domain/checkout/errors.go
package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrNoSession          = errors.New("no checkout in progress")
	ErrNoCartLines        = errors.New("cart is empty, nothing to checkout")
	ErrNoAddressSelected  = errors.New("no valid delivery address selected")
	ErrInvalidTransition  = errors.New("illegal transition of checkout phase")
	ErrInvalidMethod      = errors.New("unknown payment method")
	ErrSubmissionInFlight = errors.New("order submission already in progress")
	ErrCheckoutInProgress = errors.New("a checkout is being submitted")
	ErrGatewayCancelled   = errors.New("payment cancelled")
	ErrNoOrder            = errors.New("no completed order")
)

// GatewaySessionError means the payment provider did not hand out a session
type GatewaySessionError struct {
	Err error
}

func (e *GatewaySessionError) Error() string {
	return fmt.Sprintf("failed to start payment: %v", e.Err)
}

func (e *GatewaySessionError) Unwrap() error {
	return e.Err
}

// GatewayFailedError means the customer tried to pay and the payment failed
type GatewayFailedError struct {
	Reason string
}

func (e *GatewayFailedError) Error() string {
	return "payment failed: " + e.Reason
}

// OrderSubmissionError means the order API did not record the order.
// PaymentCompleted separates the retryable case from the one that needs
// support to reconcile a captured payment.
type OrderSubmissionError struct {
	PaymentCompleted bool
	Reference        string
	Err              error
}

func (e *OrderSubmissionError) Error() string {
	if e.PaymentCompleted {
		return fmt.Sprintf("order not recorded after payment (reference %s): %v", e.Reference, e.Err)
	}
	return fmt.Sprintf("order submission failed: %v", e.Err)
}

func (e *OrderSubmissionError) Unwrap() error {
	return e.Err
}
