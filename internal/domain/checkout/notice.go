// internal/domain/checkout/notice.go
package checkout

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/your-org/pharmacy-checkout/internal/domain/address"
	"github.com/your-org/pharmacy-checkout/internal/domain/payment"
)

// NoticeKind tells the UI how to present a notice
type NoticeKind string

const (
	NoticeSuccess    NoticeKind = "success"
	NoticeInfo       NoticeKind = "info"
	NoticeError      NoticeKind = "error"
	NoticeEscalation NoticeKind = "escalation"
)

// Notice is the user-facing result of a checkout step
type Notice struct {
	Kind       NoticeKind `json:"kind"`
	Message    string     `json:"message"`
	Retryable  bool       `json:"retryable"`
	Reference  string     `json:"reference,omitempty"`
	HTTPStatus int        `json:"-"`
}

// EscalationMessage is shown when a payment went through but the order did not
func EscalationMessage(reference string) string {
	return fmt.Sprintf("Payment succeeded but your order was not recorded. Please contact support with reference %s.", reference)
}

// SuccessNotice is shown once an order is placed
func SuccessNotice(orderID string) Notice {
	return Notice{
		Kind:       NoticeSuccess,
		Message:    fmt.Sprintf("Order #%s placed successfully!", orderID),
		HTTPStatus: http.StatusOK,
	}
}

// NoticeFor maps a checkout error to what the customer is told
func NoticeFor(err error) Notice {
	var (
		validationErr *address.ValidationError
		sessionErr    *GatewaySessionError
		failedErr     *GatewayFailedError
		submitErr     *OrderSubmissionError
	)

	switch {
	case errors.As(err, &submitErr):
		if submitErr.PaymentCompleted {
			return Notice{
				Kind:       NoticeEscalation,
				Message:    EscalationMessage(submitErr.Reference),
				Reference:  submitErr.Reference,
				HTTPStatus: http.StatusInternalServerError,
			}
		}
		return Notice{
			Kind:       NoticeError,
			Message:    "Failed to place order. Please try again.",
			Retryable:  true,
			HTTPStatus: http.StatusBadGateway,
		}
	case errors.Is(err, ErrGatewayCancelled):
		return Notice{Kind: NoticeInfo, Message: "Payment cancelled.", Retryable: true, HTTPStatus: http.StatusOK}
	case errors.As(err, &failedErr):
		return Notice{Kind: NoticeError, Message: failedErr.Reason, Retryable: true, HTTPStatus: http.StatusPaymentRequired}
	case errors.As(err, &sessionErr):
		msg := "Could not start payment. Please try again."
		var providerErr *payment.SessionError
		if errors.As(err, &providerErr) && providerErr.Message != "" {
			msg = providerErr.Message
		}
		return Notice{Kind: NoticeError, Message: msg, Retryable: true, HTTPStatus: http.StatusBadGateway}
	case errors.As(err, &validationErr):
		return Notice{Kind: NoticeError, Message: "Please correct the highlighted address fields.", Retryable: true, HTTPStatus: http.StatusUnprocessableEntity}
	case errors.Is(err, ErrNoAddressSelected):
		return Notice{Kind: NoticeError, Message: "Please select a valid delivery address.", Retryable: true, HTTPStatus: http.StatusConflict}
	case errors.Is(err, ErrNoCartLines):
		return Notice{Kind: NoticeError, Message: "Your cart is empty.", Retryable: true, HTTPStatus: http.StatusConflict}
	case errors.Is(err, ErrSubmissionInFlight), errors.Is(err, ErrCheckoutInProgress):
		return Notice{Kind: NoticeInfo, Message: "Your order is already being placed.", HTTPStatus: http.StatusConflict}
	case errors.Is(err, ErrInvalidTransition):
		return Notice{Kind: NoticeError, Message: "This step is not available right now.", Retryable: true, HTTPStatus: http.StatusConflict}
	case errors.Is(err, ErrInvalidMethod):
		return Notice{Kind: NoticeError, Message: "Please choose a payment method.", Retryable: true, HTTPStatus: http.StatusBadRequest}
	case errors.Is(err, ErrNoSession):
		return Notice{Kind: NoticeError, Message: "No checkout in progress.", Retryable: true, HTTPStatus: http.StatusNotFound}
	default:
		return Notice{Kind: NoticeError, Message: "Something went wrong. Please try again.", Retryable: true, HTTPStatus: http.StatusInternalServerError}
	}
}
