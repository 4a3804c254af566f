// internal/domain/payment/razorpay.go
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-checkout/internal/config"
	"github.com/your-org/pharmacy-checkout/internal/pkg/httpclient"
)

// Razorpay is the order-object gateway: the server creates an order and the
// widget is opened with its id and the public key.
type Razorpay struct {
	keyID         string
	keySecret     string
	currency      string
	widgetTimeout time.Duration
	client        *httpclient.Client
	widget        Widget
	logger        logrus.FieldLogger
	now           func() time.Time
}

// NewRazorpay creates a Razorpay gateway
func NewRazorpay(cfg config.PaymentConfig, widget Widget, logger logrus.FieldLogger) *Razorpay {
	return &Razorpay{
		keyID:         cfg.Razorpay.KeyID,
		keySecret:     cfg.Razorpay.KeySecret,
		currency:      cfg.Currency,
		widgetTimeout: cfg.WidgetTimeout,
		client: httpclient.New(cfg.Razorpay.BaseURL, 30*time.Second,
			httpclient.WithBasicAuth(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret),
		),
		widget: widget,
		logger: logger,
		now:    time.Now,
	}
}

type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// Name implements Gateway
func (r *Razorpay) Name() string {
	return config.ProviderRazorpay
}

// CreateSession creates a Razorpay order for amount rupees, sent in paise
func (r *Razorpay) CreateSession(ctx context.Context, amount decimal.Decimal, customer Customer) (*SessionHandle, error) {
	req := razorpayOrderRequest{
		Amount:   ToPaise(amount),
		Currency: r.currency,
		Receipt:  fmt.Sprintf("rcpt_%d", r.now().UnixMilli()),
		Notes: map[string]string{
			"customer_name": customer.Name,
		},
	}

	var order razorpayOrder
	if err := r.client.DoJSON(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, sessionError(r.Name(), err)
	}
	if order.ID == "" {
		return nil, &SessionError{Provider: r.Name(), Message: "provider did not return an order id"}
	}

	r.logger.WithFields(logrus.Fields{
		"gateway":  r.Name(),
		"order_id": order.ID,
		"amount":   order.Amount,
	}).Info("Payment order created")

	return &SessionHandle{
		Provider:    r.Name(),
		Token:       order.ID,
		OrderRef:    order.ID,
		Amount:      amount,
		MinorAmount: order.Amount,
		Currency:    order.Currency,
		KeyID:       r.keyID,
		CustomerID:  customer.ID,
	}, nil
}

// PresentCheckout waits for the widget and verifies the success signature
func (r *Razorpay) PresentCheckout(ctx context.Context, handle *SessionHandle) Outcome {
	ctx, cancel := withWidgetTimeout(ctx, r.widgetTimeout)
	defer cancel()

	return present(ctx, r.widget, handle, func(res *WidgetResult) Outcome {
		if res.OrderID != handle.OrderRef {
			return Failed("payment does not belong to this order")
		}
		if !r.verifySignature(res.OrderID, res.PaymentID, res.Signature) {
			r.logger.WithFields(logrus.Fields{
				"gateway":  r.Name(),
				"order_id": res.OrderID,
			}).Warn("Payment signature mismatch")
			return Failed("payment signature verification failed")
		}
		return Completed(res.PaymentID)
	})
}

// verifySignature checks HMAC-SHA256(order_id|payment_id) against the key secret
func (r *Razorpay) verifySignature(orderID, paymentID, signature string) bool {
	if paymentID == "" || signature == "" {
		return false
	}
	expected := SignRazorpay(r.keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignRazorpay computes the signature Razorpay attaches to a successful payment
func SignRazorpay(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// ToPaise converts rupees to paise, rounding to the nearest paisa
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func withWidgetTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func sessionError(provider string, err error) error {
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fmt.Sprintf("Failed to create %s order", provider)
		}
		return &SessionError{Provider: provider, StatusCode: apiErr.StatusCode, Message: msg, Err: err}
	}
	return &SessionError{Provider: provider, Message: err.Error(), Err: err}
}
