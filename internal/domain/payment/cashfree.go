// internal/domain/payment/cashfree.go
package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-checkout/internal/config"
	"github.com/your-org/pharmacy-checkout/internal/pkg/httpclient"
)

const maxCustomerIDLength = 50

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)
	whitespace      = regexp.MustCompile(`\s+`)
)

// Cashfree is the session-token gateway: the server obtains a
// payment_session_id that the drop-in widget is opened with.
type Cashfree struct {
	currency      string
	defaultPhone  string
	defaultEmail  string
	widgetTimeout time.Duration
	client        *httpclient.Client
	widget        Widget
	logger        logrus.FieldLogger
	now           func() time.Time
}

// NewCashfree creates a Cashfree gateway
func NewCashfree(cfg config.PaymentConfig, widget Widget, logger logrus.FieldLogger) *Cashfree {
	return &Cashfree{
		currency:      cfg.Currency,
		defaultPhone:  cfg.Cashfree.DefaultPhone,
		defaultEmail:  cfg.Cashfree.DefaultEmail,
		widgetTimeout: cfg.WidgetTimeout,
		client: httpclient.New(cfg.Cashfree.BaseURL, 30*time.Second,
			httpclient.WithHeader("x-client-id", cfg.Cashfree.AppID),
			httpclient.WithHeader("x-client-secret", cfg.Cashfree.SecretKey),
			httpclient.WithHeader("x-api-version", cfg.Cashfree.APIVersion),
		),
		widget: widget,
		logger: logger,
		now:    time.Now,
	}
}

type cashfreeCustomer struct {
	CustomerID    string `json:"customer_id"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
}

type cashfreeOrderRequest struct {
	OrderID         string           `json:"order_id"`
	OrderAmount     float64          `json:"order_amount"`
	OrderCurrency   string           `json:"order_currency"`
	CustomerDetails cashfreeCustomer `json:"customer_details"`
}

type cashfreeOrder struct {
	CFOrderID        interface{} `json:"cf_order_id"`
	OrderID          string      `json:"order_id"`
	OrderStatus      string      `json:"order_status"`
	PaymentSessionID string      `json:"payment_session_id"`
	Message          string      `json:"message"`
}

// Name implements Gateway
func (c *Cashfree) Name() string {
	return config.ProviderCashfree
}

// CreateSession creates a Cashfree order and returns its payment session
func (c *Cashfree) CreateSession(ctx context.Context, amount decimal.Decimal, customer Customer) (*SessionHandle, error) {
	now := c.now()
	req := cashfreeOrderRequest{
		OrderID:       fmt.Sprintf("order_%d", now.UnixMilli()),
		OrderAmount:   amount.Round(2).InexactFloat64(),
		OrderCurrency: c.currency,
		CustomerDetails: cashfreeCustomer{
			CustomerID:    CashfreeCustomerID(customer.Name, now),
			CustomerPhone: firstNonEmpty(customer.Phone, c.defaultPhone),
			CustomerEmail: firstNonEmpty(customer.Email, c.defaultEmail),
			CustomerName:  firstNonEmpty(customer.Name, "Customer"),
		},
	}

	var order cashfreeOrder
	if err := c.client.DoJSON(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, sessionError(c.Name(), err)
	}
	if order.PaymentSessionID == "" {
		c.logger.WithFields(logrus.Fields{
			"gateway":  c.Name(),
			"order_id": order.OrderID,
		}).Error("No payment_session_id in provider response")
		msg := order.Message
		if msg == "" {
			msg = "Cashfree did not return a payment session"
		}
		return nil, &SessionError{Provider: c.Name(), Message: msg}
	}

	orderRef := order.OrderID
	if orderRef == "" {
		orderRef = req.OrderID
	}

	c.logger.WithFields(logrus.Fields{
		"gateway":  c.Name(),
		"order_id": orderRef,
	}).Info("Payment session created")

	return &SessionHandle{
		Provider:   c.Name(),
		Token:      order.PaymentSessionID,
		OrderRef:   orderRef,
		Amount:     amount.Round(2),
		Currency:   c.currency,
		CustomerID: customer.ID,
	}, nil
}

// PresentCheckout waits for the widget, then confirms with the provider that
// the order is actually paid.
func (c *Cashfree) PresentCheckout(ctx context.Context, handle *SessionHandle) Outcome {
	ctx, cancel := withWidgetTimeout(ctx, c.widgetTimeout)
	defer cancel()

	return present(ctx, c.widget, handle, func(res *WidgetResult) Outcome {
		var order cashfreeOrder
		path := "/orders/" + url.PathEscape(handle.OrderRef)
		if err := c.client.DoJSON(ctx, http.MethodGet, path, nil, &order); err != nil {
			c.logger.WithError(err).WithField("order_id", handle.OrderRef).Error("Failed to confirm payment status")
			return Failed("could not confirm payment status")
		}

		switch order.OrderStatus {
		case "PAID":
			paymentID := res.PaymentID
			if paymentID == "" && order.CFOrderID != nil {
				paymentID = fmt.Sprint(order.CFOrderID)
			}
			return Completed(paymentID)
		case "ACTIVE":
			return Failed("Payment was not completed.")
		default:
			return Failed(fmt.Sprintf("payment %s", strings.ToLower(order.OrderStatus)))
		}
	})
}

// CashfreeCustomerID derives the alphanumeric customer id Cashfree accepts
// from a display name, falling back to cust<unix ms>.
func CashfreeCustomerID(name string, now time.Time) string {
	id := whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	id = nonAlphanumeric.ReplaceAllString(strings.ToLower(id), "")
	if id == "" {
		id = fmt.Sprintf("cust%d", now.UnixMilli())
	}
	if len(id) > maxCustomerIDLength {
		id = id[:maxCustomerIDLength]
	}
	return id
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
