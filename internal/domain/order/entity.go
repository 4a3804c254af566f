// internal/domain/order/entity.go
package order

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/pharmacy-checkout/internal/domain/address"
	"github.com/your-org/pharmacy-checkout/internal/domain/cart"
)

// PaymentMethod is the payment method sent to the order API
type PaymentMethod string

const (
	PaymentMethodUPI  PaymentMethod = "UPI"
	PaymentMethodCard PaymentMethod = "Card"
	PaymentMethodCOD  PaymentMethod = "COD"
)

// IsValid reports whether m is a method the order API accepts
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodUPI, PaymentMethodCard, PaymentMethodCOD:
		return true
	}
	return false
}

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Status represents the order status
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

// Order is the local record of an order the remote API accepted. It is
// built once on success and never changed afterwards.
type Order struct {
	OrderID        string          `json:"order_id"`
	UserID         int64           `json:"user_id"`
	Items          []cart.Line     `json:"items"`
	Address        address.Address `json:"address"`
	TotalAmount    decimal.Decimal `json:"total_amount"` // Items only
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Discount       decimal.Decimal `json:"discount"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	PaymentID      string          `json:"payment_id,omitempty"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// GrandTotal returns the amount payable
func (o *Order) GrandTotal() decimal.Decimal {
	return o.TotalAmount.Add(o.DeliveryCharge).Sub(o.Discount)
}

// NewPlaced builds the order record for an accepted submission
func NewPlaced(req *SubmitRequest, resp *SubmitResponse, paymentID string, now time.Time) *Order {
	lines := make([]cart.Line, len(req.Lines))
	copy(lines, req.Lines)

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}

	status := PaymentStatusSuccess
	if req.PaymentMethod == PaymentMethodCOD {
		status = PaymentStatusPending
	}

	return &Order{
		OrderID:        strconv.FormatInt(resp.OrderID, 10),
		UserID:         resp.UserID,
		Items:          lines,
		Address:        req.Address,
		TotalAmount:    subtotal,
		DeliveryCharge: req.DeliveryFee,
		Discount:       decimal.Zero,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  status,
		PaymentID:      paymentID,
		Status:         StatusPlaced,
		CreatedAt:      now.UTC(),
	}
}

// DetailRow is one (order, product) row of the detailed order listing
type DetailRow struct {
	OrderID       int64           `json:"order_id"`
	CustomerName  string          `json:"customer_name"`
	ContactNumber string          `json:"contact_number"`
	FullAddress   string          `json:"full_address"`
	PaymentMethod string          `json:"payment_method"`
	OrderedDate   string          `json:"ordered_date"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	TotalBill     decimal.Decimal `json:"total_bill"`
}
