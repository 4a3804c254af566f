package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pharmacy-checkout/internal/config"
	"github.com/your-org/pharmacy-checkout/internal/domain/address"
	"github.com/your-org/pharmacy-checkout/internal/domain/cart"
	"github.com/your-org/pharmacy-checkout/internal/domain/order"
)

func sampleOrder(fee int64) *order.Order {
	return &order.Order{
		OrderID: "1042",
		Items: []cart.Line{
			{ProductID: "7", Name: "Dolo 650", UnitPrice: decimal.RequireFromString("30.5"), Quantity: 2},
			{ProductID: "9", UnitPrice: decimal.NewFromInt(100), Quantity: 1},
		},
		Address: address.Address{
			FullName:    "Asha <Verma>",
			Phone:       "9876543210",
			AddressLine: "12 MG Road, Indiranagar",
			City:        "Bengaluru",
			State:       "Karnataka",
			Pincode:     "560038",
		},
		TotalAmount:    decimal.NewFromInt(161),
		DeliveryCharge: decimal.NewFromInt(fee),
		PaymentMethod:  order.PaymentMethodCard,
		PaymentID:      "pay_123",
		CreatedAt:      time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestRenderHTML(t *testing.T) {
	svc := NewService(config.ReceiptConfig{StoreName: "MediCare", SupportEmail: "support@medicare.in"})

	html, err := svc.RenderHTML(sampleOrder(40))

	require.NoError(t, err)
	assert.Contains(t, html, "Receipt #1042")
	assert.Contains(t, html, "MediCare")
	assert.Contains(t, html, "Dolo 650")
	assert.Contains(t, html, "Product 9")
	assert.Contains(t, html, "₹30.50")
	assert.Contains(t, html, "₹61.00")
	assert.Contains(t, html, "₹40.00")
	assert.Contains(t, html, "₹201.00")
	assert.Contains(t, html, "Card (pay_123)")
	assert.Contains(t, html, "12 MG Road, Indiranagar, Bengaluru, Karnataka - 560038")
	assert.Contains(t, html, "March 1, 2026 10:30")
	assert.Contains(t, html, "support@medicare.in")
	// Customer input is escaped
	assert.Contains(t, html, "Asha &lt;Verma&gt;")
}

func TestRenderHTML_FreeDelivery(t *testing.T) {
	svc := NewService(config.ReceiptConfig{StoreName: "MediCare"})

	html, err := svc.RenderHTML(sampleOrder(0))

	require.NoError(t, err)
	assert.Contains(t, html, "FREE")
	assert.Contains(t, html, "₹161.00")
	assert.NotContains(t, html, "Questions?")
}

func TestRenderHTML_NilOrder(t *testing.T) {
	_, err := NewService(config.ReceiptConfig{}).RenderHTML(nil)

	assert.Error(t, err)
}
