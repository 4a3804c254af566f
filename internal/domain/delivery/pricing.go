// internal/domain/delivery/pricing.go
package delivery

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/pharmacy-checkout/internal/config"
)

// Pricing computes the delivery fee for an order subtotal
type Pricing struct {
	FreeThreshold decimal.Decimal
	FlatFee       decimal.Decimal
}

// Quote is a priced order: subtotal, delivery fee and the amount payable
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// NewPricing creates pricing from the delivery configuration
func NewPricing(cfg config.DeliveryConfig) Pricing {
	return Pricing{
		FreeThreshold: cfg.FreeThreshold,
		FlatFee:       cfg.FlatFee,
	}
}

// Fee returns zero when subtotal reaches the free threshold, else the flat fee
func (p Pricing) Fee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeThreshold) {
		return decimal.Zero
	}
	return p.FlatFee
}

// Quote prices a subtotal
func (p Pricing) Quote(subtotal decimal.Decimal) Quote {
	fee := p.Fee(subtotal)
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
	}
}

// AmountToFree returns how much more must be spent for free delivery
func (p Pricing) AmountToFree(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeThreshold) {
		return decimal.Zero
	}
	return p.FreeThreshold.Sub(subtotal)
}
