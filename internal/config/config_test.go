package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Delivery.FreeThreshold.Equal(decimal.NewFromInt(499)))
	assert.True(t, cfg.Delivery.FlatFee.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, ProviderCashfree, cfg.Payment.Provider)
	assert.Equal(t, "/create-order", cfg.OrderAPI.CreatePath)
	assert.Equal(t, "INR", cfg.Payment.Currency)
	assert.Equal(t, 2*time.Hour, cfg.Checkout.SessionTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DELIVERY_FREE_THRESHOLD", "999.50")
	t.Setenv("DELIVERY_FLAT_FEE", "60")
	t.Setenv("PAYMENT_PROVIDER", "Razorpay")
	t.Setenv("ORDER_API_BASE_URL", "http://orders.local/")
	t.Setenv("CHECKOUT_FLOW_TIMEOUT", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "999.5", cfg.Delivery.FreeThreshold.String())
	assert.Equal(t, "60", cfg.Delivery.FlatFee.String())
	assert.Equal(t, ProviderRazorpay, cfg.Payment.Provider)
	assert.Equal(t, "http://orders.local", cfg.OrderAPI.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Checkout.FlowTimeout)
}

func TestLoad_InvalidDecimalFallsBack(t *testing.T) {
	t.Setenv("DELIVERY_FLAT_FEE", "forty")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "40", cfg.Delivery.FlatFee.String())
}

func TestValidate_UnknownProvider(t *testing.T) {
	t.Setenv("PAYMENT_PROVIDER", "paypal")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown PAYMENT_PROVIDER")
}

func TestValidate_SessionTTLOutlivesFlow(t *testing.T) {
	t.Setenv("CHECKOUT_FLOW_TIMEOUT", "30m")
	t.Setenv("CHECKOUT_SESSION_TTL", "10m")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHECKOUT_SESSION_TTL")
}

func TestValidate_NegativeFee(t *testing.T) {
	t.Setenv("DELIVERY_FLAT_FEE", "-1")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate_ProductionRequiresCredentials(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PAYMENT_PROVIDER", "razorpay")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RAZORPAY_KEY_ID")

	t.Setenv("RAZORPAY_KEY_ID", "rzp_live_x")
	t.Setenv("RAZORPAY_KEY_SECRET", "secret")
	_, err = Load()
	require.NoError(t, err)
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
}
