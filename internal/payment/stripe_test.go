package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
)

func TestNewStripeProcessorValidatesKey(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StripeConfig
		wantErr bool
	}{
		{"test key in test env", StripeConfig{APIKey: "sk_test_123"}, false},
		{"restricted test key", StripeConfig{APIKey: "rk_test_123", Environment: "TEST"}, false},
		{"live key in test env", StripeConfig{APIKey: "sk_live_123"}, true},
		{"live key in live env", StripeConfig{APIKey: "sk_live_123", Environment: "live"}, false},
		{"missing key", StripeConfig{}, true},
		{"unknown env", StripeConfig{APIKey: "sk_test_123", Environment: "staging"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewStripeProcessor(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestIntentFromStripe(t *testing.T) {
	pi := &stripe.PaymentIntent{
		ID:             "pi_123",
		ClientSecret:   "pi_123_secret_abc",
		Amount:         24000,
		AmountReceived: 24000,
		Currency:       stripe.CurrencyUSD,
		Status:         stripe.PaymentIntentStatusSucceeded,
		Metadata:       map[string]string{"order_id": "42"},
	}

	intent := IntentFromStripe(pi)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, int64(24000), intent.AmountReceived)
	assert.Equal(t, "usd", intent.Currency)
	assert.Equal(t, "42", intent.OrderID)
	assert.True(t, intent.Succeeded())

	assert.Nil(t, IntentFromStripe(nil))
	assert.False(t, (*Intent)(nil).Succeeded())
}
