package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"storefront-service/internal/util"

	"github.com/stripe/stripe-go/v84"
	"go.uber.org/zap"
)

const (
	testEnv = "test"
	liveEnv = "live"

	orderIDMetadataKey = "order_id"
)

var (
	errAPIKeyRequired   = errors.New("stripe api key is required")
	errInvalidStripeEnv = fmt.Errorf("stripe environment must be %q or %q", testEnv, liveEnv)
)

// StripeConfig holds the processor credentials
type StripeConfig struct {
	APIKey        string
	WebhookSecret string
	Environment   string
}

// StripeProcessor issues and verifies payment intents through Stripe
type StripeProcessor struct {
	api           *stripe.Client
	environment   string
	signingSecret string
	logger        *zap.Logger
}

// NewStripeProcessor validates the key against the environment and builds a client
func NewStripeProcessor(cfg StripeConfig) (*StripeProcessor, error) {
	env, err := normalizeEnv(cfg.Environment)
	if err != nil {
		return nil, err
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	if err := validateAPIKey(env, apiKey); err != nil {
		return nil, err
	}

	p := &StripeProcessor{
		api:           stripe.NewClient(apiKey),
		environment:   env,
		signingSecret: strings.TrimSpace(cfg.WebhookSecret),
		logger:        util.GetLogger(),
	}
	p.logger.Info("Stripe processor initialized", zap.String("environment", env))
	return p, nil
}

// SigningSecret returns the webhook signing secret
func (p *StripeProcessor) SigningSecret() string {
	if p == nil {
		return ""
	}
	return p.signingSecret
}

// Environment reports the normalized Stripe environment in use
func (p *StripeProcessor) Environment() string {
	if p == nil {
		return ""
	}
	return p.environment
}

// CreateIntent creates a card payment intent for the given amount
func (p *StripeProcessor) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	params := &stripe.PaymentIntentCreateParams{
		Amount:             stripe.Int64(req.AmountMinor),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Metadata: map[string]string{
			orderIDMetadataKey: strconv.FormatInt(req.OrderID, 10),
		},
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := p.api.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return IntentFromStripe(pi), nil
}

// RetrieveIntent loads an intent to verify its status and amount
func (p *StripeProcessor) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	pi, err := p.api.V1PaymentIntents.Retrieve(ctx, id, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}
	return IntentFromStripe(pi), nil
}

// IntentFromStripe maps a Stripe payment intent
func IntentFromStripe(pi *stripe.PaymentIntent) *Intent {
	if pi == nil {
		return nil
	}
	return &Intent{
		ID:             pi.ID,
		ClientSecret:   pi.ClientSecret,
		AmountMinor:    pi.Amount,
		AmountReceived: pi.AmountReceived,
		Currency:       string(pi.Currency),
		Status:         string(pi.Status),
		OrderID:        pi.Metadata[orderIDMetadataKey],
	}
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidStripeEnv
	}
}

func validateAPIKey(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "sk_test") || strings.HasPrefix(key, "rk_test") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a test secret key (sk_test/rk_test)", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "sk_live") || strings.HasPrefix(key, "rk_live") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a live secret key (sk_live/rk_live)", liveEnv)
	default:
		return errInvalidStripeEnv
	}
}
