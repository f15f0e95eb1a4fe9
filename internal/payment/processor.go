package payment

import "context"

// IntentSucceeded is the processor status of a captured payment intent
const IntentSucceeded = "succeeded"

// IntentRequest asks the processor for a payment intent
type IntentRequest struct {
	OrderID        int64
	AmountMinor    int64
	Currency       string
	IdempotencyKey string
}

// Intent is the processor's view of a payment intent
type Intent struct {
	ID             string
	ClientSecret   string
	AmountMinor    int64
	AmountReceived int64
	Currency       string
	Status         string
	OrderID        string
}

// Succeeded reports whether the intent captured funds
func (i *Intent) Succeeded() bool {
	return i != nil && i.Status == IntentSucceeded
}

// Processor creates and verifies payment intents
type Processor interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}
