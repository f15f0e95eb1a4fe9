package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderInitiated      = "ORDER_INITIATED"
	EventTypePaymentIntentIssued = "PAYMENT_INTENT_ISSUED"
	EventTypeOrderConfirmed      = "ORDER_CONFIRMED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderInitiatedEvent published when an order is created from a cart line
type OrderInitiatedEvent struct {
	BaseEvent
	OrderID       int64           `json:"order_id"`
	CustomerEmail string          `json:"customer_email"`
	SellerEmail   string          `json:"seller_email"`
	Quantity      int             `json:"quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// PaymentIntentIssuedEvent published each time a client secret is handed out
type PaymentIntentIssuedEvent struct {
	BaseEvent
	OrderID         int64  `json:"order_id"`
	PaymentIntentID string `json:"payment_intent_id"`
	AmountMinor     int64  `json:"amount_minor"`
	Currency        string `json:"currency"`
}

// OrderConfirmedEvent published once per order when reconciliation commits
type OrderConfirmedEvent struct {
	BaseEvent
	OrderID       int64           `json:"order_id"`
	CustomerEmail string          `json:"customer_email"`
	SellerEmail   string          `json:"seller_email"`
	Quantity      int             `json:"quantity"`
	Payment       decimal.Decimal `json:"payment"`
	TransactionID string          `json:"transaction_id"`
	PaymentTime   time.Time       `json:"payment_time"`
}
