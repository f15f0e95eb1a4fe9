package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/auth"
	"storefront-service/internal/models"
	"storefront-service/internal/money"
	"storefront-service/internal/payment"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService runs the processor handshake and reconciles confirmations
type PaymentService struct {
	orders         OrderRepository
	processor      payment.Processor
	eventPublisher EventPublisher
	currency       string
	keys           IntentKeys
	keyTTL         time.Duration
	now            func() time.Time
	logger         *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	orders OrderRepository,
	processor payment.Processor,
	eventPublisher EventPublisher,
	currency string,
) *PaymentService {
	return &PaymentService{
		orders:         orders,
		processor:      processor,
		eventPublisher: eventPublisher,
		currency:       currency,
		now:            time.Now,
		logger:         util.GetLogger(),
	}
}

// WithIntentKeys remembers client idempotency keys for ttl so a retried
// intent request is not recorded or announced twice
func (s *PaymentService) WithIntentKeys(keys IntentKeys, ttl time.Duration) *PaymentService {
	s.keys = keys
	s.keyTTL = ttl
	return s
}

// IntentRequest asks for a payment intent. Amount is optional; when sent it
// must match the server computed amount in minor units.
type IntentRequest struct {
	OrderID int64  `json:"order_id" binding:"required"`
	Amount  *int64 `json:"amount,omitempty"`
	// IdempotencyKey comes from the Idempotency-Key header. Requests for the
	// same order with the same key get the same intent back.
	IdempotencyKey string `json:"-"`
}

// IntentResponse carries what the client needs to finish the card payment
type IntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// ConfirmRequest is the client's report of a completed card payment
type ConfirmRequest struct {
	TransactionID string           `json:"transactionId"`
	Payment       *decimal.Decimal `json:"payment,omitempty"`
}

// ConfirmResult is the authoritative order after Confirm. Applied is false
// when the order had already been confirmed.
type ConfirmResult struct {
	Order   *models.Order
	Applied bool
}

// Conflict describes a confirmation that found the order already confirmed.
// It is informational; the call still succeeded.
func (r *ConfirmResult) Conflict() *apperr.Error {
	if r.Applied {
		return nil
	}
	return apperr.New(apperr.CodeReconciliationConflict, "order was already confirmed")
}

// ModifiedCount mirrors the store's view of the write
func (r *ConfirmResult) ModifiedCount() int {
	if r.Applied {
		return 1
	}
	return 0
}

func (s *PaymentService) ownedOrder(ctx context.Context, p *auth.Principal, orderID int64) (*models.Order, error) {
	if !p.Authenticated() {
		return nil, apperr.Validation("sign in to continue")
	}
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !p.IsSelf(order.CustomerEmail) {
		return nil, apperr.NotFound("order not found")
	}
	return order, nil
}

// RequestPaymentIntent asks the processor for an intent covering the order
// total. Each call issues a new intent; the latest one is remembered.
func (s *PaymentService) RequestPaymentIntent(ctx context.Context, p *auth.Principal, req *IntentRequest) (*IntentResponse, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.RequestPaymentIntent")
	defer span.End()

	order, err := s.ownedOrder(ctx, p, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.IsConfirmed() {
		return nil, apperr.Validation("order is already paid")
	}

	amount := money.ToMinorUnits(order.TotalAmount)
	if req.Amount != nil && *req.Amount != amount {
		return nil, apperr.Validation("amount does not match the order total").
			WithDetails(map[string]int64{"expected": amount})
	}
	if amount <= 0 {
		util.ProcessorFailuresTotal.WithLabelValues("create_intent").Inc()
		return nil, apperr.Processor(nil, "payment amount must be positive")
	}

	processorKey, replay := s.intentKey(ctx, order.ID, req.IdempotencyKey)

	start := time.Now()
	intent, err := s.processor.CreateIntent(ctx, payment.IntentRequest{
		OrderID:        order.ID,
		AmountMinor:    amount,
		Currency:       s.currency,
		IdempotencyKey: processorKey,
	})
	util.ProcessorLatency.WithLabelValues("create_intent").Observe(time.Since(start).Seconds())
	if err != nil {
		util.ProcessorFailuresTotal.WithLabelValues("create_intent").Inc()
		util.FailSpan(span, err)
		s.logger.Warn("Payment intent creation failed", zap.Int64("order_id", order.ID), zap.Error(err))
		return nil, apperr.Processor(err, "payment processor unavailable")
	}

	resp := &IntentResponse{
		ClientSecret: intent.ClientSecret,
		Amount:       amount,
		Currency:     s.currency,
	}
	if replay {
		s.logger.Info("Payment intent request replayed",
			zap.Int64("order_id", order.ID),
			zap.String("payment_intent_id", intent.ID))
		return resp, nil
	}

	if err := s.orders.RecordPaymentIntent(ctx, order.ID, intent.ID); err != nil {
		s.logger.Warn("Failed to record payment intent", zap.Int64("order_id", order.ID), zap.Error(err))
	}
	if processorKey != "" && s.keys != nil {
		if err := s.keys.SetIdempotencyKey(ctx, processorKey, intent.ID, s.keyTTL); err != nil {
			s.logger.Warn("Failed to remember idempotency key", zap.String("key", processorKey), zap.Error(err))
		}
	}

	util.PaymentIntentsTotal.Inc()
	s.logger.Info("Payment intent issued",
		zap.Int64("order_id", order.ID),
		zap.String("payment_intent_id", intent.ID),
		zap.Int64("amount", amount))

	if s.eventPublisher != nil {
		event := &models.PaymentIntentIssuedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypePaymentIntentIssued,
				Timestamp: time.Now(),
			},
			OrderID:         order.ID,
			PaymentIntentID: intent.ID,
			AmountMinor:     amount,
			Currency:        s.currency,
		}
		if err := s.eventPublisher.PublishPaymentIntentIssued(ctx, event); err != nil {
			s.logger.Error("Failed to publish PaymentIntentIssued event", zap.Error(err))
		}
	}

	return resp, nil
}

// intentKey scopes a client key to the order. replay reports whether the key
// was already used for a successful request.
func (s *PaymentService) intentKey(ctx context.Context, orderID int64, clientKey string) (key string, replay bool) {
	if clientKey == "" {
		return "", false
	}
	key = fmt.Sprintf("intent:%d:%s", orderID, clientKey)
	if s.keys == nil {
		return key, false
	}
	seen, err := s.keys.CheckIdempotencyKey(ctx, key)
	if err != nil {
		s.logger.Warn("Idempotency key lookup failed", zap.String("key", key), zap.Error(err))
		return key, false
	}
	return key, seen
}

// Confirm reconciles a completed card payment against one of the caller's
// orders. The processor is asked whether the payment really succeeded before
// the store's conditional update runs. Confirming an already confirmed order
// succeeds without changing it.
func (s *PaymentService) Confirm(ctx context.Context, p *auth.Principal, orderID int64, req *ConfirmRequest) (*ConfirmResult, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.Confirm")
	defer span.End()

	order, err := s.ownedOrder(ctx, p, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsConfirmed() {
		s.duplicate(order, req.TransactionID)
		return &ConfirmResult{Order: order}, nil
	}
	if req.TransactionID == "" {
		return nil, apperr.Validation("transactionId is required")
	}

	start := time.Now()
	intent, err := s.processor.RetrieveIntent(ctx, req.TransactionID)
	util.ProcessorLatency.WithLabelValues("retrieve_intent").Observe(time.Since(start).Seconds())
	if err != nil {
		util.ProcessorFailuresTotal.WithLabelValues("retrieve_intent").Inc()
		util.FailSpan(span, err)
		return nil, apperr.Processor(err, "could not verify payment")
	}

	if req.Payment != nil && !req.Payment.Round(2).Equal(money.FromMinorUnits(intent.AmountReceived)) {
		return nil, apperr.Validation("payment does not match the captured amount")
	}

	return s.reconcile(ctx, order, intent)
}

// ReconcileIntent confirms the order named in a succeeded intent's metadata.
// It serves processor notifications, which carry no principal.
func (s *PaymentService) ReconcileIntent(ctx context.Context, intent *payment.Intent) (*ConfirmResult, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.ReconcileIntent")
	defer span.End()

	orderID, err := strconv.ParseInt(intent.OrderID, 10, 64)
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("payment intent %s carries no order id", intent.ID))
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsConfirmed() {
		s.duplicate(order, intent.ID)
		return &ConfirmResult{Order: order}, nil
	}

	return s.reconcile(ctx, order, intent)
}

func (s *PaymentService) reconcile(ctx context.Context, order *models.Order, intent *payment.Intent) (*ConfirmResult, error) {
	if !intent.Succeeded() {
		util.ProcessorFailuresTotal.WithLabelValues("not_succeeded").Inc()
		return nil, apperr.Processor(nil, "payment has not succeeded").
			WithDetails(map[string]string{"status": intent.Status})
	}
	if intent.OrderID != "" && intent.OrderID != strconv.FormatInt(order.ID, 10) {
		return nil, apperr.Validation("payment belongs to another order")
	}
	expected := money.ToMinorUnits(order.TotalAmount)
	if intent.AmountReceived != expected {
		return nil, apperr.Validation("captured amount does not match the order total").
			WithDetails(map[string]int64{"expected": expected, "captured": intent.AmountReceived})
	}

	confirmed, applied, err := s.orders.ConfirmOrder(ctx, store.ConfirmParams{
		OrderID:       order.ID,
		Payment:       money.FromMinorUnits(intent.AmountReceived),
		TransactionID: intent.ID,
		PaidAt:        s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("Order confirmation failed", zap.Int64("order_id", order.ID), zap.Error(err))
		return nil, err
	}
	if !applied {
		s.duplicate(confirmed, intent.ID)
		return &ConfirmResult{Order: confirmed}, nil
	}

	util.OrdersConfirmedTotal.Inc()
	s.logger.Info("Order confirmed",
		zap.Int64("order_id", confirmed.ID),
		zap.String("transaction_id", intent.ID),
		zap.String("payment", confirmed.Payment.StringFixed(2)))

	if s.eventPublisher != nil {
		event := &models.OrderConfirmedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderConfirmed,
				Timestamp: time.Now(),
			},
			OrderID:       confirmed.ID,
			CustomerEmail: confirmed.CustomerEmail,
			SellerEmail:   confirmed.SellerEmail,
			Quantity:      confirmed.Quantity,
			Payment:       confirmed.Payment,
			TransactionID: intent.ID,
		}
		if confirmed.PaymentTime != nil {
			event.PaymentTime = *confirmed.PaymentTime
		}
		if err := s.eventPublisher.PublishOrderConfirmed(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderConfirmed event", zap.Error(err))
		}
	}

	return &ConfirmResult{Order: confirmed, Applied: true}, nil
}

func (s *PaymentService) duplicate(order *models.Order, transactionID string) {
	util.DuplicateConfirmationsTotal.Inc()
	fields := []zap.Field{zap.Int64("order_id", order.ID)}
	if order.TransactionID != nil && transactionID != "" && *order.TransactionID != transactionID {
		s.logger.Warn("Confirmation for already confirmed order carries a different transaction",
			append(fields,
				zap.String("stored", *order.TransactionID),
				zap.String("received", transactionID))...)
		return
	}
	s.logger.Info("Order already confirmed", fields...)
}
