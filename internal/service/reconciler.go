package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/payment"
	"storefront-service/internal/util"

	"github.com/stripe/stripe-go/v84"
	"go.uber.org/zap"
)

const processorEventScope = "stripe-event"

// PaymentReconciler applies processor notifications to orders. Each event id
// is handled once; a failed event releases its claim so a redelivery retries.
type PaymentReconciler struct {
	payments *PaymentService
	guard    EventGuard
	ttl      time.Duration
	logger   *zap.Logger
}

// NewPaymentReconciler creates a new reconciler
func NewPaymentReconciler(payments *PaymentService, guard EventGuard, ttl time.Duration) *PaymentReconciler {
	return &PaymentReconciler{
		payments: payments,
		guard:    guard,
		ttl:      ttl,
		logger:   util.GetLogger(),
	}
}

// HandleEvent processes one verified processor event
func (r *PaymentReconciler) HandleEvent(ctx context.Context, event *stripe.Event) error {
	ctx, span := util.StartSpan(ctx, "PaymentReconciler.HandleEvent")
	defer span.End()

	if event.Type != stripe.EventTypePaymentIntentSucceeded {
		r.logger.Debug("Ignoring processor event", zap.String("type", string(event.Type)))
		return nil
	}

	if r.guard != nil {
		first, err := r.guard.MarkOnce(ctx, processorEventScope, event.ID, r.ttl)
		if err != nil {
			return apperr.Wrap(apperr.CodeInternal, err, "check event idempotency")
		}
		if !first {
			r.logger.Info("Event already processed", zap.String("event_id", event.ID))
			return nil
		}
	}

	if err := r.handlePaymentSucceeded(ctx, event); err != nil {
		if r.guard != nil {
			if relErr := r.guard.ReleaseMark(ctx, processorEventScope, event.ID); relErr != nil {
				r.logger.Warn("Failed to release event claim", zap.String("event_id", event.ID), zap.Error(relErr))
			}
		}
		util.FailSpan(span, err)
		return err
	}
	return nil
}

func (r *PaymentReconciler) handlePaymentSucceeded(ctx context.Context, event *stripe.Event) error {
	if event.Data == nil {
		return apperr.Validation("event carries no data")
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return apperr.Validation(fmt.Sprintf("decode payment intent: %v", err))
	}

	result, err := r.payments.ReconcileIntent(ctx, payment.IntentFromStripe(&pi))
	if err != nil {
		return err
	}

	r.logger.Info("Processor event reconciled",
		zap.String("event_id", event.ID),
		zap.Int64("order_id", result.Order.ID),
		zap.Bool("applied", result.Applied))
	return nil
}
