package worker

import (
	"context"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesCounter keeps the live sales totals
type SalesCounter interface {
	RecordSale(ctx context.Context, orderID int64, sellerEmail string, quantity int, income decimal.Decimal, markerTTL time.Duration) (bool, error)
}

// ReportingWorker folds OrderConfirmed events into the live sales counters
type ReportingWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	counter      SalesCounter
	markerTTL    time.Duration
	logger       *zap.Logger
}

// NewReportingWorker creates a new reporting worker
func NewReportingWorker(consumer *broker.Consumer, counter SalesCounter, markerTTL time.Duration) *ReportingWorker {
	w := &ReportingWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		counter:      counter,
		markerTTL:    markerTTL,
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnOrderConfirmed(w.HandleOrderConfirmed)
	return w
}

// HandleOrderConfirmed counts one confirmed order. Redelivered events are
// absorbed by the per-order marker.
func (w *ReportingWorker) HandleOrderConfirmed(ctx context.Context, event *models.OrderConfirmedEvent) error {
	counted, err := w.counter.RecordSale(ctx, event.OrderID, event.SellerEmail, event.Quantity, event.Payment, w.markerTTL)
	if err != nil {
		return err
	}
	if !counted {
		w.logger.Debug("Sale already counted", zap.Int64("order_id", event.OrderID))
	}
	return nil
}

// Start starts the worker
func (w *ReportingWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting reporting worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ReportingWorker) Stop() error {
	w.logger.Info("Stopping reporting worker")
	return w.consumer.Close()
}
