package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"

	"github.com/shopspring/decimal"
)

// CreateOrder creates a new order
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (cart_line_id, medicine_id, name, image, company, category,
			seller_name, seller_email, customer_name, customer_email, quantity, unit_price,
			discount, total_amount, order_status, payment_status, payment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, order, query,
		order.CartLineID, order.MedicineID, order.Name, order.Image, order.Company, order.Category,
		order.SellerName, order.SellerEmail, order.CustomerName, order.CustomerEmail, order.Quantity,
		order.UnitPrice, order.Discount, order.TotalAmount, order.OrderStatus, order.PaymentStatus,
		order.Payment)
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		return nil, notFoundOr(err, "order")
	}
	return &order, nil
}

// RecordPaymentIntent remembers the latest intent issued for a pending order
func (s *Store) RecordPaymentIntent(ctx context.Context, orderID int64, intentID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE orders SET payment_intent_id = $1, updated_at = NOW()
		WHERE id = $2 AND payment_status = $3`,
		intentID, orderID, models.PaymentStatusPending)
	return err
}

// ConfirmParams carries the processor's confirmation for one order
type ConfirmParams struct {
	OrderID       int64
	Payment       decimal.Decimal
	TransactionID string
	PaidAt        time.Time
}

// ConfirmOrder moves an order to confirmed/confirmed with a single conditional
// update. applied is false when the order was already confirmed, in which case
// the stored order is returned untouched. The cart line the order came from is
// removed in the same transaction.
func (s *Store) ConfirmOrder(ctx context.Context, p ConfirmParams) (order *models.Order, applied bool, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var updated models.Order
	err = tx.GetContext(ctx, &updated, `
		UPDATE orders
		SET order_status = $1, payment_status = $2, payment = $3, transaction_id = $4,
			payment_time = $5, updated_at = NOW()
		WHERE id = $6 AND payment_status <> $2
		RETURNING *`,
		models.OrderStatusConfirmed, models.PaymentStatusConfirmed, p.Payment, p.TransactionID,
		p.PaidAt, p.OrderID)
	if errors.Is(err, sql.ErrNoRows) {
		var existing models.Order
		if err := tx.GetContext(ctx, &existing, "SELECT * FROM orders WHERE id = $1", p.OrderID); err != nil {
			return nil, false, notFoundOr(err, "order")
		}
		return &existing, false, nil
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, false, apperr.Validation("transaction id already used by another order")
		}
		return nil, false, fmt.Errorf("failed to confirm order: %w", err)
	}

	if updated.CartLineID != nil {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM cart_lines WHERE id = $1 AND owner_email = $2",
			*updated.CartLineID, updated.CustomerEmail); err != nil {
			return nil, false, fmt.Errorf("failed to remove purchased cart line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit confirmation: %w", err)
	}
	return &updated, true, nil
}

// HistoryFilter scopes a confirmed-order listing. Empty fields do not filter.
type HistoryFilter struct {
	CustomerEmail string
	SellerEmail   string
	From          *time.Time
	To            *time.Time
}

// ListConfirmedOrders retrieves confirmed orders, most recent payment first
func (s *Store) ListConfirmedOrders(ctx context.Context, f HistoryFilter) ([]models.Order, error) {
	query, args := confirmedWhere(f)
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders"+query+" ORDER BY payment_time DESC, id DESC", args...)
	return orders, err
}

// SummarizeConfirmedOrders aggregates confirmed orders
func (s *Store) SummarizeConfirmedOrders(ctx context.Context, f HistoryFilter) (*models.SalesSummary, error) {
	query, args := confirmedWhere(f)
	var summary models.SalesSummary
	err := s.db.GetContext(ctx, &summary, `
		SELECT COUNT(*) AS orders, COALESCE(SUM(quantity), 0) AS quantity,
			COALESCE(SUM(payment), 0) AS income
		FROM orders`+query, args...)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func confirmedWhere(f HistoryFilter) (string, []interface{}) {
	args := []interface{}{models.PaymentStatusConfirmed}
	where := " WHERE payment_status = $1"

	add := func(clause string, v interface{}) {
		args = append(args, v)
		where += fmt.Sprintf(" AND "+clause, len(args))
	}
	if f.CustomerEmail != "" {
		add("customer_email = $%d", f.CustomerEmail)
	}
	if f.SellerEmail != "" {
		add("seller_email = $%d", f.SellerEmail)
	}
	if f.From != nil {
		add("payment_time >= $%d", *f.From)
	}
	if f.To != nil {
		add("payment_time <= $%d", *f.To)
	}
	return where, args
}
