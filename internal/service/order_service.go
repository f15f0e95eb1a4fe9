package service

import (
	"context"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/auth"
	"storefront-service/internal/models"
	"storefront-service/internal/money"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService turns cart lines and catalog items into payable orders
type OrderService struct {
	orders         OrderRepository
	cart           CartRepository
	medicines      MedicineRepository
	eventPublisher EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orders OrderRepository,
	cart CartRepository,
	medicines MedicineRepository,
	eventPublisher EventPublisher,
) *OrderService {
	return &OrderService{
		orders:         orders,
		cart:           cart,
		medicines:      medicines,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

func (s *OrderService) checkBuyer(p *auth.Principal) error {
	if err := requireBuyer(p); err != nil {
		reason := "forbidden_role"
		switch apperr.CodeOf(err) {
		case apperr.CodeRolePending:
			reason = "role_pending"
		case apperr.CodeValidation:
			if !p.Authenticated() {
				reason = "unauthenticated"
			}
		}
		util.OrdersRejectedTotal.WithLabelValues(reason).Inc()
		return err
	}
	return nil
}

// InitiateFromCartLine creates a pending order for one of the caller's cart
// lines. The cart line stays until the order is confirmed.
func (s *OrderService) InitiateFromCartLine(ctx context.Context, p *auth.Principal, lineID int64) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.InitiateFromCartLine")
	defer span.End()

	if err := s.checkBuyer(p); err != nil {
		return nil, err
	}

	line, err := s.cart.GetCartLine(ctx, lineID, p.Email)
	if err != nil {
		return nil, err
	}
	if line.SellerEmail == p.Email {
		util.OrdersRejectedTotal.WithLabelValues("own_item").Inc()
		return nil, apperr.Validation("cannot buy your own medicine")
	}

	order := &models.Order{
		CartLineID:  &line.ID,
		MedicineID:  line.MedicineID,
		Name:        line.Name,
		Image:       line.Image,
		Company:     line.Company,
		Category:    line.Category,
		SellerName:  line.SellerName,
		SellerEmail: line.SellerEmail,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		Discount:    line.Discount,
	}
	return s.initiate(ctx, p, order)
}

// InitiateFromMedicine creates a pending order for one unit of a catalog item
func (s *OrderService) InitiateFromMedicine(ctx context.Context, p *auth.Principal, medicineID int64) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.InitiateFromMedicine")
	defer span.End()

	if err := s.checkBuyer(p); err != nil {
		return nil, err
	}

	m, err := s.medicines.GetMedicineByID(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	if m.SellerEmail == p.Email {
		util.OrdersRejectedTotal.WithLabelValues("own_item").Inc()
		return nil, apperr.Validation("cannot buy your own medicine")
	}

	order := &models.Order{
		MedicineID:  m.ID,
		Name:        m.Name,
		Image:       m.Image,
		Company:     m.Company,
		Category:    m.Category,
		SellerName:  m.SellerName,
		SellerEmail: m.SellerEmail,
		Quantity:    1,
		UnitPrice:   money.EffectivePrice(m.Price, m.Discount),
		Discount:    m.Discount,
	}
	return s.initiate(ctx, p, order)
}

func (s *OrderService) initiate(ctx context.Context, p *auth.Principal, order *models.Order) (*models.Order, error) {
	order.CustomerName = p.DisplayName
	order.CustomerEmail = p.Email
	order.TotalAmount = money.LineTotal(order.UnitPrice, order.Quantity)
	order.OrderStatus = models.OrderStatusPending
	order.PaymentStatus = models.PaymentStatusPending
	order.Payment = decimal.Zero

	if !order.TotalAmount.IsPositive() {
		util.OrdersRejectedTotal.WithLabelValues("zero_total").Inc()
		return nil, apperr.Validation("order total must be positive")
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		util.OrdersRejectedTotal.WithLabelValues("db_error").Inc()
		return nil, err
	}

	util.OrdersInitiatedTotal.Inc()
	s.logger.Info("Order initiated",
		zap.Int64("order_id", order.ID),
		zap.String("customer", order.CustomerEmail),
		zap.String("total", order.TotalAmount.StringFixed(2)))

	event := &models.OrderInitiatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderInitiated,
			Timestamp: time.Now(),
		},
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		SellerEmail:   order.SellerEmail,
		Quantity:      order.Quantity,
		TotalAmount:   order.TotalAmount,
	}
	if s.eventPublisher != nil {
		if err := s.eventPublisher.PublishOrderInitiated(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderInitiated event", zap.Error(err))
		}
	}

	return order, nil
}

// GetOrder returns one of the caller's orders. Orders of other buyers are
// reported as missing.
func (s *OrderService) GetOrder(ctx context.Context, p *auth.Principal, orderID int64) (*models.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !p.IsSelf(order.CustomerEmail) {
		return nil, apperr.NotFound("order not found")
	}
	return order, nil
}
