package service

import (
	"context"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
)

// UserRepository is the account registry
type UserRepository interface {
	CreateUserIfAbsent(ctx context.Context, user *models.UserAccount) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*models.UserAccount, error)
	ListUsersByStatus(ctx context.Context, statuses ...string) ([]models.UserAccount, error)
	UpdateUserApproval(ctx context.Context, email, role, status string) (*models.UserAccount, error)
	TouchLastLogin(ctx context.Context, email string) error
}

// MedicineRepository is the catalog store
type MedicineRepository interface {
	CreateMedicine(ctx context.Context, m *models.Medicine) error
	GetMedicineByID(ctx context.Context, id int64) (*models.Medicine, error)
	ListMedicines(ctx context.Context) ([]models.Medicine, error)
	ListDiscountedMedicines(ctx context.Context) ([]models.Medicine, error)
	ListMedicinesBySeller(ctx context.Context, sellerEmail string) ([]models.Medicine, error)
	UpdateMedicine(ctx context.Context, m *models.Medicine) error
	DeleteMedicine(ctx context.Context, id int64, sellerEmail string) error
}

// CartRepository is the cart ledger store. Every call is scoped by owner.
type CartRepository interface {
	CreateCartLine(ctx context.Context, line *models.CartLine) error
	GetCartLine(ctx context.Context, id int64, ownerEmail string) (*models.CartLine, error)
	ListCartLines(ctx context.Context, ownerEmail string) ([]models.CartLine, error)
	AdjustCartLineQuantity(ctx context.Context, id int64, ownerEmail string, delta int) (int, error)
	DeleteCartLine(ctx context.Context, id int64, ownerEmail string) error
	ClearCart(ctx context.Context, ownerEmail string) (int64, error)
}

// OrderRepository is the order store. ConfirmOrder must be a compare-and-set
// on payment_status.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	RecordPaymentIntent(ctx context.Context, orderID int64, intentID string) error
	ConfirmOrder(ctx context.Context, p store.ConfirmParams) (*models.Order, bool, error)
	ListConfirmedOrders(ctx context.Context, f store.HistoryFilter) ([]models.Order, error)
	SummarizeConfirmedOrders(ctx context.Context, f store.HistoryFilter) (*models.SalesSummary, error)
}

// EventPublisher emits order lifecycle events
type EventPublisher interface {
	PublishOrderInitiated(ctx context.Context, event *models.OrderInitiatedEvent) error
	PublishPaymentIntentIssued(ctx context.Context, event *models.PaymentIntentIssuedEvent) error
	PublishOrderConfirmed(ctx context.Context, event *models.OrderConfirmedEvent) error
}

// RoleInvalidator drops cached roles after they change
type RoleInvalidator interface {
	Invalidate(ctx context.Context, email string) error
}

// SalesTotals reads the live sales counters
type SalesTotals interface {
	GetSalesTotals(ctx context.Context, sellerEmail string) (*models.SalesSummary, error)
}

// EventGuard claims processor event ids so each is handled once
type EventGuard interface {
	MarkOnce(ctx context.Context, scope, id string, ttl time.Duration) (bool, error)
	ReleaseMark(ctx context.Context, scope, id string) error
}

// IntentKeys records client idempotency keys for payment intent requests
type IntentKeys interface {
	CheckIdempotencyKey(ctx context.Context, key string) (bool, error)
	SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
