package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine represents a sellable catalog item owned by a seller
type Medicine struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	GenericName string          `db:"generic_name" json:"generic_name"`
	Description string          `db:"description" json:"description"`
	Image       string          `db:"image" json:"image"`
	Category    string          `db:"category" json:"category"`
	Company     string          `db:"company" json:"company"`
	MassUnit    string          `db:"mass_unit" json:"mass_unit"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Discount    decimal.Decimal `db:"discount" json:"discount"`
	SellerName  string          `db:"seller_name" json:"seller_name"`
	SellerEmail string          `db:"seller_email" json:"seller_email"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// UserAccount is the registry record backing role resolution
type UserAccount struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	Photo         string    `db:"photo" json:"photo"`
	Role          string    `db:"role" json:"role"`
	Status        string    `db:"status" json:"status"`
	ApplyingFor   string    `db:"applying_for" json:"applying_for"`
	CreatedTime   time.Time `db:"created_time" json:"created_time"`
	LastLoginTime time.Time `db:"last_login_time" json:"last_login_time"`
}

// Account statuses
const (
	AccountStatusUser     = "user"
	AccountStatusPending  = "pending"
	AccountStatusApproved = "approved"
	AccountStatusRejected = "rejected"
)

// ApplyingForSeller marks an account that asked to become a seller
const ApplyingForSeller = "seller"

// CartLine is a pending selection with a price snapshot taken at add time
type CartLine struct {
	ID          int64           `db:"id" json:"id"`
	OwnerEmail  string          `db:"owner_email" json:"customer_email"`
	OwnerName   string          `db:"owner_name" json:"customer_name"`
	MedicineID  int64           `db:"medicine_id" json:"medicine_id"`
	Name        string          `db:"name" json:"name"`
	Image       string          `db:"image" json:"image"`
	Company     string          `db:"company" json:"company"`
	Category    string          `db:"category" json:"category"`
	SellerName  string          `db:"seller_name" json:"seller_name"`
	SellerEmail string          `db:"seller_email" json:"seller_email"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"price"`
	Discount    decimal.Decimal `db:"discount" json:"discount"`
	Quantity    int             `db:"quantity" json:"quantity"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Order is the payable record created from a cart line at checkout
type Order struct {
	ID              int64           `db:"id" json:"id"`
	CartLineID      *int64          `db:"cart_line_id" json:"cart_line_id,omitempty"`
	MedicineID      int64           `db:"medicine_id" json:"medicine_id"`
	Name            string          `db:"name" json:"name"`
	Image           string          `db:"image" json:"image"`
	Company         string          `db:"company" json:"company"`
	Category        string          `db:"category" json:"category"`
	SellerName      string          `db:"seller_name" json:"seller_name"`
	SellerEmail     string          `db:"seller_email" json:"seller_email"`
	CustomerName    string          `db:"customer_name" json:"customer_name"`
	CustomerEmail   string          `db:"customer_email" json:"customer_email"`
	Quantity        int             `db:"quantity" json:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price" json:"price"`
	Discount        decimal.Decimal `db:"discount" json:"discount"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	OrderStatus     string          `db:"order_status" json:"order_status"`
	PaymentStatus   string          `db:"payment_status" json:"payment_status"`
	Payment         decimal.Decimal `db:"payment" json:"payment"`
	TransactionID   *string         `db:"transaction_id" json:"transactionId,omitempty"`
	PaymentIntentID string          `db:"payment_intent_id" json:"-"`
	PaymentTime     *time.Time      `db:"payment_time" json:"payment_time,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// Order and payment statuses move in lockstep
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"

	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
)

// OrderState is the lifecycle position derived from the persisted fields
type OrderState string

const (
	OrderStateCreated      OrderState = "CREATED"
	OrderStateIntentIssued OrderState = "INTENT_ISSUED"
	OrderStateConfirmed    OrderState = "CONFIRMED"
)

// State reports where the order sits in the payment lifecycle
func (o *Order) State() OrderState {
	switch {
	case o.PaymentStatus == PaymentStatusConfirmed:
		return OrderStateConfirmed
	case o.PaymentIntentID != "":
		return OrderStateIntentIssued
	default:
		return OrderStateCreated
	}
}

// IsConfirmed reports whether reconciliation already happened
func (o *Order) IsConfirmed() bool {
	return o.PaymentStatus == PaymentStatusConfirmed
}

// SalesSummary aggregates confirmed orders
type SalesSummary struct {
	Orders   int64           `db:"orders" json:"orders"`
	Quantity int64           `db:"quantity" json:"quantity"`
	Income   decimal.Decimal `db:"income" json:"income"`
}
