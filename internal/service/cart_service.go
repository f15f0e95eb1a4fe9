package service

import (
	"context"

	"storefront-service/internal/apperr"
	"storefront-service/internal/auth"
	"storefront-service/internal/models"
	"storefront-service/internal/money"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Quantity directions accepted by ChangeQuantity
const (
	QuantityIncrease = "increase"
	QuantityDecrease = "decrease"
)

// CartService manages the per-user cart ledger. Mutations return the
// authoritative cart so callers never keep optimistic local state.
type CartService struct {
	cart      CartRepository
	medicines MedicineRepository
	logger    *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(cart CartRepository, medicines MedicineRepository) *CartService {
	return &CartService{
		cart:      cart,
		medicines: medicines,
		logger:    util.GetLogger(),
	}
}

func requireBuyer(p *auth.Principal) error {
	if !p.Authenticated() {
		return apperr.Validation("sign in to continue")
	}
	if !p.RoleResolved {
		return apperr.New(apperr.CodeRolePending, "role is still being resolved")
	}
	if !auth.CanPurchase(p.Role) {
		return apperr.Validation("only buyers can purchase")
	}
	return nil
}

// Add puts one unit of a catalog item in the caller's cart, snapshotting
// its effective price.
func (s *CartService) Add(ctx context.Context, p *auth.Principal, medicineID int64) ([]models.CartLine, error) {
	if err := requireBuyer(p); err != nil {
		return nil, err
	}

	m, err := s.medicines.GetMedicineByID(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	if m.SellerEmail == p.Email {
		return nil, apperr.Validation("cannot buy your own medicine")
	}

	line := &models.CartLine{
		OwnerEmail:  p.Email,
		OwnerName:   p.DisplayName,
		MedicineID:  m.ID,
		Name:        m.Name,
		Image:       m.Image,
		Company:     m.Company,
		Category:    m.Category,
		SellerName:  m.SellerName,
		SellerEmail: m.SellerEmail,
		UnitPrice:   money.EffectivePrice(m.Price, m.Discount),
		Discount:    m.Discount,
		Quantity:    1,
	}
	if err := s.cart.CreateCartLine(ctx, line); err != nil {
		return nil, err
	}

	util.CartMutationsTotal.WithLabelValues("add").Inc()
	s.logger.Info("Cart line added",
		zap.Int64("cart_line_id", line.ID),
		zap.String("owner", p.Email),
		zap.String("unit_price", line.UnitPrice.StringFixed(2)))

	return s.cart.ListCartLines(ctx, p.Email)
}

// List returns the caller's cart. Only the owner may read it.
func (s *CartService) List(ctx context.Context, p *auth.Principal, ownerEmail string) ([]models.CartLine, error) {
	if !p.IsSelf(ownerEmail) {
		return nil, apperr.NotFound("cart not found")
	}
	return s.cart.ListCartLines(ctx, p.Email)
}

// ChangeQuantity moves a line's quantity by one. Decreasing at 1 is a no-op.
func (s *CartService) ChangeQuantity(ctx context.Context, p *auth.Principal, lineID int64, direction string) ([]models.CartLine, error) {
	var delta int
	switch direction {
	case QuantityIncrease:
		delta = 1
	case QuantityDecrease:
		delta = -1
	default:
		return nil, apperr.Validation("quantity must be \"increase\" or \"decrease\"")
	}
	if !p.Authenticated() {
		return nil, apperr.Validation("sign in to continue")
	}

	quantity, err := s.cart.AdjustCartLineQuantity(ctx, lineID, p.Email, delta)
	if err != nil {
		return nil, err
	}

	util.CartMutationsTotal.WithLabelValues(direction).Inc()
	s.logger.Debug("Cart quantity changed",
		zap.Int64("cart_line_id", lineID),
		zap.Int("quantity", quantity))

	return s.cart.ListCartLines(ctx, p.Email)
}

// Remove deletes one of the caller's lines
func (s *CartService) Remove(ctx context.Context, p *auth.Principal, lineID int64) ([]models.CartLine, error) {
	if !p.Authenticated() {
		return nil, apperr.Validation("sign in to continue")
	}
	if err := s.cart.DeleteCartLine(ctx, lineID, p.Email); err != nil {
		return nil, err
	}

	util.CartMutationsTotal.WithLabelValues("remove").Inc()
	return s.cart.ListCartLines(ctx, p.Email)
}

// Clear empties the caller's cart
func (s *CartService) Clear(ctx context.Context, p *auth.Principal, ownerEmail string) (int64, error) {
	if !p.IsSelf(ownerEmail) {
		return 0, apperr.NotFound("cart not found")
	}

	removed, err := s.cart.ClearCart(ctx, p.Email)
	if err != nil {
		return 0, err
	}

	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	s.logger.Info("Cart cleared", zap.String("owner", p.Email), zap.Int64("removed", removed))
	return removed, nil
}
