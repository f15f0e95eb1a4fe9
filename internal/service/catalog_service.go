package service

import (
	"context"
	"strings"

	"storefront-service/internal/apperr"
	"storefront-service/internal/auth"
	"storefront-service/internal/models"
	"storefront-service/internal/money"
	"storefront-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService manages seller-owned medicines
type CatalogService struct {
	medicines MedicineRepository
	logger    *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(medicines MedicineRepository) *CatalogService {
	return &CatalogService{
		medicines: medicines,
		logger:    util.GetLogger(),
	}
}

// MedicineRequest is the editable part of a catalog item
type MedicineRequest struct {
	Name        string          `json:"name" binding:"required"`
	GenericName string          `json:"generic_name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Company     string          `json:"company"`
	MassUnit    string          `json:"mass_unit"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
}

func (r *MedicineRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperr.Validation("name is required")
	}
	if !r.Price.IsPositive() {
		return apperr.Validation("price must be greater than zero")
	}
	if !money.ValidDiscount(r.Discount) {
		return apperr.Validation("discount must be between 0 and 100")
	}
	return nil
}

func (r *MedicineRequest) apply(m *models.Medicine) {
	m.Name = strings.TrimSpace(r.Name)
	m.GenericName = r.GenericName
	m.Description = r.Description
	m.Image = r.Image
	m.Category = r.Category
	m.Company = r.Company
	m.MassUnit = r.MassUnit
	m.Price = r.Price.Round(2)
	m.Discount = r.Discount.Round(2)
}

// List returns the whole catalog
func (s *CatalogService) List(ctx context.Context) ([]models.Medicine, error) {
	return s.medicines.ListMedicines(ctx)
}

// ListDiscounted returns items carrying a discount
func (s *CatalogService) ListDiscounted(ctx context.Context) ([]models.Medicine, error) {
	return s.medicines.ListDiscountedMedicines(ctx)
}

// ListBySeller returns one seller's items
func (s *CatalogService) ListBySeller(ctx context.Context, sellerEmail string) ([]models.Medicine, error) {
	return s.medicines.ListMedicinesBySeller(ctx, auth.NormalizeEmail(sellerEmail))
}

// Get returns one item
func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Medicine, error) {
	return s.medicines.GetMedicineByID(ctx, id)
}

// Create adds an item owned by the calling seller
func (s *CatalogService) Create(ctx context.Context, p *auth.Principal, req *MedicineRequest) (*models.Medicine, error) {
	if p == nil || !p.RoleResolved || p.Role != auth.RoleSeller {
		return nil, apperr.Validation("only sellers can add medicines")
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	m := &models.Medicine{SellerName: p.DisplayName, SellerEmail: p.Email}
	req.apply(m)

	if err := s.medicines.CreateMedicine(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("Medicine created", zap.Int64("medicine_id", m.ID), zap.String("seller", p.Email))
	return m, nil
}

// Update edits an item the calling seller owns. Existing cart lines keep
// their price snapshot.
func (s *CatalogService) Update(ctx context.Context, p *auth.Principal, id int64, req *MedicineRequest) (*models.Medicine, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	m, err := s.medicines.GetMedicineByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsSelf(m.SellerEmail) {
		return nil, apperr.NotFound("medicine not found")
	}

	req.apply(m)
	if err := s.medicines.UpdateMedicine(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes an item. Sellers may only remove their own; admins any.
func (s *CatalogService) Delete(ctx context.Context, p *auth.Principal, id int64) error {
	if !p.Authenticated() {
		return apperr.Validation("sign in to continue")
	}
	owner := p.Email
	if isAdmin(p) {
		owner = ""
	}
	if err := s.medicines.DeleteMedicine(ctx, id, owner); err != nil {
		return err
	}

	s.logger.Info("Medicine deleted", zap.Int64("medicine_id", id), zap.String("by", p.Email))
	return nil
}
