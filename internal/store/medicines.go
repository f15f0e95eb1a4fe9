package store

import (
	"context"
	"fmt"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"
)

// CreateMedicine inserts a catalog item
func (s *Store) CreateMedicine(ctx context.Context, m *models.Medicine) error {
	query := `
		INSERT INTO medicines (name, generic_name, description, image, category, company,
			mass_unit, price, discount, seller_name, seller_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, m, query,
		m.Name, m.GenericName, m.Description, m.Image, m.Category, m.Company,
		m.MassUnit, m.Price, m.Discount, m.SellerName, m.SellerEmail)
}

// GetMedicineByID retrieves a catalog item
func (s *Store) GetMedicineByID(ctx context.Context, id int64) (*models.Medicine, error) {
	var m models.Medicine
	err := s.db.GetContext(ctx, &m, "SELECT * FROM medicines WHERE id = $1", id)
	if err != nil {
		return nil, notFoundOr(err, "medicine")
	}
	return &m, nil
}

// ListMedicines retrieves the whole catalog, newest first
func (s *Store) ListMedicines(ctx context.Context) ([]models.Medicine, error) {
	medicines := []models.Medicine{}
	err := s.db.SelectContext(ctx, &medicines, "SELECT * FROM medicines ORDER BY created_at DESC")
	return medicines, err
}

// ListDiscountedMedicines retrieves items with a non-zero discount
func (s *Store) ListDiscountedMedicines(ctx context.Context) ([]models.Medicine, error) {
	medicines := []models.Medicine{}
	err := s.db.SelectContext(ctx, &medicines,
		"SELECT * FROM medicines WHERE discount > 0 ORDER BY discount DESC, created_at DESC")
	return medicines, err
}

// ListMedicinesBySeller retrieves one seller's items
func (s *Store) ListMedicinesBySeller(ctx context.Context, sellerEmail string) ([]models.Medicine, error) {
	medicines := []models.Medicine{}
	err := s.db.SelectContext(ctx, &medicines,
		"SELECT * FROM medicines WHERE seller_email = $1 ORDER BY created_at DESC", sellerEmail)
	return medicines, err
}

// UpdateMedicine rewrites the editable fields of an item owned by m.SellerEmail
func (s *Store) UpdateMedicine(ctx context.Context, m *models.Medicine) error {
	query := `
		UPDATE medicines SET name = $1, generic_name = $2, description = $3, image = $4,
			category = $5, company = $6, mass_unit = $7, price = $8, discount = $9, updated_at = NOW()
		WHERE id = $10 AND seller_email = $11
		RETURNING *`

	err := s.db.GetContext(ctx, m, query,
		m.Name, m.GenericName, m.Description, m.Image, m.Category, m.Company,
		m.MassUnit, m.Price, m.Discount, m.ID, m.SellerEmail)
	if err != nil {
		return notFoundOr(err, "medicine")
	}
	return nil
}

// DeleteMedicine removes an item; an empty sellerEmail skips the ownership filter
func (s *Store) DeleteMedicine(ctx context.Context, id int64, sellerEmail string) error {
	query := "DELETE FROM medicines WHERE id = $1"
	args := []interface{}{id}
	if sellerEmail != "" {
		query += " AND seller_email = $2"
		args = append(args, sellerEmail)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("medicine not found")
	}
	return nil
}
