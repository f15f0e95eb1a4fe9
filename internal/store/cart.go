package store

import (
	"context"
	"fmt"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"
)

// CreateCartLine inserts a cart line
func (s *Store) CreateCartLine(ctx context.Context, line *models.CartLine) error {
	query := `
		INSERT INTO cart_lines (owner_email, owner_name, medicine_id, name, image, company,
			category, seller_name, seller_email, unit_price, discount, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, line, query,
		line.OwnerEmail, line.OwnerName, line.MedicineID, line.Name, line.Image, line.Company,
		line.Category, line.SellerName, line.SellerEmail, line.UnitPrice, line.Discount, line.Quantity)
}

// GetCartLine retrieves a line owned by ownerEmail
func (s *Store) GetCartLine(ctx context.Context, id int64, ownerEmail string) (*models.CartLine, error) {
	var line models.CartLine
	err := s.db.GetContext(ctx, &line,
		"SELECT * FROM cart_lines WHERE id = $1 AND owner_email = $2", id, ownerEmail)
	if err != nil {
		return nil, notFoundOr(err, "cart line")
	}
	return &line, nil
}

// ListCartLines retrieves a user's cart, oldest first
func (s *Store) ListCartLines(ctx context.Context, ownerEmail string) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	err := s.db.SelectContext(ctx, &lines,
		"SELECT * FROM cart_lines WHERE owner_email = $1 ORDER BY created_at, id", ownerEmail)
	return lines, err
}

// AdjustCartLineQuantity applies delta to the stored quantity in one statement,
// never going below 1, and returns the new quantity.
func (s *Store) AdjustCartLineQuantity(ctx context.Context, id int64, ownerEmail string, delta int) (int, error) {
	var quantity int
	err := s.db.GetContext(ctx, &quantity, `
		UPDATE cart_lines SET quantity = GREATEST(quantity + $1, 1), updated_at = NOW()
		WHERE id = $2 AND owner_email = $3
		RETURNING quantity`,
		delta, id, ownerEmail)
	if err != nil {
		return 0, notFoundOr(err, "cart line")
	}
	return quantity, nil
}

// DeleteCartLine removes a line owned by ownerEmail
func (s *Store) DeleteCartLine(ctx context.Context, id int64, ownerEmail string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM cart_lines WHERE id = $1 AND owner_email = $2", id, ownerEmail)
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("cart line not found")
	}
	return nil
}

// ClearCart removes every line owned by ownerEmail
func (s *Store) ClearCart(ctx context.Context, ownerEmail string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cart_lines WHERE owner_email = $1", ownerEmail)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	return res.RowsAffected()
}
