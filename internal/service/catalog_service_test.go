package service

import (
	"context"
	"testing"

	"storefront-service/internal/apperr"
	"storefront-service/internal/auth"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCreateValidation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	tests := []struct {
		name string
		p    *auth.Principal
		req  MedicineRequest
	}{
		{"buyer cannot list", buyer, MedicineRequest{Name: "A", Price: decimal.NewFromInt(5)}},
		{"admin cannot list", admin, MedicineRequest{Name: "A", Price: decimal.NewFromInt(5)}},
		{"blank name", seller, MedicineRequest{Name: "  ", Price: decimal.NewFromInt(5)}},
		{"zero price", seller, MedicineRequest{Name: "A"}},
		{"discount over 100", seller, MedicineRequest{Name: "A", Price: decimal.NewFromInt(5), Discount: decimal.NewFromInt(101)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := h.catalog.Create(ctx, tt.p, &req)
			assert.True(t, apperr.Is(err, apperr.CodeValidation), "got %v", err)
		})
	}

	all, err := h.catalog.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCatalogOwnership(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	m := h.listMedicine(t)
	other := auth.NewPrincipal("other@shop.io", "Other", auth.RoleSeller)

	_, err := h.catalog.Update(ctx, other, m.ID, &MedicineRequest{Name: "Hijacked", Price: decimal.NewFromInt(1)})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	err = h.catalog.Delete(ctx, other, m.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	updated, err := h.catalog.Update(ctx, seller, m.ID, &MedicineRequest{Name: "Napa", Price: decimal.NewFromInt(80)})
	require.NoError(t, err)
	assert.Equal(t, "Napa", updated.Name)

	mine, err := h.catalog.ListBySeller(ctx, "Seller@Shop.io")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, h.catalog.Delete(ctx, admin, m.ID))
	_, err = h.catalog.Get(ctx, m.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestCatalogDiscountedList(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.listMedicine(t)
	_, err := h.catalog.Create(ctx, seller, &MedicineRequest{Name: "Plain", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)

	discounted, err := h.catalog.ListDiscounted(ctx)
	require.NoError(t, err)
	require.Len(t, discounted, 1)
	assert.Equal(t, "Napa Extra", discounted[0].Name)
}
