package service

import (
	"context"
	"testing"

	"storefront-service/internal/auth"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	buyer  = auth.NewPrincipal("buyer@shop.io", "Buyer", auth.RoleUser)
	seller = auth.NewPrincipal("seller@shop.io", "Seller", auth.RoleSeller)
	admin  = auth.NewPrincipal("admin@shop.io", "Admin", auth.RoleAdmin)
)

func init() {
	util.SetLogger(zap.NewNop())
}

type harness struct {
	store     *memStore
	processor *fakeProcessor
	events    *recordingPublisher
	catalog   *CatalogService
	cart      *CartService
	orders    *OrderService
	payments  *PaymentService
	reports   *ReportService
}

func newHarness() *harness {
	st := newMemStore()
	proc := newFakeProcessor()
	events := &recordingPublisher{}
	return &harness{
		store:     st,
		processor: proc,
		events:    events,
		catalog:   NewCatalogService(st),
		cart:      NewCartService(st, st),
		orders:    NewOrderService(st, st, st, events),
		payments:  NewPaymentService(st, proc, events, "usd"),
		reports:   NewReportService(st, nil),
	}
}

// listMedicine creates a seller item priced 100 with a 20% discount
func (h *harness) listMedicine(t *testing.T) *models.Medicine {
	t.Helper()
	m, err := h.catalog.Create(context.Background(), seller, &MedicineRequest{
		Name:     "Napa Extra",
		Company:  "Beximco",
		Category: "tablet",
		Price:    decimal.NewFromInt(100),
		Discount: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	return m
}

// cartLine adds the item to the buyer's cart and returns the new line
func (h *harness) cartLine(t *testing.T, medicineID int64) models.CartLine {
	t.Helper()
	lines, err := h.cart.Add(context.Background(), buyer, medicineID)
	require.NoError(t, err)
	require.NotEmpty(t, lines)
	return lines[len(lines)-1]
}
