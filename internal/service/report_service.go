package service

import (
	"context"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/auth"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// ReportService serves read-only views over confirmed orders
type ReportService struct {
	orders OrderRepository
	live   SalesTotals
	logger *zap.Logger
}

// NewReportService creates a new report service. live may be nil.
func NewReportService(orders OrderRepository, live SalesTotals) *ReportService {
	return &ReportService{
		orders: orders,
		live:   live,
		logger: util.GetLogger(),
	}
}

// DateRange bounds a history by payment time
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// ParseDateRange accepts RFC3339 or YYYY-MM-DD bounds. A date-only upper
// bound covers that whole day.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	if from != "" {
		t, _, err := parseBound(from)
		if err != nil {
			return r, apperr.Validation("from must be RFC3339 or YYYY-MM-DD")
		}
		r.From = &t
	}
	if to != "" {
		t, dateOnly, err := parseBound(to)
		if err != nil {
			return r, apperr.Validation("to must be RFC3339 or YYYY-MM-DD")
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		r.To = &t
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return r, apperr.Validation("to must not be before from")
	}
	return r, nil
}

func parseBound(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", s)
	return t, true, err
}

func isAdmin(p *auth.Principal) bool {
	return p != nil && p.RoleResolved && p.Role == auth.RoleAdmin
}

// BuyerHistory lists a buyer's confirmed payments. Buyers see their own only.
func (s *ReportService) BuyerHistory(ctx context.Context, p *auth.Principal, email string) ([]models.Order, error) {
	if !p.IsSelf(email) && !isAdmin(p) {
		return nil, apperr.Forbidden("cannot read another buyer's payments")
	}
	return s.orders.ListConfirmedOrders(ctx, store.HistoryFilter{CustomerEmail: auth.NormalizeEmail(email)})
}

// SellerHistory lists confirmed sales of a seller
func (s *ReportService) SellerHistory(ctx context.Context, p *auth.Principal, email string) ([]models.Order, error) {
	if !p.IsSelf(email) && !isAdmin(p) {
		return nil, apperr.Forbidden("cannot read another seller's sales")
	}
	return s.orders.ListConfirmedOrders(ctx, store.HistoryFilter{SellerEmail: auth.NormalizeEmail(email)})
}

// AllQuery scopes the admin-wide history. CallerEmail names the admin
// making the request; Customer optionally narrows to one buyer.
type AllQuery struct {
	CallerEmail string
	Customer    string
	Range       DateRange
}

// AllConfirmed lists every confirmed order for an admin
func (s *ReportService) AllConfirmed(ctx context.Context, p *auth.Principal, q AllQuery) ([]models.Order, error) {
	if !isAdmin(p) {
		return nil, apperr.Forbidden("admin role required")
	}
	if q.CallerEmail != "" && !p.IsSelf(q.CallerEmail) {
		return nil, apperr.Forbidden("email does not match the signed-in admin")
	}
	return s.orders.ListConfirmedOrders(ctx, store.HistoryFilter{
		CustomerEmail: auth.NormalizeEmail(q.Customer),
		From:          q.Range.From,
		To:            q.Range.To,
	})
}

// SellerSummary totals a seller's confirmed sales
func (s *ReportService) SellerSummary(ctx context.Context, p *auth.Principal, email string) (*models.SalesSummary, error) {
	if !p.IsSelf(email) && !isAdmin(p) {
		return nil, apperr.Forbidden("cannot read another seller's sales")
	}
	return s.orders.SummarizeConfirmedOrders(ctx, store.HistoryFilter{SellerEmail: auth.NormalizeEmail(email)})
}

// StoreSummary totals every confirmed order in the range
func (s *ReportService) StoreSummary(ctx context.Context, r DateRange) (*models.SalesSummary, error) {
	return s.orders.SummarizeConfirmedOrders(ctx, store.HistoryFilter{From: r.From, To: r.To})
}

// LiveSummary reads the counters kept by the reporting worker. They trail the
// database by the event pipeline delay.
func (s *ReportService) LiveSummary(ctx context.Context, sellerEmail string) (*models.SalesSummary, error) {
	if s.live == nil {
		return nil, apperr.New(apperr.CodeInternal, "live totals unavailable")
	}
	summary, err := s.live.GetSalesTotals(ctx, auth.NormalizeEmail(sellerEmail))
	if err != nil {
		s.logger.Warn("Live totals read failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.CodeInternal, err, "live totals unavailable")
	}
	return summary, nil
}
