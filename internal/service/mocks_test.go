package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"
	"storefront-service/internal/payment"
	"storefront-service/internal/store"

	"github.com/shopspring/decimal"
)

// memStore implements every repository in memory. ConfirmOrder is a
// compare-and-set under the mutex like the SQL conditional update.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	users     map[string]*models.UserAccount
	medicines map[int64]*models.Medicine
	lines     map[int64]*models.CartLine
	orders    map[int64]*models.Order

	createOrderErr error
	confirmWrites  int
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]*models.UserAccount{},
		medicines: map[int64]*models.Medicine{},
		lines:     map[int64]*models.CartLine{},
		orders:    map[int64]*models.Order{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateUserIfAbsent(_ context.Context, user *models.UserAccount) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[user.Email]; ok {
		*user = *existing
		return false, nil
	}
	user.ID = m.id()
	cp := *user
	m.users[user.Email] = &cp
	return true, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) ListUsersByStatus(_ context.Context, statuses ...string) ([]models.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.UserAccount{}
	for _, u := range m.users {
		for _, s := range statuses {
			if u.Status == s {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (m *memStore) UpdateUserApproval(_ context.Context, email, role, status string) (*models.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok || u.ApplyingFor != models.ApplyingForSeller {
		return nil, apperr.NotFound("user not found")
	}
	u.Role, u.Status = role, status
	cp := *u
	return &cp, nil
}

func (m *memStore) TouchLastLogin(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.LastLoginTime = time.Now()
	return nil
}

func (m *memStore) CreateMedicine(_ context.Context, med *models.Medicine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	med.ID = m.id()
	cp := *med
	m.medicines[med.ID] = &cp
	return nil
}

func (m *memStore) GetMedicineByID(_ context.Context, id int64) (*models.Medicine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	med, ok := m.medicines[id]
	if !ok {
		return nil, apperr.NotFound("medicine not found")
	}
	cp := *med
	return &cp, nil
}

func (m *memStore) ListMedicines(_ context.Context) ([]models.Medicine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Medicine{}
	for _, med := range m.medicines {
		out = append(out, *med)
	}
	return out, nil
}

func (m *memStore) ListDiscountedMedicines(ctx context.Context) ([]models.Medicine, error) {
	all, _ := m.ListMedicines(ctx)
	out := []models.Medicine{}
	for _, med := range all {
		if med.Discount.IsPositive() {
			out = append(out, med)
		}
	}
	return out, nil
}

func (m *memStore) ListMedicinesBySeller(ctx context.Context, sellerEmail string) ([]models.Medicine, error) {
	all, _ := m.ListMedicines(ctx)
	out := []models.Medicine{}
	for _, med := range all {
		if med.SellerEmail == sellerEmail {
			out = append(out, med)
		}
	}
	return out, nil
}

func (m *memStore) UpdateMedicine(_ context.Context, med *models.Medicine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.medicines[med.ID]
	if !ok || existing.SellerEmail != med.SellerEmail {
		return apperr.NotFound("medicine not found")
	}
	cp := *med
	m.medicines[med.ID] = &cp
	return nil
}

func (m *memStore) DeleteMedicine(_ context.Context, id int64, sellerEmail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	med, ok := m.medicines[id]
	if !ok || (sellerEmail != "" && med.SellerEmail != sellerEmail) {
		return apperr.NotFound("medicine not found")
	}
	delete(m.medicines, id)
	return nil
}

func (m *memStore) CreateCartLine(_ context.Context, line *models.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	line.ID = m.id()
	cp := *line
	m.lines[line.ID] = &cp
	return nil
}

func (m *memStore) GetCartLine(_ context.Context, id int64, ownerEmail string) (*models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	line, ok := m.lines[id]
	if !ok || line.OwnerEmail != ownerEmail {
		return nil, apperr.NotFound("cart line not found")
	}
	cp := *line
	return &cp, nil
}

func (m *memStore) ListCartLines(_ context.Context, ownerEmail string) ([]models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.CartLine{}
	for id := int64(1); id <= m.nextID; id++ {
		if line, ok := m.lines[id]; ok && line.OwnerEmail == ownerEmail {
			out = append(out, *line)
		}
	}
	return out, nil
}

func (m *memStore) AdjustCartLineQuantity(_ context.Context, id int64, ownerEmail string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	line, ok := m.lines[id]
	if !ok || line.OwnerEmail != ownerEmail {
		return 0, apperr.NotFound("cart line not found")
	}
	line.Quantity += delta
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	return line.Quantity, nil
}

func (m *memStore) DeleteCartLine(_ context.Context, id int64, ownerEmail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	line, ok := m.lines[id]
	if !ok || line.OwnerEmail != ownerEmail {
		return apperr.NotFound("cart line not found")
	}
	delete(m.lines, id)
	return nil
}

func (m *memStore) ClearCart(_ context.Context, ownerEmail string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, line := range m.lines {
		if line.OwnerEmail == ownerEmail {
			delete(m.lines, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createOrderErr != nil {
		return m.createOrderErr
	}
	order.ID = m.id()
	order.CreatedAt = time.Now()
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memStore) GetOrderByID(_ context.Context, id int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFound("order not found")
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) RecordPaymentIntent(_ context.Context, orderID int64, intentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[orderID]; ok && !o.IsConfirmed() {
		o.PaymentIntentID = intentID
	}
	return nil
}

func (m *memStore) ConfirmOrder(_ context.Context, p store.ConfirmParams) (*models.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[p.OrderID]
	if !ok {
		return nil, false, apperr.NotFound("order not found")
	}
	if o.PaymentStatus == models.PaymentStatusConfirmed {
		cp := *o
		return &cp, false, nil
	}

	txID := p.TransactionID
	paidAt := p.PaidAt
	o.OrderStatus = models.OrderStatusConfirmed
	o.PaymentStatus = models.PaymentStatusConfirmed
	o.Payment = p.Payment
	o.TransactionID = &txID
	o.PaymentTime = &paidAt
	m.confirmWrites++
	if o.CartLineID != nil {
		delete(m.lines, *o.CartLineID)
	}
	cp := *o
	return &cp, true, nil
}

func (m *memStore) ListConfirmedOrders(_ context.Context, f store.HistoryFilter) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if !o.IsConfirmed() {
			continue
		}
		if f.CustomerEmail != "" && o.CustomerEmail != f.CustomerEmail {
			continue
		}
		if f.SellerEmail != "" && o.SellerEmail != f.SellerEmail {
			continue
		}
		if f.From != nil && o.PaymentTime.Before(*f.From) {
			continue
		}
		if f.To != nil && o.PaymentTime.After(*f.To) {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (m *memStore) SummarizeConfirmedOrders(ctx context.Context, f store.HistoryFilter) (*models.SalesSummary, error) {
	orders, _ := m.ListConfirmedOrders(ctx, f)
	summary := &models.SalesSummary{Income: decimal.Zero}
	for _, o := range orders {
		summary.Orders++
		summary.Quantity += int64(o.Quantity)
		summary.Income = summary.Income.Add(o.Payment)
	}
	return summary, nil
}

// fakeProcessor hands out intents and reports them captured on retrieve
type fakeProcessor struct {
	mu        sync.Mutex
	requests  []payment.IntentRequest
	intents   map[string]*payment.Intent
	byKey     map[string]string
	createErr error
	getErr    error
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{intents: map[string]*payment.Intent{}, byKey: map[string]string{}}
}

func (f *fakeProcessor) CreateIntent(_ context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if id, ok := f.byKey[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		cp := *f.intents[id]
		return &cp, nil
	}
	id := fmt.Sprintf("pi_%d", len(f.requests))
	if req.IdempotencyKey != "" {
		f.byKey[req.IdempotencyKey] = id
	}
	intent := &payment.Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		AmountMinor:  req.AmountMinor,
		Currency:     req.Currency,
		Status:       "requires_payment_method",
	}
	f.intents[id] = intent
	return intent, nil
}

// capture simulates the buyer completing the card payment
func (f *fakeProcessor) capture(id string, orderID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	intent := f.intents[id]
	intent.Status = payment.IntentSucceeded
	intent.AmountReceived = intent.AmountMinor
	intent.OrderID = orderID
}

func (f *fakeProcessor) RetrieveIntent(_ context.Context, id string) (*payment.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	intent, ok := f.intents[id]
	if !ok {
		return nil, errors.New("no such payment_intent")
	}
	cp := *intent
	return &cp, nil
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu        sync.Mutex
	initiated []*models.OrderInitiatedEvent
	issued    []*models.PaymentIntentIssuedEvent
	confirmed []*models.OrderConfirmedEvent
}

func (p *recordingPublisher) PublishOrderInitiated(_ context.Context, e *models.OrderInitiatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initiated = append(p.initiated, e)
	return nil
}

func (p *recordingPublisher) PublishPaymentIntentIssued(_ context.Context, e *models.PaymentIntentIssuedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued = append(p.issued, e)
	return nil
}

func (p *recordingPublisher) PublishOrderConfirmed(_ context.Context, e *models.OrderConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmed = append(p.confirmed, e)
	return nil
}

// recordingInvalidator captures role invalidations
type recordingInvalidator struct {
	emails []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, email string) error {
	r.emails = append(r.emails, email)
	return nil
}

// memGuard is an in-memory EventGuard
type memGuard struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (g *memGuard) MarkOnce(_ context.Context, scope, id string, _ time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen == nil {
		g.seen = map[string]bool{}
	}
	key := scope + ":" + id
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	return true, nil
}

func (g *memGuard) ReleaseMark(_ context.Context, scope, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, scope+":"+id)
	return nil
}

// memKeys is an in-memory IntentKeys
type memKeys struct {
	mu   sync.Mutex
	keys map[string]interface{}
}

func (k *memKeys) CheckIdempotencyKey(_ context.Context, key string) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.keys[key]
	return ok, nil
}

func (k *memKeys) SetIdempotencyKey(_ context.Context, key string, value interface{}, _ time.Duration) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.keys == nil {
		k.keys = map[string]interface{}{}
	}
	k.keys[key] = value
	return nil
}
