package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/model"
	"github.com/sefedemircan/triz-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Transactions degenerate to direct calls (the
// services pass tx == nil when the repo's DB() returns nil), so these tests
// exercise the accounting logic, not Postgres.

// ── StockItemRepository ──────────────────────────────────────────────────────

type stubStockItemRepo struct {
	items map[uuid.UUID]*model.StockItem
}

func newStubStockItemRepo() *stubStockItemRepo {
	return &stubStockItemRepo{items: make(map[uuid.UUID]*model.StockItem)}
}

func (r *stubStockItemRepo) Create(_ context.Context, s *model.StockItem) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.items[s.ID] = s
	return nil
}

func (r *stubStockItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StockItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *stubStockItemRepo) List(_ context.Context, _ dto.StockItemFilter) ([]model.StockItem, int64, error) {
	var result []model.StockItem
	for _, it := range r.items {
		if it.IsActive {
			result = append(result, *it)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubStockItemRepo) Update(_ context.Context, s *model.StockItem) error {
	r.items[s.ID] = s
	return nil
}

func (r *stubStockItemRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	it, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	it.IsActive = false
	return nil
}

func (r *stubStockItemRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	it, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	it.IsActive = true
	return nil
}

func (r *stubStockItemRepo) FindCritical(_ context.Context) ([]model.StockItem, error) {
	var result []model.StockItem
	for _, it := range r.items {
		if it.IsActive && it.CurrentStock.LessThanOrEqual(it.MinStockLevel) {
			result = append(result, *it)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CurrentStock.LessThan(result[j].CurrentStock)
	})
	return result, nil
}

func (r *stubStockItemRepo) FindExpiring(_ context.Context) ([]model.StockItem, error) {
	var result []model.StockItem
	for _, it := range r.items {
		if it.IsActive && it.ExpiryDate != nil {
			result = append(result, *it)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ExpiryDate.Before(*result[j].ExpiryDate)
	})
	return result, nil
}

func (r *stubStockItemRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.StockItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *stubStockItemRepo) AdjustStockTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	it, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	it.CurrentStock = it.CurrentStock.Add(delta)
	return nil
}

func (r *stubStockItemRepo) DB() *gorm.DB { return nil }

var _ repository.StockItemRepository = (*stubStockItemRepo)(nil)

// ── StockMovementRepository ──────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []*model.StockMovement
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.movements = append(r.movements, m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var result []model.StockMovement
	for _, m := range r.movements {
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.ReferenceType != "" && m.ReferenceType != filter.ReferenceType {
			continue
		}
		result = append(result, *m)
	}
	return result, int64(len(result)), nil
}

func (r *stubMovementRepo) FindByReferenceTx(_ *gorm.DB, referenceType string, referenceID uuid.UUID, movementType string) ([]model.StockMovement, error) {
	var result []model.StockMovement
	for _, m := range r.movements {
		if m.ReferenceType != referenceType {
			continue
		}
		if m.ReferenceID == nil || *m.ReferenceID != referenceID {
			continue
		}
		if movementType != "" && m.Type != movementType {
			continue
		}
		result = append(result, *m)
	}
	return result, nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── RecipeRepository ─────────────────────────────────────────────────────────

// stubRecipeRepo resolves StockItem against the live item stub so repeated
// availability checks observe stock changes, like the Preload in production.
type stubRecipeRepo struct {
	rows     map[uuid.UUID]*model.ProductRecipe
	itemRepo *stubStockItemRepo
}

func newStubRecipeRepo(itemRepo *stubStockItemRepo) *stubRecipeRepo {
	return &stubRecipeRepo{rows: make(map[uuid.UUID]*model.ProductRecipe), itemRepo: itemRepo}
}

func (r *stubRecipeRepo) Create(_ context.Context, rec *model.ProductRecipe) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	r.rows[rec.ID] = rec
	return nil
}

func (r *stubRecipeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductRecipe, error) {
	rec, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *stubRecipeRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.ProductRecipe, error) {
	var result []model.ProductRecipe
	for _, rec := range r.rows {
		if rec.ProductID != productID {
			continue
		}
		cp := *rec
		if it, ok := r.itemRepo.items[rec.StockItemID]; ok {
			itemCopy := *it
			cp.StockItem = &itemCopy
		}
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StockItemID.String() < result[j].StockItemID.String()
	})
	return result, nil
}

func (r *stubRecipeRepo) Update(_ context.Context, rec *model.ProductRecipe) error {
	r.rows[rec.ID] = rec
	return nil
}

func (r *stubRecipeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

var _ repository.RecipeRepository = (*stubRecipeRepo)(nil)

// ── StockAlertRepository ─────────────────────────────────────────────────────

type stubAlertRepo struct {
	alerts []*model.StockAlert
}

func (r *stubAlertRepo) Create(_ context.Context, a *model.StockAlert) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.alerts = append(r.alerts, a)
	return nil
}

func (r *stubAlertRepo) List(_ context.Context, includeAcknowledged bool) ([]model.StockAlert, error) {
	var result []model.StockAlert
	for _, a := range r.alerts {
		if a.IsResolved {
			continue
		}
		if !includeAcknowledged && a.IsAcknowledged {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (r *stubAlertRepo) Acknowledge(_ context.Context, id uuid.UUID, userID uuid.UUID) error {
	for _, a := range r.alerts {
		if a.ID == id {
			a.IsAcknowledged = true
			a.AcknowledgedBy = &userID
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubAlertRepo) HasOpenAlert(_ context.Context, stockItemID uuid.UUID, alertType string) (bool, error) {
	for _, a := range r.alerts {
		if a.StockItemID == stockItemID && a.AlertType == alertType && !a.IsResolved {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.StockAlertRepository = (*stubAlertRepo)(nil)

// ── OrderRepository ──────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order

	// findActiveErr, when set, is returned by FindActiveByTable to simulate
	// a lookup failure.
	findActiveErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, _ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *stubOrderRepo) FindActiveByTable(_ context.Context, tableID uuid.UUID) (*model.Order, error) {
	if r.findActiveErr != nil {
		return nil, r.findActiveErr
	}
	for _, o := range r.orders {
		if o.TableID == tableID && (o.Status == "active" || o.Status == "ready") {
			cp := *o
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var result []model.Order
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		result = append(result, *o)
	}
	return result, int64(len(result)), nil
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) UpdatePaymentTx(_ *gorm.DB, id uuid.UUID, paymentMethod string) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.PaymentMethod = paymentMethod
	return nil
}

func (r *stubOrderRepo) UpdateNotesTx(_ *gorm.DB, id uuid.UUID, notes string) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Notes = &notes
	return nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── TableRepository ──────────────────────────────────────────────────────────

type stubTableRepo struct {
	tables map[uuid.UUID]*model.Table
}

func newStubTableRepo() *stubTableRepo {
	return &stubTableRepo{tables: make(map[uuid.UUID]*model.Table)}
}

func (r *stubTableRepo) Create(_ context.Context, t *model.Table) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = "empty"
	}
	r.tables[t.ID] = t
	return nil
}

func (r *stubTableRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Table, error) {
	t, ok := r.tables[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTableRepo) FindByNumber(_ context.Context, number int) (*model.Table, error) {
	for _, t := range r.tables {
		if t.TableNumber == number {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTableRepo) List(_ context.Context) ([]model.Table, error) {
	var result []model.Table
	for _, t := range r.tables {
		result = append(result, *t)
	}
	return result, nil
}

func (r *stubTableRepo) Update(_ context.Context, t *model.Table) error {
	r.tables[t.ID] = t
	return nil
}

func (r *stubTableRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.tables, id)
	return nil
}

func (r *stubTableRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	return r.UpdateStatusTx(nil, id, status)
}

func (r *stubTableRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	t, ok := r.tables[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Status = status
	return nil
}

var _ repository.TableRepository = (*stubTableRepo)(nil)

// ── ProductRepository ────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var result []model.Product
	for _, p := range r.products {
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsAvailable = false
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsAvailable = true
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── UserRepository ───────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		if u.IsActive {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		result = append(result, *u)
	}
	return result, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsActive = false
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsActive = true
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
