package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/model"
	"github.com/sefedemircan/triz-pos/internal/repository"
	"github.com/sefedemircan/triz-pos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubStockCategoryRepo struct {
	categories map[uuid.UUID]*model.StockCategory
}

func (r *stubStockCategoryRepo) Create(_ context.Context, c *model.StockCategory) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categories[c.ID] = c
	return nil
}

func (r *stubStockCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StockCategory, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubStockCategoryRepo) List(_ context.Context) ([]model.StockCategory, error) {
	var result []model.StockCategory
	for _, c := range r.categories {
		result = append(result, *c)
	}
	return result, nil
}

func (r *stubStockCategoryRepo) Update(_ context.Context, c *model.StockCategory) error {
	r.categories[c.ID] = c
	return nil
}

func (r *stubStockCategoryRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

var _ repository.StockCategoryRepository = (*stubStockCategoryRepo)(nil)

type inventoryFixture struct {
	stock *stockFixture
	svc   service.InventoryService
}

func newInventoryFixture() *inventoryFixture {
	stock := newStockFixture()
	categories := &stubStockCategoryRepo{categories: make(map[uuid.UUID]*model.StockCategory)}
	return &inventoryFixture{
		stock: stock,
		svc:   service.NewInventoryService(stock.items, categories, stock.moves, stock.alerts, stock.svc),
	}
}

func TestCreateStockItemJournalsOpeningBalance(t *testing.T) {
	f := newInventoryFixture()

	resp, err := f.svc.CreateStockItem(context.Background(), dto.CreateStockItemRequest{
		Name:          "Tomatoes",
		Unit:          "kg",
		CurrentStock:  dec("25"),
		MinStockLevel: dec("5"),
	}, uuid.New())
	require.NoError(t, err)
	assert.True(t, resp.CurrentStock.Equal(dec("25")))

	require.Len(t, f.stock.moves.movements, 1, "opening balance must enter through the ledger")
	m := f.stock.moves.movements[0]
	assert.Equal(t, "in", m.Type)
	assert.Equal(t, "manual", m.ReferenceType)
	assert.True(t, m.Quantity.Equal(dec("25")))
	assert.True(t, m.PreviousStock.Equal(dec("0")))
	assert.True(t, m.NewStock.Equal(dec("25")))
}

func TestCreateStockItemZeroBalanceWritesNoMovement(t *testing.T) {
	f := newInventoryFixture()

	_, err := f.svc.CreateStockItem(context.Background(), dto.CreateStockItemRequest{
		Name: "Napkins",
		Unit: "piece",
	}, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, f.stock.moves.movements)
}

func TestCreateStockItemRejectsNegativeLevels(t *testing.T) {
	f := newInventoryFixture()

	_, err := f.svc.CreateStockItem(context.Background(), dto.CreateStockItemRequest{
		Name:         "Broken",
		Unit:         "kg",
		CurrentStock: dec("-1"),
	}, uuid.New())
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)
}

func TestCreateStockItemRejectsMaxBelowMin(t *testing.T) {
	f := newInventoryFixture()

	_, err := f.svc.CreateStockItem(context.Background(), dto.CreateStockItemRequest{
		Name:          "Sugar",
		Unit:          "kg",
		MinStockLevel: dec("10"),
		MaxStockLevel: dec("5"),
	}, uuid.New())
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)
}

func TestCreateStockItemAllowsUnsetMax(t *testing.T) {
	f := newInventoryFixture()

	// A zero max means "no ceiling", so it never conflicts with the minimum.
	_, err := f.svc.CreateStockItem(context.Background(), dto.CreateStockItemRequest{
		Name:          "Salt",
		Unit:          "kg",
		MinStockLevel: dec("10"),
	}, uuid.New())
	assert.NoError(t, err)
}

func TestUpdateStockItemRejectsMaxBelowMin(t *testing.T) {
	f := newInventoryFixture()
	itemID := f.stock.addItem(t, "Beans", "10", "2")

	max := dec("1")
	_, err := f.svc.UpdateStockItem(context.Background(), itemID, dto.UpdateStockItemRequest{
		MaxStockLevel: &max,
	})
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)

	item, lookupErr := f.svc.GetStockItem(context.Background(), itemID)
	require.NoError(t, lookupErr)
	assert.True(t, item.MaxStockLevel.Sign() == 0, "rejected update must not persist")
}

func TestUpdateStockItemNeverTouchesQuantity(t *testing.T) {
	f := newInventoryFixture()
	itemID := f.stock.addItem(t, "Beans", "10", "2")

	name := "Arabica Beans"
	min := dec("4")
	resp, err := f.svc.UpdateStockItem(context.Background(), itemID, dto.UpdateStockItemRequest{
		Name:          &name,
		MinStockLevel: &min,
	})
	require.NoError(t, err)
	assert.Equal(t, "Arabica Beans", resp.Name)
	assert.True(t, resp.CurrentStock.Equal(dec("10")), "updates carry the existing quantity unchanged")
	assert.Empty(t, f.stock.moves.movements)
}

func TestScanExpiryRaisesAlertsOnce(t *testing.T) {
	f := newInventoryFixture()

	expired := time.Now().Add(-24 * time.Hour)
	soon := time.Now().Add(3 * 24 * time.Hour)
	far := time.Now().Add(60 * 24 * time.Hour)

	mk := func(name string, expiry time.Time) {
		item := &model.StockItem{Name: name, Unit: "kg", IsActive: true, ExpiryDate: &expiry}
		require.NoError(t, f.stock.items.Create(context.Background(), item))
	}
	mk("Old Milk", expired)
	mk("Yogurt", soon)
	mk("Canned Beans", far)

	// Deactivated stock is out of rotation and must not alert.
	retired := &model.StockItem{Name: "Retired Cream", Unit: "liter", IsActive: false, ExpiryDate: &expired}
	require.NoError(t, f.stock.items.Create(context.Background(), retired))

	raised, err := f.svc.ScanExpiry(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, raised)

	types := map[string]int{}
	for _, a := range f.stock.alerts.alerts {
		types[a.AlertType]++
	}
	assert.Equal(t, 1, types["expired"])
	assert.Equal(t, 1, types["expiring_soon"])

	// A second scan must not duplicate open alerts.
	raised, err = f.svc.ScanExpiry(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, raised)
}

func TestAcknowledgeAlert(t *testing.T) {
	f := newInventoryFixture()
	itemID := f.stock.addItem(t, "Beans", "0", "5")

	f.stock.svc.RaiseLowStockAlerts(context.Background(), []service.DeductedItem{{
		StockItemID: itemID,
		Name:        "Beans",
		Unit:        "kg",
		NewStock:    dec("0"),
		MinLevel:    dec("5"),
	}})
	require.Len(t, f.stock.alerts.alerts, 1)
	alertID := f.stock.alerts.alerts[0].ID

	userID := uuid.New()
	require.NoError(t, f.svc.AcknowledgeAlert(context.Background(), alertID, userID))

	open, err := f.svc.ListAlerts(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, open, "acknowledged alerts drop out of the default listing")

	all, err := f.svc.ListAlerts(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
