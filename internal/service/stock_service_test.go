package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/model"
	"github.com/sefedemircan/triz-pos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockFixture struct {
	items   *stubStockItemRepo
	moves   *stubMovementRepo
	recipes *stubRecipeRepo
	alerts  *stubAlertRepo
	svc     service.StockService
}

func newStockFixture() *stockFixture {
	items := newStubStockItemRepo()
	moves := &stubMovementRepo{}
	recipes := newStubRecipeRepo(items)
	alerts := &stubAlertRepo{}
	return &stockFixture{
		items:   items,
		moves:   moves,
		recipes: recipes,
		alerts:  alerts,
		svc:     service.NewStockService(items, moves, recipes, alerts, nil),
	}
}

func (f *stockFixture) addItem(t *testing.T, name, stock, min string) uuid.UUID {
	t.Helper()
	item := &model.StockItem{
		Name:          name,
		Unit:          "kg",
		CurrentStock:  dec(stock),
		MinStockLevel: dec(min),
		IsActive:      true,
	}
	require.NoError(t, f.items.Create(context.Background(), item))
	return item.ID
}

func (f *stockFixture) addRecipe(t *testing.T, productID, itemID uuid.UUID, qty string, critical bool) {
	t.Helper()
	require.NoError(t, f.recipes.Create(context.Background(), &model.ProductRecipe{
		ProductID:      productID,
		StockItemID:    itemID,
		QuantityNeeded: dec(qty),
		Unit:           "kg",
		IsCritical:     critical,
	}))
}

// ── Availability ─────────────────────────────────────────────────────────────

func TestCheckAvailabilityAggregatesSharedIngredients(t *testing.T) {
	f := newStockFixture()
	coffee := f.addItem(t, "Coffee Beans", "4", "1")

	espresso := uuid.New()
	latte := uuid.New()
	f.addRecipe(t, espresso, coffee, "1", true)
	f.addRecipe(t, latte, coffee, "1", true)

	// 2 espressos + 3 lattes both draw from the same beans: total demand is 5.
	resp, err := f.svc.CheckAvailability(context.Background(), []service.OrderLine{
		{ProductID: espresso, Quantity: 2},
		{ProductID: latte, Quantity: 3},
	})
	require.NoError(t, err)

	require.Len(t, resp.Requirements, 1, "shared ingredient must fold into one requirement")
	assert.True(t, resp.Requirements[0].QuantityNeeded.Equal(dec("5")))
	assert.False(t, resp.CanFulfill, "stock of 4 cannot cover a demand of 5")
	require.Len(t, resp.InsufficientItems, 1)
	assert.Equal(t, "Coffee Beans", resp.InsufficientItems[0].StockItemName)
}

func TestCheckAvailabilityRecipelessProductIsUnconstrained(t *testing.T) {
	f := newStockFixture()

	resp, err := f.svc.CheckAvailability(context.Background(), []service.OrderLine{
		{ProductID: uuid.New(), Quantity: 10},
	})
	require.NoError(t, err)
	assert.True(t, resp.CanFulfill)
	assert.Empty(t, resp.Requirements)
}

func TestCheckAvailabilityRejectsNonPositiveQuantity(t *testing.T) {
	f := newStockFixture()

	_, err := f.svc.CheckAvailability(context.Background(), []service.OrderLine{
		{ProductID: uuid.New(), Quantity: 0},
	})
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)
}

// ── Production capacity ──────────────────────────────────────────────────────

func TestProductionCapacityIsBoundByScarcestIngredient(t *testing.T) {
	f := newStockFixture()
	milk := f.addItem(t, "Milk", "10", "2")   // 10 / 2 = 5 portions
	beans := f.addItem(t, "Beans", "9", "1")  // 9 / 3 = 3 portions

	latte := uuid.New()
	f.addRecipe(t, latte, milk, "2", false)
	f.addRecipe(t, latte, beans, "3", true)

	capacity, unlimited, err := f.svc.ProductionCapacity(context.Background(), latte)
	require.NoError(t, err)
	assert.False(t, unlimited)
	assert.Equal(t, int64(3), capacity)
}

func TestProductionCapacityUnlimitedWithoutRecipe(t *testing.T) {
	f := newStockFixture()

	_, unlimited, err := f.svc.ProductionCapacity(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, unlimited)
}

func TestProductionCapacityRejectsZeroConsumptionRow(t *testing.T) {
	f := newStockFixture()
	item := f.addItem(t, "Flour", "10", "1")
	pizza := uuid.New()
	f.addRecipe(t, pizza, item, "0", false)

	_, _, err := f.svc.ProductionCapacity(context.Background(), pizza)
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)
}

// ── Depletion ────────────────────────────────────────────────────────────────

func TestDeductForOrderDecrementsStockAndJournals(t *testing.T) {
	f := newStockFixture()
	beans := f.addItem(t, "Beans", "10", "2")

	espresso := uuid.New()
	f.addRecipe(t, espresso, beans, "1", true)

	orderID, userID := uuid.New(), uuid.New()
	err := f.svc.DeductForOrder(context.Background(), []service.OrderLine{
		{ProductID: espresso, Quantity: 3},
	}, orderID, userID)
	require.NoError(t, err)

	item, err := f.items.FindByID(context.Background(), beans)
	require.NoError(t, err)
	assert.True(t, item.CurrentStock.Equal(dec("7")))

	require.Len(t, f.moves.movements, 1, "one aggregated movement per ingredient, not per line")
	m := f.moves.movements[0]
	assert.Equal(t, "out", m.Type)
	assert.Equal(t, "order", m.ReferenceType)
	require.NotNil(t, m.ReferenceID)
	assert.Equal(t, orderID, *m.ReferenceID)
	assert.True(t, m.Quantity.Equal(dec("3")))
	assert.True(t, m.PreviousStock.Equal(dec("10")))
	assert.True(t, m.NewStock.Equal(dec("7")))
}

func TestDeductForOrderRejectsShortfall(t *testing.T) {
	f := newStockFixture()
	beans := f.addItem(t, "Beans", "2", "1")

	espresso := uuid.New()
	f.addRecipe(t, espresso, beans, "1", true)

	err := f.svc.DeductForOrder(context.Background(), []service.OrderLine{
		{ProductID: espresso, Quantity: 3},
	}, uuid.New(), uuid.New())

	var insufficient *service.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Items, 1)
	assert.True(t, insufficient.Items[0].CurrentStock.Equal(dec("2")))
	assert.True(t, insufficient.Items[0].QuantityNeeded.Equal(dec("3")))

	assert.Empty(t, f.moves.movements, "a rejected order must leave no ledger entries")
	item, _ := f.items.FindByID(context.Background(), beans)
	assert.True(t, item.CurrentStock.Equal(dec("2")), "stock untouched on rejection")
}

// ── Restoration ──────────────────────────────────────────────────────────────

func TestRestoreForOrderReplaysOnCurrentStock(t *testing.T) {
	f := newStockFixture()
	beans := f.addItem(t, "Beans", "10", "2")

	espresso := uuid.New()
	f.addRecipe(t, espresso, beans, "1", true)

	orderID, userID := uuid.New(), uuid.New()
	require.NoError(t, f.svc.DeductForOrder(context.Background(), []service.OrderLine{
		{ProductID: espresso, Quantity: 2},
	}, orderID, userID)) // 10 → 8

	// Unrelated purchase lands between deduction and cancellation.
	_, err := f.svc.RecordMovement(context.Background(), dto.RecordMovementRequest{
		StockItemID:   beans.String(),
		Type:          "in",
		Quantity:      dec("5"),
		ReferenceType: "purchase",
	}, userID) // 8 → 13
	require.NoError(t, err)

	require.NoError(t, f.svc.RestoreForOrder(context.Background(), orderID, userID)) // 13 → 15

	item, _ := f.items.FindByID(context.Background(), beans)
	assert.True(t, item.CurrentStock.Equal(dec("15")),
		"restoration adds on top of the current level, it does not rewind history")

	compensations, err := f.moves.FindByReferenceTx(nil, "order_cancel", orderID, "")
	require.NoError(t, err)
	require.Len(t, compensations, 1)
	assert.Equal(t, "in", compensations[0].Type)
	assert.True(t, compensations[0].Quantity.Equal(dec("2")))
}

func TestRestoreForOrderIsIdempotent(t *testing.T) {
	f := newStockFixture()
	beans := f.addItem(t, "Beans", "10", "2")

	espresso := uuid.New()
	f.addRecipe(t, espresso, beans, "1", true)

	orderID, userID := uuid.New(), uuid.New()
	require.NoError(t, f.svc.DeductForOrder(context.Background(), []service.OrderLine{
		{ProductID: espresso, Quantity: 2},
	}, orderID, userID))

	require.NoError(t, f.svc.RestoreForOrder(context.Background(), orderID, userID))
	err := f.svc.RestoreForOrder(context.Background(), orderID, userID)
	assert.ErrorIs(t, err, service.ErrAlreadyRestored)

	item, _ := f.items.FindByID(context.Background(), beans)
	assert.True(t, item.CurrentStock.Equal(dec("10")), "double restore must not double stock")
}

// ── Manual movements ─────────────────────────────────────────────────────────

func TestRecordMovementOutCannotOverdraw(t *testing.T) {
	f := newStockFixture()
	beans := f.addItem(t, "Beans", "4", "1")

	_, err := f.svc.RecordMovement(context.Background(), dto.RecordMovementRequest{
		StockItemID:   beans.String(),
		Type:          "out",
		Quantity:      dec("10"),
		ReferenceType: "waste",
	}, uuid.New())

	var insufficient *service.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	item, _ := f.items.FindByID(context.Background(), beans)
	assert.True(t, item.CurrentStock.Equal(dec("4")))
}

// An adjustment carries the counted level, not a delta: recording 4 against a
// stock of 10 must land the item at 4 and journal a correction of 6.
func TestRecordMovementAdjustmentSetsCountedLevel(t *testing.T) {
	f := newStockFixture()
	beans := f.addItem(t, "Beans", "10", "1")

	resp, err := f.svc.RecordMovement(context.Background(), dto.RecordMovementRequest{
		StockItemID:   beans.String(),
		Type:          "adjustment",
		Quantity:      dec("4"),
		ReferenceType: "manual",
	}, uuid.New())
	require.NoError(t, err)

	item, _ := f.items.FindByID(context.Background(), beans)
	assert.True(t, item.CurrentStock.Equal(dec("4")))

	assert.True(t, resp.Quantity.Equal(dec("6")), "ledger records the size of the correction")
	assert.True(t, resp.PreviousStock.Equal(dec("10")))
	assert.True(t, resp.NewStock.Equal(dec("4")))

	stamp, err := time.Parse(time.RFC3339, resp.CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, stamp.Location(), "timestamps are reported in UTC")
}

func TestRecordMovementAdjustmentCanRaiseLevel(t *testing.T) {
	f := newStockFixture()
	beans := f.addItem(t, "Beans", "10", "1")

	resp, err := f.svc.RecordMovement(context.Background(), dto.RecordMovementRequest{
		StockItemID:   beans.String(),
		Type:          "adjustment",
		Quantity:      dec("12.5"),
		ReferenceType: "manual",
	}, uuid.New())
	require.NoError(t, err)

	item, _ := f.items.FindByID(context.Background(), beans)
	assert.True(t, item.CurrentStock.Equal(dec("12.5")))
	assert.True(t, resp.Quantity.Equal(dec("2.5")))
}

func TestRecordMovementAdjustmentToZeroIsACount(t *testing.T) {
	f := newStockFixture()
	beans := f.addItem(t, "Beans", "3", "1")

	_, err := f.svc.RecordMovement(context.Background(), dto.RecordMovementRequest{
		StockItemID:   beans.String(),
		Type:          "adjustment",
		Quantity:      dec("0"),
		ReferenceType: "manual",
	}, uuid.New())
	require.NoError(t, err)

	item, _ := f.items.FindByID(context.Background(), beans)
	assert.True(t, item.CurrentStock.Equal(dec("0")))
}

func TestRecordMovementRejectsNonPositiveQuantity(t *testing.T) {
	f := newStockFixture()
	beans := f.addItem(t, "Beans", "4", "1")

	_, err := f.svc.RecordMovement(context.Background(), dto.RecordMovementRequest{
		StockItemID:   beans.String(),
		Type:          "in",
		Quantity:      dec("0"),
		ReferenceType: "purchase",
	}, uuid.New())
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)
}

// ── Critical items & alerts ──────────────────────────────────────────────────

func TestCriticalItemsSortedByScarcity(t *testing.T) {
	f := newStockFixture()
	f.addItem(t, "Plenty", "100", "5")
	f.addItem(t, "Low", "3", "5")
	f.addItem(t, "Gone", "0", "5")

	items, err := f.svc.CriticalItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Gone", items[0].StockItemName)
	assert.True(t, items[0].IsCritical, "zero stock flags critical")
	assert.Equal(t, "Low", items[1].StockItemName)
	assert.False(t, items[1].IsCritical)
}

func TestRaiseLowStockAlertsDeduplicates(t *testing.T) {
	f := newStockFixture()
	beans := f.addItem(t, "Beans", "1", "5")

	deducted := []service.DeductedItem{{
		StockItemID: beans,
		Name:        "Beans",
		Unit:        "kg",
		Quantity:    dec("4"),
		NewStock:    dec("1"),
		MinLevel:    dec("5"),
	}}

	f.svc.RaiseLowStockAlerts(context.Background(), deducted)
	f.svc.RaiseLowStockAlerts(context.Background(), deducted)

	require.Len(t, f.alerts.alerts, 1, "an open alert must not be duplicated")
	assert.Equal(t, "low_stock", f.alerts.alerts[0].AlertType)
}

func TestRaiseLowStockAlertsFlagsOutOfStock(t *testing.T) {
	f := newStockFixture()
	beans := f.addItem(t, "Beans", "0", "5")

	f.svc.RaiseLowStockAlerts(context.Background(), []service.DeductedItem{{
		StockItemID: beans,
		Name:        "Beans",
		Unit:        "kg",
		Quantity:    dec("5"),
		NewStock:    dec("0"),
		MinLevel:    dec("5"),
	}})

	require.Len(t, f.alerts.alerts, 1)
	assert.Equal(t, "out_of_stock", f.alerts.alerts[0].AlertType)
}

func TestRaiseLowStockAlertsIgnoresHealthyLevels(t *testing.T) {
	f := newStockFixture()
	beans := f.addItem(t, "Beans", "50", "5")

	f.svc.RaiseLowStockAlerts(context.Background(), []service.DeductedItem{{
		StockItemID: beans,
		Name:        "Beans",
		Unit:        "kg",
		Quantity:    dec("1"),
		NewStock:    dec("50"),
		MinLevel:    dec("5"),
	}})
	assert.Empty(t, f.alerts.alerts)
}

// Interleaved deduct/restore across two orders sharing an ingredient: each
// order's compensation only replays its own "out" rows.
func TestRestoreOnlyReplaysOwnMovements(t *testing.T) {
	f := newStockFixture()
	beans := f.addItem(t, "Beans", "10", "1")

	espresso := uuid.New()
	f.addRecipe(t, espresso, beans, "1", false)

	orderA, orderB, userID := uuid.New(), uuid.New(), uuid.New()
	ctx := context.Background()

	require.NoError(t, f.svc.DeductForOrder(ctx, []service.OrderLine{{ProductID: espresso, Quantity: 4}}, orderA, userID)) // 10 → 6
	require.NoError(t, f.svc.DeductForOrder(ctx, []service.OrderLine{{ProductID: espresso, Quantity: 3}}, orderB, userID)) // 6 → 3

	require.NoError(t, f.svc.RestoreForOrder(ctx, orderA, userID)) // 3 → 7

	item, _ := f.items.FindByID(ctx, beans)
	assert.True(t, item.CurrentStock.Equal(dec("7")))

	// Order B can still be restored independently.
	require.NoError(t, f.svc.RestoreForOrder(ctx, orderB, userID)) // 7 → 10
	item, _ = f.items.FindByID(ctx, beans)
	assert.True(t, item.CurrentStock.Equal(dec("10")))
}

func TestDeductForOrderUnknownIngredientFails(t *testing.T) {
	f := newStockFixture()
	ghost := uuid.New()

	espresso := uuid.New()
	// Recipe row pointing at an item that never existed.
	require.NoError(t, f.recipes.Create(context.Background(), &model.ProductRecipe{
		ProductID:      espresso,
		StockItemID:    ghost,
		QuantityNeeded: dec("1"),
		Unit:           "kg",
	}))

	err := f.svc.DeductForOrder(context.Background(), []service.OrderLine{
		{ProductID: espresso, Quantity: 1},
	}, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, service.ErrStockItemNotFound)
}
