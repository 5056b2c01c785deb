package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/model"
	"github.com/sefedemircan/triz-pos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	stock    *stockFixture
	orders   *stubOrderRepo
	tables   *stubTableRepo
	products *stubProductRepo
	svc      service.OrderService
}

func newOrderFixture() *orderFixture {
	stock := newStockFixture()
	orders := newStubOrderRepo()
	tables := newStubTableRepo()
	products := newStubProductRepo()
	return &orderFixture{
		stock:    stock,
		orders:   orders,
		tables:   tables,
		products: products,
		svc:      service.NewOrderService(orders, tables, products, stock.svc, nil),
	}
}

func (f *orderFixture) addTable(t *testing.T, number int) uuid.UUID {
	t.Helper()
	table := &model.Table{TableNumber: number, Capacity: 4, Status: "empty"}
	require.NoError(t, f.tables.Create(context.Background(), table))
	return table.ID
}

func (f *orderFixture) addProduct(t *testing.T, name, price string) uuid.UUID {
	t.Helper()
	p := &model.Product{Name: name, Price: dec(price), IsAvailable: true}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p.ID
}

func TestCreateOrderDeductsStockAndOccupiesTable(t *testing.T) {
	f := newOrderFixture()
	tableID := f.addTable(t, 1)
	espresso := f.addProduct(t, "Espresso", "3.50")
	beans := f.stock.addItem(t, "Beans", "10", "2")
	f.stock.addRecipe(t, espresso, beans, "1", true)

	resp, err := f.svc.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		TableID: tableID.String(),
		Items:   []dto.OrderItemRequest{{ProductID: espresso.String(), Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
	assert.True(t, resp.TotalAmount.Equal(dec("7.00")))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Espresso", resp.Items[0].Product)

	item, _ := f.stock.items.FindByID(context.Background(), beans)
	assert.True(t, item.CurrentStock.Equal(dec("8")))

	table, _ := f.tables.FindByID(context.Background(), tableID)
	assert.Equal(t, "occupied", table.Status)
}

// A failed open-order lookup must surface, not pass for a free table.
func TestCreateOrderSurfacesTableLookupFailure(t *testing.T) {
	f := newOrderFixture()
	tableID := f.addTable(t, 1)
	espresso := f.addProduct(t, "Espresso", "3.50")
	beans := f.stock.addItem(t, "Beans", "10", "2")
	f.stock.addRecipe(t, espresso, beans, "1", true)

	f.orders.findActiveErr = errors.New("connection reset by peer")

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		TableID: tableID.String(),
		Items:   []dto.OrderItemRequest{{ProductID: espresso.String(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrTableOccupied)

	item, _ := f.stock.items.FindByID(context.Background(), beans)
	assert.True(t, item.CurrentStock.Equal(dec("10")), "no deduction on a failed lookup")
	table, _ := f.tables.FindByID(context.Background(), tableID)
	assert.Equal(t, "empty", table.Status)
}

func TestCreateOrderRejectsOccupiedTable(t *testing.T) {
	f := newOrderFixture()
	tableID := f.addTable(t, 1)
	espresso := f.addProduct(t, "Espresso", "3.50")

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		TableID: tableID.String(),
		Items:   []dto.OrderItemRequest{{ProductID: espresso.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		TableID: tableID.String(),
		Items:   []dto.OrderItemRequest{{ProductID: espresso.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrTableOccupied)
}

func TestCreateOrderRejectsUnknownTable(t *testing.T) {
	f := newOrderFixture()
	espresso := f.addProduct(t, "Espresso", "3.50")

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		TableID: uuid.NewString(),
		Items:   []dto.OrderItemRequest{{ProductID: espresso.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrTableNotFound)
}

func TestCreateOrderRejectsShortfall(t *testing.T) {
	f := newOrderFixture()
	tableID := f.addTable(t, 1)
	espresso := f.addProduct(t, "Espresso", "3.50")
	beans := f.stock.addItem(t, "Beans", "1", "1")
	f.stock.addRecipe(t, espresso, beans, "1", true)

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		TableID: tableID.String(),
		Items:   []dto.OrderItemRequest{{ProductID: espresso.String(), Quantity: 5}},
	})

	var insufficient *service.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	table, _ := f.tables.FindByID(context.Background(), tableID)
	assert.Equal(t, "empty", table.Status, "a rejected order must not occupy the table")
}

func TestCreateOrderRejectsZeroQuantity(t *testing.T) {
	f := newOrderFixture()
	tableID := f.addTable(t, 1)
	espresso := f.addProduct(t, "Espresso", "3.50")

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		TableID: tableID.String(),
		Items:   []dto.OrderItemRequest{{ProductID: espresso.String(), Quantity: 0}},
	})
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)
}

func TestCreateOrderFreezesPrices(t *testing.T) {
	f := newOrderFixture()
	tableID := f.addTable(t, 1)
	espresso := f.addProduct(t, "Espresso", "3.50")

	resp, err := f.svc.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		TableID: tableID.String(),
		Items:   []dto.OrderItemRequest{{ProductID: espresso.String(), Quantity: 2}},
	})
	require.NoError(t, err)

	// Menu price changes after the order must not rewrite order history.
	p := f.products.products[espresso]
	p.Price = dec("99.00")

	orderID := uuid.MustParse(resp.ID)
	got, err := f.svc.GetOrder(context.Background(), orderID)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Equal(dec("7.00")))
	assert.True(t, got.Items[0].UnitPrice.Equal(dec("3.50")))
}

func TestMarkReadyTransitions(t *testing.T) {
	f := newOrderFixture()
	tableID := f.addTable(t, 1)
	espresso := f.addProduct(t, "Espresso", "3.50")

	resp, err := f.svc.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		TableID: tableID.String(),
		Items:   []dto.OrderItemRequest{{ProductID: espresso.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	orderID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.MarkReady(context.Background(), orderID))
	got, _ := f.svc.GetOrder(context.Background(), orderID)
	assert.Equal(t, "ready", got.Status)

	err = f.svc.MarkReady(context.Background(), orderID)
	assert.ErrorIs(t, err, service.ErrInvalidTransition, "ready is not re-enterable")
}

func TestCompleteOrderCapturesPaymentAndFreesTable(t *testing.T) {
	f := newOrderFixture()
	tableID := f.addTable(t, 1)
	espresso := f.addProduct(t, "Espresso", "3.50")

	resp, err := f.svc.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		TableID: tableID.String(),
		Items:   []dto.OrderItemRequest{{ProductID: espresso.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	orderID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.CompleteOrder(context.Background(), orderID, dto.CompleteOrderRequest{PaymentMethod: "card"}))

	got, _ := f.svc.GetOrder(context.Background(), orderID)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, "card", got.PaymentMethod)

	table, _ := f.tables.FindByID(context.Background(), tableID)
	assert.Equal(t, "empty", table.Status)

	// Completed orders cannot be completed again or cancelled.
	err = f.svc.CompleteOrder(context.Background(), orderID, dto.CompleteOrderRequest{PaymentMethod: "cash"})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
	err = f.svc.CancelOrder(context.Background(), orderID, uuid.New(), dto.CancelOrderRequest{Reason: "changed mind"})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestCancelOrderRestoresStockAndIsIdempotent(t *testing.T) {
	f := newOrderFixture()
	tableID := f.addTable(t, 1)
	espresso := f.addProduct(t, "Espresso", "3.50")
	beans := f.stock.addItem(t, "Beans", "10", "2")
	f.stock.addRecipe(t, espresso, beans, "1", true)

	userID := uuid.New()
	resp, err := f.svc.CreateOrder(context.Background(), userID, dto.CreateOrderRequest{
		TableID: tableID.String(),
		Items:   []dto.OrderItemRequest{{ProductID: espresso.String(), Quantity: 4}},
	})
	require.NoError(t, err)
	orderID := uuid.MustParse(resp.ID)

	item, _ := f.stock.items.FindByID(context.Background(), beans)
	require.True(t, item.CurrentStock.Equal(dec("6")))

	require.NoError(t, f.svc.CancelOrder(context.Background(), orderID, userID, dto.CancelOrderRequest{Reason: "customer left"}))

	item, _ = f.stock.items.FindByID(context.Background(), beans)
	assert.True(t, item.CurrentStock.Equal(dec("10")))

	got, _ := f.svc.GetOrder(context.Background(), orderID)
	assert.Equal(t, "cancelled", got.Status)
	require.NotNil(t, got.Notes)
	assert.Contains(t, *got.Notes, "customer left")

	table, _ := f.tables.FindByID(context.Background(), tableID)
	assert.Equal(t, "empty", table.Status)

	movementsBefore := len(f.stock.moves.movements)
	require.NoError(t, f.svc.CancelOrder(context.Background(), orderID, userID, dto.CancelOrderRequest{Reason: "again"}),
		"repeated cancellation is a no-op, not an error")
	assert.Equal(t, movementsBefore, len(f.stock.moves.movements), "no extra compensations on repeat")

	item, _ = f.stock.items.FindByID(context.Background(), beans)
	assert.True(t, item.CurrentStock.Equal(dec("10")))
}

func TestCheckStockDelegatesToAvailability(t *testing.T) {
	f := newOrderFixture()
	espresso := f.addProduct(t, "Espresso", "3.50")
	beans := f.stock.addItem(t, "Beans", "3", "1")
	f.stock.addRecipe(t, espresso, beans, "1", true)

	resp, err := f.svc.CheckStock(context.Background(), dto.StockCheckRequest{
		Items: []dto.OrderItemRequest{{ProductID: espresso.String(), Quantity: 5}},
	})
	require.NoError(t, err)
	assert.False(t, resp.CanFulfill)
	require.Len(t, resp.InsufficientItems, 1)
	assert.Equal(t, "Beans", resp.InsufficientItems[0].StockItemName)
}
