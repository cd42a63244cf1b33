package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodmarket/internal/domain"
	"foodmarket/internal/events"
	"foodmarket/internal/metrics"
	"foodmarket/internal/repository"
)

// countingOrders считает попытки записи заказов
type countingOrders struct {
	repository.OrderRepository
	creates int
	lastID  string
}

func (c *countingOrders) CreateOrder(ctx context.Context, o *domain.Order) error {
	c.creates++
	err := c.OrderRepository.CreateOrder(ctx, o)
	c.lastID = o.ID
	return err
}

type recordingPublisher struct {
	events []events.OrderPlaced
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, e events.OrderPlaced) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

type fixture struct {
	store     *repository.MemoryStore
	orders    *countingOrders
	catalog   *CatalogService
	ledger    *Ledger
	svc       *OrderService
	publisher *recordingPublisher
	hook      *test.Hook
	customer  *domain.Customer
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	orders := &countingOrders{OrderRepository: repository.NewMemoryOrders(store)}
	tx := repository.NewMemoryTx(store)
	catalog := NewCatalogService(store, store, tx)
	ledger := NewLedger(orders, store, tx)
	pub := &recordingPublisher{}
	logger, hook := test.NewNullLogger()
	svc := NewOrderService(store, NewReconciler(catalog), ledger, pub, metrics.NewRegistry(), logger)

	c := domain.Customer{Email: "john@example.com", Phone: "9876543210"}
	require.NoError(t, store.CreateCustomer(context.Background(), &c))

	return &fixture{store: store, orders: orders, catalog: catalog, ledger: ledger, svc: svc, publisher: pub, hook: hook, customer: &c}
}

func (f *fixture) food(t *testing.T, id, price string) domain.FoodItem {
	t.Helper()
	food := domain.FoodItem{ID: id, VendorID: "v1", Name: "food " + id, Price: decimal.RequireFromString(price), FoodType: []string{"veg"}}
	require.NoError(t, f.store.CreateFood(context.Background(), &food))
	return food
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPlaceOrder_DropsMissingItem(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.food(t, "F1", "4.50")

	o, err := f.svc.PlaceOrder(ctx, f.customer.ID, []domain.CartLine{
		{FoodID: "F1", Unit: 2},
		{FoodID: "F9-missing", Unit: 5},
	})
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	assert.Equal(t, "F1", o.Items[0].Food.ID)
	assert.Equal(t, 2, o.Items[0].Unit)
	assert.True(t, o.Items[0].Subtotal.Equal(dec("9.00")), "subtotal %s", o.Items[0].Subtotal)
	assert.True(t, o.TotalAmount.Equal(dec("9.00")), "total %s", o.TotalAmount)
	assert.Equal(t, domain.OrderStatusWaiting, o.OrderStatus)
	assert.Equal(t, domain.PaymentCOD, o.PaidThrough)
	assert.Empty(t, o.PaymentResponse)
	assert.False(t, o.OrderDate.IsZero())
	assert.Len(t, o.OrderID, 5)
}

func TestPlaceOrder_SubtotalUsesCatalogPrice(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.food(t, "A", "12.75")
	b := f.food(t, "B", "0.99")

	o, err := f.svc.PlaceOrder(ctx, f.customer.ID, []domain.CartLine{{FoodID: "A", Unit: 3}, {FoodID: "B", Unit: 7}})
	require.NoError(t, err)

	stored, err := f.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	prices := map[string]decimal.Decimal{"A": a.Price, "B": b.Price}
	sum := decimal.Zero
	for _, it := range stored.Items {
		want := prices[it.Food.ID].Mul(decimal.NewFromInt(int64(it.Unit)))
		assert.True(t, it.Subtotal.Equal(want), "%s: %s != %s", it.Food.ID, it.Subtotal, want)
		sum = sum.Add(it.Subtotal)
	}
	assert.True(t, stored.TotalAmount.Equal(sum))
	assert.True(t, stored.TotalAmount.Equal(dec("45.18")))
}

func TestPlaceOrder_PartialMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.food(t, "F1", "1")
	f.food(t, "F2", "2")

	o, err := f.svc.PlaceOrder(ctx, f.customer.ID, []domain.CartLine{
		{FoodID: "x1", Unit: 1},
		{FoodID: "F1", Unit: 1},
		{FoodID: "x2", Unit: 1},
		{FoodID: "F2", Unit: 1},
		{FoodID: "x3", Unit: 1},
	})
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	// cart order is preserved
	assert.Equal(t, "F1", o.Items[0].Food.ID)
	assert.Equal(t, "F2", o.Items[1].Food.ID)
}

func TestPlaceOrder_AllInvalid(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.food(t, "F1", "1")

	_, err := f.svc.PlaceOrder(ctx, f.customer.ID, []domain.CartLine{{FoodID: "nope", Unit: 1}, {FoodID: "gone", Unit: 2}})
	assert.ErrorIs(t, err, ErrNoMatchingItems)
	assert.Zero(t, f.orders.creates)

	c, _ := f.store.GetCustomer(ctx, f.customer.ID)
	assert.Empty(t, c.Orders)
}

func TestPlaceOrder_EmptyFoodIDIsDropped(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.food(t, "F1", "4.50")

	o, err := f.svc.PlaceOrder(ctx, f.customer.ID, []domain.CartLine{{FoodID: "F1", Unit: 2}, {FoodID: "", Unit: 1}})
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "F1", o.Items[0].Food.ID)
	assert.True(t, o.TotalAmount.Equal(dec("9")), "total %s", o.TotalAmount)
	assert.Equal(t, 1, f.orders.creates)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.PlaceOrder(ctx, f.customer.ID, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
	_, err = f.svc.PlaceOrder(ctx, f.customer.ID, []domain.CartLine{})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, f.orders.creates)
}

func TestPlaceOrder_FractionalPricesSumExactly(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.food(t, "P1", "3.33")
	f.food(t, "P2", "3.33")
	f.food(t, "P3", "3.33")

	o, err := f.svc.PlaceOrder(ctx, f.customer.ID, []domain.CartLine{{FoodID: "P1", Unit: 1}, {FoodID: "P2", Unit: 1}, {FoodID: "P3", Unit: 1}})
	require.NoError(t, err)
	assert.Equal(t, "9.99", o.TotalAmount.String())
}

func TestPlaceOrder_RepeatedFoodKeepsBothLines(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.food(t, "F1", "2.10")

	o, err := f.svc.PlaceOrder(ctx, f.customer.ID, []domain.CartLine{{FoodID: "F1", Unit: 1}, {FoodID: "F1", Unit: 2}})
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.True(t, o.TotalAmount.Equal(dec("6.30")))
}

func TestPlaceOrder_LinksOrderToCustomer(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.food(t, "F1", "5")

	o, err := f.svc.PlaceOrder(ctx, f.customer.ID, []domain.CartLine{{FoodID: "F1", Unit: 1}})
	require.NoError(t, err)

	c, err := f.store.GetCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	count := 0
	for _, id := range c.Orders {
		if id == o.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)

	list, err := f.svc.ListForCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, o.ID, list[0].ID)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, o.OrderID, f.publisher.events[0].OrderID)
	assert.Equal(t, f.customer.ID, f.publisher.events[0].CustomerID)
}

func TestPlaceOrder_InvalidUnit(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.food(t, "F1", "5")

	for _, unit := range []int{0, -1} {
		_, err := f.svc.PlaceOrder(ctx, f.customer.ID, []domain.CartLine{{FoodID: "F1", Unit: unit}})
		assert.ErrorIs(t, err, ErrInvalidUnit)
	}
	assert.Zero(t, f.orders.creates)
}

func TestPlaceOrder_CustomerNotFound(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.food(t, "F1", "5")

	_, err := f.svc.PlaceOrder(ctx, "ghost", []domain.CartLine{{FoodID: "F1", Unit: 1}})
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = f.svc.ListForCustomer(ctx, "ghost")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestPlaceOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.food(t, "F1", "5")
	f.publisher.err = errors.New("broker down")

	o, err := f.svc.PlaceOrder(ctx, f.customer.ID, []domain.CartLine{{FoodID: "F1", Unit: 1}})
	require.NoError(t, err)

	_, err = f.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)

	failed := false
	for _, e := range f.hook.AllEntries() {
		if e.Message == "publish order event" {
			failed = true
		}
	}
	assert.True(t, failed, "publish failure must be logged")
}

func TestLedger_LinkFailureLeavesNoOrder(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	food := f.food(t, "F1", "5")

	cart := &domain.PricedCart{Lines: []domain.PricedCartLine{{Food: food, Unit: 1}}}
	_, err := f.ledger.Create(ctx, "ghost", cart)
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	require.Equal(t, 1, f.orders.creates)
	_, err = f.ledger.FindByID(ctx, f.orders.lastID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestLedger_RecomputesTotals(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	food := f.food(t, "F1", "1.25")

	// a caller-supplied total or subtotal never reaches the store
	cart := &domain.PricedCart{
		Lines: []domain.PricedCartLine{{Food: food, Unit: 4, Subtotal: dec("100")}},
		Total: dec("100"),
	}
	o, err := f.ledger.Create(ctx, f.customer.ID, cart)
	require.NoError(t, err)
	assert.True(t, o.TotalAmount.Equal(dec("5")))
	assert.True(t, o.Items[0].Subtotal.Equal(dec("5")))

	_, err = f.ledger.Create(ctx, f.customer.ID, &domain.PricedCart{})
	assert.ErrorIs(t, err, ErrNoMatchingItems)
}

func TestLedger_OrderIDsUnique(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.food(t, "F1", "1")

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		o, err := f.svc.PlaceOrder(ctx, f.customer.ID, []domain.CartLine{{FoodID: "F1", Unit: 1}})
		require.NoError(t, err)
		require.False(t, seen[o.OrderID], "duplicate order id %s", o.OrderID)
		seen[o.OrderID] = true
	}

	list, err := f.svc.ListForCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := setup(t)
	_, err := f.svc.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = f.svc.GetOrder(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetCustomerOrder_Ownership(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.food(t, "F1", "2")

	o, err := f.svc.PlaceOrder(ctx, f.customer.ID, []domain.CartLine{{FoodID: "F1", Unit: 1}})
	require.NoError(t, err)

	own, err := f.svc.GetCustomerOrder(ctx, f.customer.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderID, own.OrderID)

	other := domain.Customer{Email: "jane@example.com", Phone: "9876543211"}
	require.NoError(t, f.store.CreateCustomer(ctx, &other))
	_, err = f.svc.GetCustomerOrder(ctx, other.ID, o.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.svc.GetCustomerOrder(ctx, f.customer.ID, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = f.svc.GetCustomerOrder(ctx, "ghost", o.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
