package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"foodmarket/internal/domain"
)

func TestOrderDoc_KeepsExactAmounts(t *testing.T) {
	price := decimal.RequireFromString("3.33")
	o := domain.Order{
		ID:      "o1",
		OrderID: "10001",
		Items: []domain.PricedCartLine{
			{Food: domain.FoodItem{ID: "F1", Price: price}, Unit: 3, Subtotal: price.Mul(decimal.NewFromInt(3))},
		},
		TotalAmount: decimal.RequireFromString("9.99"),
		OrderDate:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		PaidThrough: domain.PaymentCOD,
		OrderStatus: domain.OrderStatusWaiting,
	}

	doc, err := newOrderDoc(o)
	require.NoError(t, err)
	assert.Equal(t, "9.99", doc.TotalAmount.String())

	back, err := doc.toDomain()
	require.NoError(t, err)
	assert.True(t, back.TotalAmount.Equal(o.TotalAmount))
	assert.True(t, back.Items[0].Subtotal.Equal(decimal.RequireFromString("9.99")))
	assert.True(t, back.Items[0].Food.Price.Equal(price))
	assert.Equal(t, domain.OrderStatusWaiting, back.OrderStatus)
}

func TestCustomerDoc_NilOrdersStoredAsEmpty(t *testing.T) {
	doc := newCustomerDoc(domain.Customer{ID: "c1", Email: "a@b.c"})
	assert.NotNil(t, doc.Orders)
	assert.Empty(t, doc.toDomain().Orders)
}

func TestVendorDoc_NilFoodsStoredAsEmpty(t *testing.T) {
	doc := newVendorDoc(domain.Vendor{ID: "v1", Email: "v@x.test"})
	assert.NotNil(t, doc.Foods)
	assert.Empty(t, doc.toDomain().Foods)
}

func TestWithTransaction_CompensatesInReverse(t *testing.T) {
	store := &MongoStore{}
	boom := errors.New("boom")
	var ran []string

	err := store.WithTransaction(context.Background(), func(ctx context.Context) error {
		compensate(ctx, func(context.Context) error { ran = append(ran, "first"); return nil })
		compensate(ctx, func(context.Context) error { ran = append(ran, "second"); return nil })
		return boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, []string{"second", "first"}, ran)
}

func TestWithTransaction_UndoFailureKeepsCause(t *testing.T) {
	store := &MongoStore{}
	boom := errors.New("boom")
	undoErr := errors.New("undo failed")
	var ran int

	err := store.WithTransaction(context.Background(), func(ctx context.Context) error {
		compensate(ctx, func(context.Context) error { ran++; return nil })
		compensate(ctx, func(context.Context) error { ran++; return undoErr })
		return boom
	})
	var cerr *CompensationError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []error{undoErr}, cerr.Undo)
	assert.Equal(t, 2, ran, "every step runs even after a failure")
}

func TestWithTransaction_CommitSkipsCompensation(t *testing.T) {
	store := &MongoStore{}
	ran := false
	err := store.WithTransaction(context.Background(), func(ctx context.Context) error {
		compensate(ctx, func(context.Context) error { ran = true; return nil })
		return nil
	})
	require.NoError(t, err)
	assert.False(t, ran)
}

func mockStore(mt *mtest.T) *MongoStore {
	return &MongoStore{client: mt.Client, db: mt.DB}
}

func commandNames(mt *mtest.T) []string {
	var out []string
	for _, e := range mt.GetAllStartedEvents() {
		out = append(out, e.CommandName)
	}
	return out
}

func toBSON(t *testing.T, v any) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

var (
	matchedOne  = mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1})
	matchedNone = mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0})
	deletedOne  = mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1})
	writeFailed = mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "rejected"})
)

func TestMongoStore_WritePaths(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("link failure deletes the order", func(mt *mtest.T) {
		store := mockStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(), matchedNone, deletedOne)

		o := domain.Order{OrderID: "10001", TotalAmount: decimal.NewFromInt(9)}
		err := store.WithTransaction(context.Background(), func(ctx context.Context) error {
			if err := store.CreateOrder(ctx, &o); err != nil {
				return err
			}
			return store.AppendOrder(ctx, "missing-customer", o.ID)
		})
		assert.ErrorIs(t, err, ErrNotFound)

		events := mt.GetAllStartedEvents()
		require.Len(t, events, 3)
		assert.Equal(t, []string{"insert", "update", "delete"}, []string{events[0].CommandName, events[1].CommandName, events[2].CommandName})
		assert.Equal(t, ordersCollection, events[2].Command.Lookup("delete").StringValue())
		assert.Equal(t, o.ID, events[2].Command.Lookup("deletes", "0", "q", "_id").StringValue())
	})

	mt.Run("undo failure reports compensation error", func(mt *mtest.T) {
		store := mockStore(mt)
		// insert, push, then the reversed undo: pull fails, delete succeeds
		mt.AddMockResponses(mtest.CreateSuccessResponse(), matchedOne, writeFailed, deletedOne)

		boom := errors.New("publish aborted")
		o := domain.Order{OrderID: "10002", TotalAmount: decimal.NewFromInt(1)}
		err := store.WithTransaction(context.Background(), func(ctx context.Context) error {
			if err := store.CreateOrder(ctx, &o); err != nil {
				return err
			}
			if err := store.AppendOrder(ctx, "c1", o.ID); err != nil {
				return err
			}
			return boom
		})
		var cerr *CompensationError
		require.ErrorAs(t, err, &cerr)
		assert.ErrorIs(t, err, boom)
		assert.Len(t, cerr.Undo, 1)
		assert.Equal(t, []string{"insert", "update", "update", "delete"}, commandNames(mt))
	})

	mt.Run("unmatched append registers no undo", func(mt *mtest.T) {
		store := mockStore(mt)
		mt.AddMockResponses(matchedNone)

		err := store.WithTransaction(context.Background(), func(ctx context.Context) error {
			return store.AppendOrder(ctx, "missing-customer", "o1")
		})
		assert.ErrorIs(t, err, ErrNotFound)
		var cerr *CompensationError
		assert.False(t, errors.As(err, &cerr))
		assert.Equal(t, []string{"update"}, commandNames(mt))
	})

	mt.Run("food link failure deletes the food", func(mt *mtest.T) {
		store := mockStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(), matchedNone, deletedOne)

		f := domain.FoodItem{Name: "Dosa", Price: decimal.NewFromInt(2)}
		err := store.WithTransaction(context.Background(), func(ctx context.Context) error {
			if err := store.CreateFood(ctx, &f); err != nil {
				return err
			}
			return store.AppendFood(ctx, "missing-vendor", f.ID)
		})
		assert.ErrorIs(t, err, ErrNotFound)

		events := mt.GetAllStartedEvents()
		require.Len(t, events, 3)
		assert.Equal(t, foodsCollection, events[2].Command.Lookup("delete").StringValue())
		assert.Equal(t, f.ID, events[2].Command.Lookup("deletes", "0", "q", "_id").StringValue())
	})

	mt.Run("get orders keeps requested order", func(mt *mtest.T) {
		store := mockStore(mt)
		mk := func(id, number string) bson.D {
			doc, err := newOrderDoc(domain.Order{ID: id, OrderID: number, TotalAmount: decimal.NewFromInt(1)})
			require.NoError(t, err)
			return toBSON(t, doc)
		}
		ns := mt.DB.Name() + "." + ordersCollection
		// the server answers in its own order
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, mk("o2", "10002"), mk("o1", "10001")))

		got, err := store.GetOrders(context.Background(), []string{"o1", "gone", "o2"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "o1", got[0].ID)
		assert.Equal(t, "o2", got[1].ID)
	})

	mt.Run("list vendors sorts by rating and limits", func(mt *mtest.T) {
		store := mockStore(mt)
		ns := mt.DB.Name() + "." + vendorsCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			toBSON(t, newVendorDoc(domain.Vendor{ID: "v1", Rating: 4, ServiceAvailable: true, Pincode: "560001"})),
		))

		got, err := store.ListVendors(context.Background(), VendorFilter{Pincode: "560001", AvailableOnly: true, Limit: 10})
		require.NoError(t, err)
		require.Len(t, got, 1)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(t, "560001", cmd.Lookup("filter", "pincode").StringValue())
		assert.True(t, cmd.Lookup("filter", "serviceAvailability").Boolean())
		assert.Equal(t, int32(-1), cmd.Lookup("sort", "rating").Int32())
		assert.Equal(t, int64(10), cmd.Lookup("limit").Int64())
	})
}
