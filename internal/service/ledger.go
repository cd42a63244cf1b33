package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"foodmarket/internal/domain"
	"foodmarket/internal/repository"
)

// Ledger создаёт заказы и связывает их с покупателем
type Ledger struct {
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	tx        repository.TxManager
	now       func() time.Time
}

func NewLedger(orders repository.OrderRepository, customers repository.CustomerRepository, tx repository.TxManager) *Ledger {
	return &Ledger{orders: orders, customers: customers, tx: tx, now: time.Now}
}

// Create атомарно сохраняет заказ и добавляет его id покупателю:
// видны либо обе записи, либо ни одной.
func (l *Ledger) Create(ctx context.Context, customerID string, cart *domain.PricedCart) (*domain.Order, error) {
	if customerID == "" {
		return nil, ErrInvalidInput
	}
	if cart == nil || len(cart.Lines) == 0 {
		return nil, ErrNoMatchingItems
	}

	// subtotals and total are recomputed so the stored order always sums up
	items := make([]domain.PricedCartLine, 0, len(cart.Lines))
	total := decimal.Zero
	for _, line := range cart.Lines {
		if line.Unit <= 0 {
			return nil, ErrInvalidUnit
		}
		sub := line.Food.Price.Mul(decimal.NewFromInt(int64(line.Unit)))
		items = append(items, domain.PricedCartLine{Food: line.Food, Unit: line.Unit, Subtotal: sub})
		total = total.Add(sub)
	}

	var created *domain.Order
	err := l.tx.WithTransaction(ctx, func(ctx context.Context) error {
		n, err := l.orders.NextOrderNumber(ctx)
		if err != nil {
			return errors.Wrap(err, "allocate order number")
		}
		o := domain.Order{
			ID:              uuid.NewString(),
			OrderID:         repository.FormatOrderNumber(n),
			Items:           items,
			TotalAmount:     total,
			OrderDate:       l.now().UTC(),
			PaidThrough:     domain.PaymentCOD,
			PaymentResponse: "",
			OrderStatus:     domain.OrderStatusWaiting,
		}
		if err := l.orders.CreateOrder(ctx, &o); err != nil {
			return errors.Wrap(err, "persist order")
		}
		if err := l.customers.AppendOrder(ctx, customerID, o.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCustomerNotFound
			}
			return errors.Wrap(err, "link order to customer")
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// FindByID заказ с позициями (снимки блюд на момент заказа)
func (l *Ledger) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidInput
	}
	o, err := l.orders.GetOrder(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load order")
	}
	return o, nil
}

// FindMany заказы в порядке ids; несуществующие пропускаются
func (l *Ledger) FindMany(ctx context.Context, ids []string) ([]domain.Order, error) {
	orders, err := l.orders.GetOrders(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "load orders")
	}
	return orders, nil
}
