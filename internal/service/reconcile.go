package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"foodmarket/internal/domain"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidUnit     = errors.New("unit must be a positive integer")
	ErrNoMatchingItems = errors.New("no matching food items found")
)

// CatalogLookup источник доверенных цен
type CatalogLookup interface {
	Resolve(ctx context.Context, ids []string) (map[string]domain.FoodItem, error)
}

// Reconciler сверяет корзину клиента с каталогом
type Reconciler struct {
	catalog CatalogLookup
}

func NewReconciler(catalog CatalogLookup) *Reconciler {
	return &Reconciler{catalog: catalog}
}

// Reconcile считает корзину по ценам каталога. Позиции с неизвестными блюдами
// (включая пустой id) отбрасываются; если не совпало ни одной, возвращается ErrNoMatchingItems.
func (r *Reconciler) Reconcile(ctx context.Context, customerID string, cart []domain.CartLine) (*domain.PricedCart, error) {
	if customerID == "" {
		return nil, ErrInvalidInput
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}
	ids := make([]string, 0, len(cart))
	for _, line := range cart {
		if line.Unit <= 0 {
			return nil, ErrInvalidUnit
		}
		if line.FoodID != "" {
			ids = append(ids, line.FoodID)
		}
	}

	foods, err := r.catalog.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	priced := &domain.PricedCart{Total: decimal.Zero}
	// cart order is kept; price always comes from the catalog
	for _, line := range cart {
		food, ok := foods[line.FoodID]
		if !ok || line.FoodID == "" {
			priced.Dropped++
			continue
		}
		sub := food.Price.Mul(decimal.NewFromInt(int64(line.Unit)))
		priced.Lines = append(priced.Lines, domain.PricedCartLine{Food: food, Unit: line.Unit, Subtotal: sub})
		priced.Total = priced.Total.Add(sub)
	}
	if len(priced.Lines) == 0 {
		return nil, ErrNoMatchingItems
	}
	return priced, nil
}
