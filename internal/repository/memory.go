package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"foodmarket/internal/domain"
)

// MemoryStore объединённое in-memory хранилище каталога, ресторанов и покупателей
type MemoryStore struct {
	mu              sync.RWMutex
	nextOrderNumber int64
	foodsByID       map[string]domain.FoodItem
	foodOrder       []string
	vendorsByID     map[string]domain.Vendor
	vendorOrder     []string
	customersByID   map[string]domain.Customer
	ordersByID      map[string]domain.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextOrderNumber: orderNumberBase + 1,
		foodsByID:       make(map[string]domain.FoodItem),
		vendorsByID:     make(map[string]domain.Vendor),
		customersByID:   make(map[string]domain.Customer),
		ordersByID:      make(map[string]domain.Order),
	}
}

// transaction-aware locking helpers
type txKey struct{}

// txState журнал отката для текущей транзакции
type txState struct {
	undo []func()
}

func txFrom(ctx context.Context) *txState {
	st, _ := ctx.Value(txKey{}).(*txState)
	return st
}

func isTx(ctx context.Context) bool { return txFrom(ctx) != nil }

// onRollback регистрирует обратную операцию; вне транзакции ничего не делает
func onRollback(ctx context.Context, fn func()) {
	if st := txFrom(ctx); st != nil {
		st.undo = append(st.undo, fn)
	}
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var (
	_ FoodRepository     = (*MemoryStore)(nil)
	_ VendorRepository   = (*MemoryStore)(nil)
	_ CustomerRepository = (*MemoryStore)(nil)
)

// FoodRepository implementation
func (m *MemoryStore) CreateFood(ctx context.Context, f *domain.FoodItem) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if _, ok := m.foodsByID[f.ID]; ok {
		return ErrDuplicate
	}
	m.foodsByID[f.ID] = cloneFood(*f)
	m.foodOrder = append(m.foodOrder, f.ID)
	id := f.ID
	onRollback(ctx, func() {
		delete(m.foodsByID, id)
		m.foodOrder = slices.DeleteFunc(m.foodOrder, func(x string) bool { return x == id })
	})
	return nil
}

func (m *MemoryStore) GetFood(ctx context.Context, id string) (*domain.FoodItem, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	f, ok := m.foodsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneFood(f)
	return &cp, nil
}

func (m *MemoryStore) FindFoods(ctx context.Context, ids []string) ([]domain.FoodItem, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.FoodItem, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if f, ok := m.foodsByID[id]; ok {
			out = append(out, cloneFood(f))
		}
	}
	return out, nil
}

func (m *MemoryStore) ListFoods(ctx context.Context, f FoodFilter) ([]domain.FoodItem, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.FoodItem, 0)
	for _, id := range m.foodOrder {
		food := m.foodsByID[id]
		if !f.match(food) {
			continue
		}
		out = append(out, cloneFood(food))
	}
	return out, nil
}

// VendorRepository implementation
func (m *MemoryStore) CreateVendor(ctx context.Context, v *domain.Vendor) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	for _, existing := range m.vendorsByID {
		if existing.Email == v.Email {
			return ErrDuplicate
		}
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if _, ok := m.vendorsByID[v.ID]; ok {
		return ErrDuplicate
	}
	if v.Foods == nil {
		v.Foods = []string{}
	}
	m.vendorsByID[v.ID] = cloneVendor(*v)
	m.vendorOrder = append(m.vendorOrder, v.ID)
	return nil
}

func (m *MemoryStore) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	v, ok := m.vendorsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneVendor(v)
	return &cp, nil
}

func (m *MemoryStore) GetVendorByEmail(ctx context.Context, email string) (*domain.Vendor, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	for _, v := range m.vendorsByID {
		if v.Email == email {
			cp := cloneVendor(v)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListVendors(ctx context.Context, f VendorFilter) ([]domain.Vendor, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Vendor, 0)
	for _, id := range m.vendorOrder {
		v := m.vendorsByID[id]
		if f.match(v) {
			out = append(out, cloneVendor(v))
		}
	}
	// stable: equal ratings keep registration order
	slices.SortStableFunc(out, func(a, b domain.Vendor) int { return cmp.Compare(b.Rating, a.Rating) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *MemoryStore) UpdateVendorProfile(ctx context.Context, id string, p VendorProfile) error {
	return m.updateVendor(ctx, id, func(v *domain.Vendor) {
		v.Name, v.Address, v.Phone = p.Name, p.Address, p.Phone
		v.FoodType = append([]string(nil), p.FoodType...)
	})
}

func (m *MemoryStore) SetServiceAvailable(ctx context.Context, id string, available bool) error {
	return m.updateVendor(ctx, id, func(v *domain.Vendor) { v.ServiceAvailable = available })
}

func (m *MemoryStore) AppendFood(ctx context.Context, vendorID, foodID string) error {
	return m.updateVendor(ctx, vendorID, func(v *domain.Vendor) {
		v.Foods = append(append([]string{}, v.Foods...), foodID)
	})
}

func (m *MemoryStore) updateVendor(ctx context.Context, id string, apply func(v *domain.Vendor)) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	v, ok := m.vendorsByID[id]
	if !ok {
		return ErrNotFound
	}
	prev := cloneVendor(v)
	apply(&v)
	m.vendorsByID[id] = v
	onRollback(ctx, func() { m.vendorsByID[id] = prev })
	return nil
}

// CustomerRepository implementation
func (m *MemoryStore) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	for _, existing := range m.customersByID {
		if existing.Email == c.Email {
			return ErrDuplicate
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Orders == nil {
		c.Orders = []string{}
	}
	m.customersByID[c.ID] = cloneCustomer(*c)
	return nil
}

func (m *MemoryStore) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	c, ok := m.customersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneCustomer(c)
	return &cp, nil
}

func (m *MemoryStore) GetCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	for _, c := range m.customersByID {
		if c.Email == email {
			cp := cloneCustomer(c)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) AppendOrder(ctx context.Context, customerID, orderID string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	c, ok := m.customersByID[customerID]
	if !ok {
		return ErrNotFound
	}
	prev := cloneCustomer(c)
	c.Orders = append(append([]string{}, c.Orders...), orderID)
	m.customersByID[customerID] = c
	onRollback(ctx, func() { m.customersByID[customerID] = prev })
	return nil
}

func (m *MemoryStore) UpdateCustomerProfile(ctx context.Context, id, firstName, lastName, address string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	c, ok := m.customersByID[id]
	if !ok {
		return ErrNotFound
	}
	prev := cloneCustomer(c)
	c.FirstName, c.LastName, c.Address = firstName, lastName, address
	m.customersByID[id] = c
	onRollback(ctx, func() { m.customersByID[id] = prev })
	return nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) NextOrderNumber(ctx context.Context) (int64, error) {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	n := mo.store.nextOrderNumber
	mo.store.nextOrderNumber++
	// the counter is not rolled back: a burned number is never reissued
	return n, nil
}

func (mo *MemoryOrders) CreateOrder(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if _, ok := mo.store.ordersByID[o.ID]; ok {
		return ErrDuplicate
	}
	for _, existing := range mo.store.ordersByID {
		if existing.OrderID == o.OrderID {
			return ErrDuplicate
		}
	}
	mo.store.ordersByID[o.ID] = cloneOrder(*o)
	id := o.ID
	onRollback(ctx, func() { delete(mo.store.ordersByID, id) })
	return nil
}

func (mo *MemoryOrders) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (mo *MemoryOrders) GetOrders(ctx context.Context, ids []string) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		if o, ok := mo.store.ordersByID[id]; ok {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if isTx(ctx) {
		return fn(ctx)
	}
	// Держим блокировку записи всю транзакцию; при ошибке проигрываем журнал отката в обратном порядке
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	st := &txState{}
	if err := fn(context.WithValue(ctx, txKey{}, st)); err != nil {
		for i := len(st.undo) - 1; i >= 0; i-- {
			st.undo[i]()
		}
		return err
	}
	return nil
}

// return copies so callers can't mutate stored state
func cloneFood(f domain.FoodItem) domain.FoodItem {
	f.FoodType = append([]string(nil), f.FoodType...)
	f.Images = append([]string(nil), f.Images...)
	return f
}

func cloneVendor(v domain.Vendor) domain.Vendor {
	v.FoodType = append([]string(nil), v.FoodType...)
	v.CoverImages = append([]string(nil), v.CoverImages...)
	v.Foods = append([]string{}, v.Foods...)
	return v
}

func cloneCustomer(c domain.Customer) domain.Customer {
	c.Orders = append([]string{}, c.Orders...)
	return c
}

func cloneOrder(o domain.Order) domain.Order {
	items := make([]domain.PricedCartLine, len(o.Items))
	for i, it := range o.Items {
		it.Food = cloneFood(it.Food)
		items[i] = it
	}
	o.Items = items
	return o
}
