package repository

import (
	"context"
	"errors"
	"fmt"

	"foodmarket/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// ErrDuplicate нарушение уникальности (email, номер заказа)
var ErrDuplicate = errors.New("duplicate")

// FoodFilter параметры фильтрации каталога
type FoodFilter struct {
	VendorID     string
	MaxReadyTime *int
}

func (f FoodFilter) match(food domain.FoodItem) bool {
	if f.VendorID != "" && food.VendorID != f.VendorID {
		return false
	}
	if f.MaxReadyTime != nil && food.ReadyTime > *f.MaxReadyTime {
		return false
	}
	return true
}

// FoodRepository интерфейс каталога блюд
type FoodRepository interface {
	CreateFood(ctx context.Context, f *domain.FoodItem) error
	GetFood(ctx context.Context, id string) (*domain.FoodItem, error)
	// FindFoods возвращает только найденные блюда, неизвестные id пропускаются
	FindFoods(ctx context.Context, ids []string) ([]domain.FoodItem, error)
	ListFoods(ctx context.Context, f FoodFilter) ([]domain.FoodItem, error)
}

// CustomerRepository интерфейс репозитория покупателей
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, c *domain.Customer) error
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	AppendOrder(ctx context.Context, customerID, orderID string) error
	UpdateCustomerProfile(ctx context.Context, id, firstName, lastName, address string) error
}

// VendorFilter параметры выборки ресторанов. Limit 0 означает без ограничения.
type VendorFilter struct {
	Pincode       string
	AvailableOnly bool
	Limit         int
}

func (f VendorFilter) match(v domain.Vendor) bool {
	if f.Pincode != "" && v.Pincode != f.Pincode {
		return false
	}
	if f.AvailableOnly && !v.ServiceAvailable {
		return false
	}
	return true
}

// VendorProfile изменяемые поля профиля ресторана
type VendorProfile struct {
	Name     string
	Address  string
	Phone    string
	FoodType []string
}

// VendorRepository интерфейс репозитория ресторанов
type VendorRepository interface {
	CreateVendor(ctx context.Context, v *domain.Vendor) error
	GetVendor(ctx context.Context, id string) (*domain.Vendor, error)
	GetVendorByEmail(ctx context.Context, email string) (*domain.Vendor, error)
	// ListVendors сортирует по рейтингу по убыванию
	ListVendors(ctx context.Context, f VendorFilter) ([]domain.Vendor, error)
	UpdateVendorProfile(ctx context.Context, id string, p VendorProfile) error
	SetServiceAvailable(ctx context.Context, id string, available bool) error
	AppendFood(ctx context.Context, vendorID, foodID string) error
}

// OrderRepository интерфейс журнала заказов. Обновления нет: заказ неизменяем.
type OrderRepository interface {
	NextOrderNumber(ctx context.Context) (int64, error)
	CreateOrder(ctx context.Context, o *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	GetOrders(ctx context.Context, ids []string) ([]domain.Order, error)
}

// TxManager абстракция транзакции
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// orderNumberBase первый выданный номер будет 10001
const orderNumberBase = 10000

// FormatOrderNumber человекочитаемый номер заказа
func FormatOrderNumber(n int64) string {
	return fmt.Sprintf("%05d", n)
}
