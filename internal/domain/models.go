package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// totalAmount и price отдаются клиенту числами, а не строками
	decimal.MarshalJSONWithoutQuotes = true
}

// FoodItem блюдо, опубликованное вендором
type FoodItem struct {
	ID          string          `json:"id"`
	VendorID    string          `json:"vendorId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	FoodType    []string        `json:"foodType"`
	ReadyTime   int             `json:"readyTime"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	Images      []string        `json:"images"`
}

// CartLine позиция корзины от клиента. Цены здесь нет и быть не должно.
type CartLine struct {
	FoodID string `json:"foodItemId"`
	Unit   int    `json:"unit"`
}

// PricedCartLine позиция с ценой из каталога
type PricedCartLine struct {
	Food     FoodItem        `json:"food"`
	Unit     int             `json:"unit"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// PricedCart результат сверки корзины с каталогом
type PricedCart struct {
	Lines []PricedCartLine
	Total decimal.Decimal
	// Dropped сколько позиций корзины не нашлось в каталоге
	Dropped int
}

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusWaiting   OrderStatus = "waiting"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentCOD оплата при получении, других способов пока нет
const PaymentCOD = "COD"

// Order сущность заказа. После сохранения позиции и сумма не меняются.
type Order struct {
	ID              string           `json:"id"`
	OrderID         string           `json:"orderID"`
	Items           []PricedCartLine `json:"items"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	OrderDate       time.Time        `json:"orderDate"`
	PaidThrough     string           `json:"paidThrough"`
	PaymentResponse string           `json:"paymentResponse"`
	OrderStatus     OrderStatus      `json:"orderStatus"`
}

// Customer покупатель. Orders хранит только идентификаторы заказов.
type Customer struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	PasswordHash string   `json:"-"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Address      string   `json:"address"`
	Verified     bool     `json:"verified"`
	Orders       []string `json:"orders"`
}

// Vendor ресторан-поставщик. Foods хранит идентификаторы блюд меню.
type Vendor struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	OwnerName        string   `json:"ownerName"`
	FoodType         []string `json:"foodType"`
	Pincode          string   `json:"pincode"`
	Address          string   `json:"address"`
	Phone            string   `json:"phone"`
	Email            string   `json:"email"`
	PasswordHash     string   `json:"-"`
	ServiceAvailable bool     `json:"serviceAvailability"`
	CoverImages      []string `json:"coverImages"`
	Rating           float64  `json:"rating"`
	Foods            []string `json:"foods"`
}
