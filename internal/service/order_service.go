package service

import (
	"context"
	"errors"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"

	"foodmarket/internal/domain"
	"foodmarket/internal/events"
	"foodmarket/internal/metrics"
	"foodmarket/internal/repository"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrOrderNotFound    = errors.New("order not found")
)

// OrderService реализует логику заказов: оформление и чтение истории
type OrderService struct {
	customers  repository.CustomerRepository
	reconciler *Reconciler
	ledger     *Ledger
	publisher  events.Publisher
	metrics    *metrics.Registry
	log        log.FieldLogger
}

func NewOrderService(
	customers repository.CustomerRepository,
	reconciler *Reconciler,
	ledger *Ledger,
	publisher events.Publisher,
	m *metrics.Registry,
	logger log.FieldLogger,
) *OrderService {
	return &OrderService{
		customers:  customers,
		reconciler: reconciler,
		ledger:     ledger,
		publisher:  publisher,
		metrics:    m,
		log:        logger,
	}
}

// PlaceOrder сверяет корзину с каталогом и сохраняет заказ покупателя
func (s *OrderService) PlaceOrder(ctx context.Context, customerID string, cart []domain.CartLine) (*domain.Order, error) {
	start := time.Now()
	logger := s.log.WithField("customerId", customerID)

	if _, err := s.customer(ctx, customerID); err != nil {
		s.reject(err)
		return nil, err
	}

	priced, err := s.reconciler.Reconcile(ctx, customerID, cart)
	if err != nil {
		s.reject(err)
		logger.WithError(err).Info("cart rejected")
		return nil, err
	}
	if priced.Dropped > 0 {
		s.metrics.CartLinesDropped.Add(float64(priced.Dropped))
		logger.WithField("dropped", priced.Dropped).Warn("cart lines without catalog match were dropped")
	}

	order, err := s.ledger.Create(ctx, customerID, priced)
	if err != nil {
		s.reject(err)
		logger.WithError(err).Error("order not persisted")
		return nil, err
	}

	// the order is committed at this point; a lost event is only logged
	if err := s.publisher.PublishOrderPlaced(ctx, events.NewOrderPlaced(customerID, order)); err != nil {
		s.metrics.EventPublishFails.Inc()
		logger.WithError(err).WithField("orderID", order.OrderID).Error("publish order event")
	}

	s.metrics.OrdersPlaced.Inc()
	s.metrics.OrderTotal.Observe(order.TotalAmount.InexactFloat64())
	s.metrics.PlacementLatency.Observe(time.Since(start).Seconds())
	logger.WithFields(log.Fields{
		"orderID":     order.OrderID,
		"lines":       len(order.Items),
		"totalAmount": order.TotalAmount.String(),
	}).Info("order placed")
	return order, nil
}

// GetOrder возвращает заказ по id
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.ledger.FindByID(ctx, orderID)
}

// GetCustomerOrder возвращает заказ, только если он принадлежит покупателю.
// Чужой заказ неотличим от несуществующего.
func (s *OrderService) GetCustomerOrder(ctx context.Context, customerID, orderID string) (*domain.Order, error) {
	c, err := s.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if orderID == "" || !slices.Contains(c.Orders, orderID) {
		return nil, ErrOrderNotFound
	}
	return s.ledger.FindByID(ctx, orderID)
}

// ListForCustomer история заказов в порядке добавления
func (s *OrderService) ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	c, err := s.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.ledger.FindMany(ctx, c.Orders)
}

func (s *OrderService) customer(ctx context.Context, customerID string) (*domain.Customer, error) {
	if customerID == "" {
		return nil, ErrInvalidInput
	}
	c, err := s.customers.GetCustomer(ctx, customerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

func (s *OrderService) reject(err error) {
	reason := "internal"
	switch {
	case errors.Is(err, ErrEmptyCart):
		reason = "empty_cart"
	case errors.Is(err, ErrInvalidUnit), errors.Is(err, ErrInvalidInput):
		reason = "invalid_input"
	case errors.Is(err, ErrNoMatchingItems):
		reason = "no_match"
	case errors.Is(err, ErrCustomerNotFound):
		reason = "customer_not_found"
	}
	s.metrics.OrdersRejected.WithLabelValues(reason).Inc()
}
