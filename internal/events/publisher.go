package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"foodmarket/internal/domain"
)

// RoutingKeyOrderPlaced ключ маршрутизации для новых заказов
const RoutingKeyOrderPlaced = "order.placed"

// OrderPlaced сообщение о новом заказе
type OrderPlaced struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"orderID"`
	CustomerID  string          `json:"customerId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Lines       int             `json:"lines"`
	OrderDate   time.Time       `json:"orderDate"`
}

// NewOrderPlaced собирает событие из сохранённого заказа
func NewOrderPlaced(customerID string, o *domain.Order) OrderPlaced {
	return OrderPlaced{
		ID:          o.ID,
		OrderID:     o.OrderID,
		CustomerID:  customerID,
		TotalAmount: o.TotalAmount,
		Lines:       len(o.Items),
		OrderDate:   o.OrderDate,
	}
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlaced) error
}

// LogPublisher пишет события в лог, когда брокер не настроен
type LogPublisher struct {
	Logger log.FieldLogger
}

func (p LogPublisher) PublishOrderPlaced(_ context.Context, e OrderPlaced) error {
	p.Logger.WithFields(log.Fields{
		"event":       RoutingKeyOrderPlaced,
		"orderID":     e.OrderID,
		"customerId":  e.CustomerID,
		"totalAmount": e.TotalAmount.String(),
	}).Info("order event")
	return nil
}

// AMQPPublisher публикует события в topic exchange RabbitMQ
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   log.FieldLogger
}

func NewAMQPPublisher(url, exchange string, logger log.FieldLogger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "declare exchange %s", exchange)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

func (p *AMQPPublisher) PublishOrderPlaced(ctx context.Context, e OrderPlaced) error {
	body, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKeyOrderPlaced, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return errors.Wrapf(err, "publish to %s", p.exchange)
	}
	p.logger.WithFields(log.Fields{"orderID": e.OrderID, "size": len(body)}).Debug("order event published")
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	return p.conn.Close()
}
