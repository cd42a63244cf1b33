package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodmarket/internal/domain"
)

func TestNewOrderPlaced(t *testing.T) {
	o := &domain.Order{
		ID:          "o1",
		OrderID:     "10001",
		Items:       []domain.PricedCartLine{{Unit: 2}, {Unit: 1}},
		TotalAmount: decimal.RequireFromString("12.40"),
		OrderDate:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	e := NewOrderPlaced("c1", o)
	assert.Equal(t, "c1", e.CustomerID)
	assert.Equal(t, 2, e.Lines)

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"totalAmount":12.4`)
}

func TestLogPublisher(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)

	p := LogPublisher{Logger: logger}
	err := p.PublishOrderPlaced(context.Background(), OrderPlaced{OrderID: "10001", TotalAmount: decimal.NewFromInt(9)})
	require.NoError(t, err)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "10001", hook.LastEntry().Data["orderID"])
	assert.Equal(t, RoutingKeyOrderPlaced, hook.LastEntry().Data["event"])
}
