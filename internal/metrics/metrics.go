package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	OrdersPlaced      prometheus.Counter
	OrdersRejected    *prometheus.CounterVec
	CartLinesDropped  prometheus.Counter
	OrderTotal        prometheus.Histogram
	PlacementLatency  prometheus.Histogram
	EventPublishFails prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	placed := prometheus.NewCounter(prometheus.CounterOpts{Name: "food_orders_placed_total"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "food_orders_rejected_total"}, []string{"reason"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{Name: "food_cart_lines_dropped_total"})
	total := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "food_order_total_amount",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500},
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "food_order_placement_seconds",
		Buckets: prometheus.DefBuckets,
	})
	publishFails := prometheus.NewCounter(prometheus.CounterOpts{Name: "food_order_event_publish_failed_total"})

	r.MustRegister(placed, rejected, dropped, total, latency, publishFails)
	return &Registry{
		reg:               r,
		OrdersPlaced:      placed,
		OrdersRejected:    rejected,
		CartLinesDropped:  dropped,
		OrderTotal:        total,
		PlacementLatency:  latency,
		EventPublishFails: publishFails,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
