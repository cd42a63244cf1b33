package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesCounters(t *testing.T) {
	r := NewRegistry()
	r.OrdersPlaced.Inc()
	r.OrdersRejected.WithLabelValues("empty_cart").Inc()

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(w.Body)

	for _, want := range []string{
		"food_orders_placed_total 1",
		`food_orders_rejected_total{reason="empty_cart"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
}
