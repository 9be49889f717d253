// Package metrics registers Prometheus instruments for the sales back office.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the service layer. A nil *Metrics is a
// valid no-op receiver so tests can skip registration.
type Metrics struct {
	// Sale lifecycle counts by event type
	SaleEvents *prometheus.CounterVec

	// Carts converted to sales
	CartsConverted prometheus.Counter

	// Individual sale lines cancelled
	ItemsCancelled prometheus.Counter

	// HTTP request latency by route and method
	RequestLatency *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		SaleEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "saledesk_sale_events_total",
			Help: "Total sale lifecycle events by type",
		}, []string{"event"}), // event: "created", "modified", "cancelled", "deleted"

		CartsConverted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "saledesk_carts_converted_total",
			Help: "Total carts successfully converted into sales",
		}),

		ItemsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "saledesk_sale_items_cancelled_total",
			Help: "Total individual sale lines cancelled",
		}),

		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "saledesk_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and method",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method"}),
	}
}

func (m *Metrics) IncrementSaleEvent(event string) {
	if m != nil {
		m.SaleEvents.WithLabelValues(event).Inc()
	}
}

func (m *Metrics) IncrementCartsConverted() {
	if m != nil {
		m.CartsConverted.Inc()
	}
}

func (m *Metrics) IncrementItemsCancelled() {
	if m != nil {
		m.ItemsCancelled.Inc()
	}
}

func (m *Metrics) ObserveRequestLatency(route string, method string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, method).Observe(d.Seconds())
	}
}
