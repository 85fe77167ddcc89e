package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	basketOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_operations_total",
			Help: "Basket operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	checkouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_checkouts_total",
			Help: "Checkout attempts by order sink and outcome",
		},
		[]string{"sink", "outcome"},
	)

	checkoutValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "basket_checkout_value",
			Help:    "Total value of successfully placed pre-orders",
			Buckets: []float64{5, 10, 20, 50, 100, 200, 500},
		},
	)

	corruptLoads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "basket_corrupt_loads_total",
			Help: "Stored baskets that could not be decoded on load",
		},
	)
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
