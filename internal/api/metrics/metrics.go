// Package metrics defines all custom Prometheus metrics for the pizzeria
// order API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry at import time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pizzeria"

// OrdersCreatedTotal counts placed orders.
// Label:
//   - payment_method: "cash" or "transfer"
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders placed, by payment method.",
	},
	[]string{"payment_method"},
)

// OrderStatusUpdatesTotal counts status overwrites on active orders.
// Label:
//   - status: the new status value (e.g. "InTransit")
var OrderStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_updates_total",
		Help:      "Total number of order status updates, by new status.",
	},
	[]string{"status"},
)

// OrdersArchivedTotal counts orders leaving the active collection.
// Label:
//   - outcome: "completed" or "canceled"
var OrdersArchivedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_archived_total",
		Help:      "Total number of orders archived, by outcome.",
	},
	[]string{"outcome"},
)

// WSSubscribers tracks the number of currently connected dashboard
// subscribers.
var WSSubscribers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_subscribers",
		Help:      "Current number of connected real-time subscribers.",
	},
)
