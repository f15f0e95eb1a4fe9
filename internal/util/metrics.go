package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart mutations",
	}, []string{"operation"})

	OrdersInitiatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_initiated_total",
		Help: "Total number of orders created from cart lines",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Total number of rejected checkout attempts",
	}, []string{"reason"})

	PaymentIntentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_intents_issued_total",
		Help: "Total number of payment intents issued",
	})

	ProcessorFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_processor_failures_total",
		Help: "Total number of payment processor failures",
	}, []string{"operation"})

	ProcessorLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_processor_latency_seconds",
		Help:    "Latency of payment processor calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	OrdersConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_confirmed_total",
		Help: "Total number of orders reconciled to confirmed",
	})

	DuplicateConfirmationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_duplicate_confirmations_total",
		Help: "Total number of confirmations that found the order already confirmed",
	})

	GateDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "access_gate_decisions_total",
		Help: "Total number of access gate decisions",
	}, []string{"outcome", "reason"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
