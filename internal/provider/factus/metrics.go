package factus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tokenRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "factus_token_refreshes_total",
		Help: "Total number of successful Factus token exchanges",
	})

	tokenRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "factus_token_refresh_failures_total",
		Help: "Total number of failed Factus token exchanges",
	})

	invoiceValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factus_invoice_validations_total",
		Help: "Total number of invoice validation calls to Factus",
	}, []string{"outcome"})
)
