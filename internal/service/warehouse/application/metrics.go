package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warehouse_reservations_total",
		Help: "Number of successfully reserved order lines.",
	})

	releasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warehouse_releases_total",
		Help: "Number of released order lines.",
	})

	reservationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_reservation_failures_total",
		Help: "Number of failed reservation attempts by reason.",
	}, []string{"reason"})
)
