package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "valor_fits_total",
		Help: "Number of model fits served, by convergence outcome.",
	}, []string{"success"})

	fitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "valor_fit_duration_seconds",
		Help:    "Wall-clock duration of model fits.",
		Buckets: prometheus.DefBuckets,
	})
)

func observeFit(success bool, elapsed time.Duration) {
	fitsTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
	fitDuration.Observe(elapsed.Seconds())
}
