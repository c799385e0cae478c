package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filterRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cityops_filter_requests_total",
		Help: "Total number of filter evaluations per entity",
	}, []string{"entity"})

	filterResultSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cityops_filter_result_size",
		Help:    "Number of records returned by a filter evaluation",
		Buckets: prometheus.LinearBuckets(0, 25, 9),
	}, []string{"entity"})

	filterDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cityops_filter_duration_seconds",
		Help:    "Filter evaluation latency",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	}, []string{"entity"})
)

func observeFilter(entity string, start time.Time, results int) {
	filterRequests.WithLabelValues(entity).Inc()
	filterResultSize.WithLabelValues(entity).Observe(float64(results))
	filterDuration.WithLabelValues(entity).Observe(time.Since(start).Seconds())
}
