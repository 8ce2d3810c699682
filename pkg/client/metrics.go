package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requestDuration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		requestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stargate",
			Name:      "client_request_duration_seconds",
			Help:      "Time spent executing requests against the query endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
	}
}
