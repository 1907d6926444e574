package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hunt_http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		},
		[]string{"method", "route", "status"},
	)
	scanDecodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hunt_scan_decodes_total",
			Help: "Uploaded-image QR decode attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(httpRequests)
	prometheus.MustRegister(scanDecodes)
}
