package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "educore", Name: "http_requests_total", Help: "Handled API requests",
	}, []string{"method", "route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "educore", Name: "http_request_seconds", Help: "API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "educore", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
	WASends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "educore", Name: "whatsapp_sends_total", Help: "Outbound gateway messages",
	}, []string{"kind", "outcome"})
	PendingScans = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "educore", Name: "pending_scans_total", Help: "Pending-lesson scans",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, DBPing, WASends, PendingScans)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
