package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK       = "ok"
	ResultEmpty    = "empty"
	ResultRejected = "rejected"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tekctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tekctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
	downlinkPayloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tekctl",
			Subsystem: "downlink",
			Name:      "payloads_total",
			Help:      "Parameter write requests assembled, by result.",
		},
		[]string{"result"},
	)
	downlinkBlocks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tekctl",
			Subsystem: "downlink",
			Name:      "blocks_total",
			Help:      "Parameter blocks encoded, by parameter.",
		},
		[]string{"parameter"},
	)
	uplinksDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tekctl",
			Subsystem: "uplink",
			Name:      "decoded_total",
			Help:      "Uplinks decoded, by kind and success.",
		},
		[]string{"kind", "success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, downlinkPayloads, downlinkBlocks, uplinksDecoded)
	})
}

func RecordHTTPRequest(service, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordDownlink counts one assembly attempt and the parameters it carried.
func RecordDownlink(result string, parameters []string) {
	RegisterMetrics()
	downlinkPayloads.WithLabelValues(result).Inc()
	for _, p := range parameters {
		downlinkBlocks.WithLabelValues(p).Inc()
	}
}

func RecordUplink(kind string, success bool) {
	RegisterMetrics()
	uplinksDecoded.WithLabelValues(kind, strconv.FormatBool(success)).Inc()
}
