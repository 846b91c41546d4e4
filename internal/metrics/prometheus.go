package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tool metrics
	ToolExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zoracoin_tool_executions_total",
			Help: "Total number of tool executions",
		},
		[]string{"tool", "outcome"}, // outcome: success|in_band_error|rejected|failed
	)

	ToolLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zoracoin_tool_latency_seconds",
			Help:    "Tool execution latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"tool"},
	)

	// Coins API metrics
	ZoraAPICalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zoracoin_api_calls_total",
			Help: "Total number of coins REST API calls",
		},
		[]string{"endpoint", "status"}, // status: success|error|rate_limited
	)

	ZoraAPILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zoracoin_api_latency_seconds",
			Help:    "Coins REST API latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"endpoint"},
	)

	// Journal metrics
	JournalRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zoracoin_journal_rows_total",
			Help: "Journal rows flushed to ClickHouse",
		},
		[]string{"table", "status"}, // status: success|error
	)

	// Event stream metrics
	KafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zoracoin_kafka_messages_total",
			Help: "Total coin events produced",
		},
		[]string{"topic", "status"},
	)
)

var initOnce sync.Once

// Init registers all metrics with Prometheus. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(ToolExecutions)
		prometheus.MustRegister(ToolLatency)

		prometheus.MustRegister(ZoraAPICalls)
		prometheus.MustRegister(ZoraAPILatency)

		prometheus.MustRegister(JournalRows)
		prometheus.MustRegister(KafkaMessages)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordToolExecution records a finished tool call
func RecordToolExecution(tool, outcome string, latency time.Duration) {
	ToolExecutions.WithLabelValues(tool, outcome).Inc()
	ToolLatency.WithLabelValues(tool).Observe(latency.Seconds())
}

// RecordZoraAPICall records a coins REST API call
func RecordZoraAPICall(endpoint string, latency time.Duration, rateLimited bool, err error) {
	s := status(err)
	if rateLimited {
		s = "rate_limited"
	}
	ZoraAPICalls.WithLabelValues(endpoint, s).Inc()
	ZoraAPILatency.WithLabelValues(endpoint).Observe(latency.Seconds())
}

// RecordJournalFlush matches clickhouse.FlushObserver
func RecordJournalFlush(table string, rows int, err error) {
	JournalRows.WithLabelValues(table, status(err)).Add(float64(rows))
}

// RecordKafkaMessage records one produced event
func RecordKafkaMessage(topic string, err error) {
	KafkaMessages.WithLabelValues(topic, status(err)).Inc()
}
