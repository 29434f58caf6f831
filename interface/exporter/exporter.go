package exporter

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	METRIC_ESTIMATE_COUNT = "estimate_count"
	METRIC_SENT_COUNT     = "sent_count"
	METRIC_ERROR_COUNT    = "error_count"
)

var (
	counters map[string]prometheus.Counter
)

func Init() {

	// Create metric spaces
	counters = make(map[string]prometheus.Counter)

	// Register metrics
	register(METRIC_ESTIMATE_COUNT, "Counts the number of fee estimations")
	register(METRIC_SENT_COUNT, "Counts the number of broadcast transfers")
	register(METRIC_ERROR_COUNT, "Counts the number of failed operations")
}

func register(name string, help string) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sender",
		Subsystem: "pipeline",
		Name:      name,
		Help:      help,
	})
	prometheus.MustRegister(counter)
	counters[name] = counter
}

// Serve exposes the metrics endpoint. It blocks.
func Serve(address string) error {
	http.Handle("/metrics", promhttp.Handler())
	log.Printf("🔵 serving metrics [address: %v]\n", address)
	return http.ListenAndServe(address, nil)
}

func GetCounter(name string) prometheus.Counter {
	return counters[name]
}

// The increments are safe to call before Init, so tests exercising the
// interactors need no metrics setup.

func IncEstimateCount() {
	inc(METRIC_ESTIMATE_COUNT)
}

func IncSentCount() {
	inc(METRIC_SENT_COUNT)
}

func IncErrorCount() {
	inc(METRIC_ERROR_COUNT)
}

func inc(name string) {
	if counter, ok := counters[name]; ok {
		counter.Inc()
	}
}
