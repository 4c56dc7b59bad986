package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warzone2100/chartsvg/chart"
)

var (
	metricsRegistry = prometheus.NewRegistry()

	rendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartsvg_renders_total",
			Help: "Chart renders by chart type and result code.",
		},
		[]string{"type", "result"},
	)
	renderSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chartsvg_render_seconds",
			Help:    "Time spent rendering successful charts.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"type"},
	)
)

func init() {
	metricsRegistry.MustRegister(
		rendersTotal,
		renderSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// observeRender records one render attempt. Failed renders are counted under
// their error code.
func observeRender(kind chart.Kind, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = chart.ErrorCode(err)
		if result == "" {
			result = "error"
		}
	} else {
		renderSeconds.WithLabelValues(string(kind)).Observe(took.Seconds())
	}
	rendersTotal.WithLabelValues(string(kind), result).Inc()
}

func metricsHandler() http.Handler {
	return promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{})
}
