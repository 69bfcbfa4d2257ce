package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	engineCommands    *prometheus.CounterVec
	engineLatency     *prometheus.HistogramVec
	tricksAnimated    prometheus.Counter
	undoEngineSteps   prometheus.Histogram
	undoCeilingHits   prometheus.Counter
	analysisRefreshes prometheus.Counter
	aiAnomalies       prometheus.Counter
	gamesStarted      prometheus.Counter
	gamesFinished     *prometheus.CounterVec
	webClients        prometheus.Gauge
}

// EngineCommand records one gateway call and its outcome ("ok", "rejected" or "error").
func (m *metrics) EngineCommand(command, result string, took time.Duration) {
	m.engineCommands.WithLabelValues(command, result).Inc()
	m.engineLatency.WithLabelValues(command).Observe(took.Seconds())
}

func (m *metrics) TrickAnimated() {
	m.tricksAnimated.Inc()
}

func (m *metrics) UndoCascade(engineSteps int, hitCeiling bool) {
	m.undoEngineSteps.Observe(float64(engineSteps))
	if hitCeiling {
		m.undoCeilingHits.Inc()
	}
}

func (m *metrics) AnalysisRefreshed() {
	m.analysisRefreshes.Inc()
}

func (m *metrics) AIAnomaly() {
	m.aiAnomalies.Inc()
}

func (m *metrics) GameStarted() {
	m.gamesStarted.Inc()
}

// GameFinished counts a completed hand by outcome ("win" or "loss").
func (m *metrics) GameFinished(outcome string) {
	m.gamesFinished.WithLabelValues(outcome).Inc()
}

func (m *metrics) SetWebClients(count int) {
	m.webClients.Set(float64(count))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

var Metrics = &metrics{
	engineCommands: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skatdesk_engine_commands_total",
		Help: "Total number of engine gateway calls by command and result",
	}, []string{"command", "result"}),
	engineLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skatdesk_engine_command_seconds",
		Help:    "Latency of engine gateway calls",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"command"}),
	tricksAnimated: promauto.NewCounter(prometheus.CounterOpts{
		Name: "skatdesk_tricks_animated_total",
		Help: "Total number of completed tricks that ran the collection animation",
	}),
	undoEngineSteps: promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "skatdesk_undo_engine_steps",
		Help:    "Engine-level undo calls issued per undo request",
		Buckets: prometheus.LinearBuckets(1, 2, 10),
	}),
	undoCeilingHits: promauto.NewCounter(prometheus.CounterOpts{
		Name: "skatdesk_undo_ceiling_hits_total",
		Help: "Total number of undo cascades stopped by the attempt ceiling",
	}),
	analysisRefreshes: promauto.NewCounter(prometheus.CounterOpts{
		Name: "skatdesk_analysis_refreshes_total",
		Help: "Total number of debounced analysis refreshes sent to the engine",
	}),
	aiAnomalies: promauto.NewCounter(prometheus.CounterOpts{
		Name: "skatdesk_ai_anomalies_total",
		Help: "Total number of AI moves the engine refused on an AI turn",
	}),
	gamesStarted: promauto.NewCounter(prometheus.CounterOpts{
		Name: "skatdesk_games_started_total",
		Help: "Total number of hands dealt",
	}),
	gamesFinished: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skatdesk_games_finished_total",
		Help: "Total number of hands played to the end by outcome",
	}, []string{"outcome"}),
	webClients: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "skatdesk_web_clients",
		Help: "Number of connected websocket clients",
	}),
}
