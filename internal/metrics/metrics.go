package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the application's Prometheus collectors on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	alertsChecked    prometheus.Counter
	alertsTriggered  prometheus.Counter
	notifyFailures   *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	lastPrice        *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		alertsChecked: f.NewCounter(prometheus.CounterOpts{
			Name: "cryptofollow_alerts_checked_total",
			Help: "Total number of active alerts evaluated",
		}),
		alertsTriggered: f.NewCounter(prometheus.CounterOpts{
			Name: "cryptofollow_alerts_triggered_total",
			Help: "Total number of alerts that fired",
		}),
		notifyFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptofollow_notify_failures_total",
			Help: "Total number of failed notification deliveries",
		}, []string{"channel"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptofollow_http_requests_total",
			Help: "Total number of HTTP requests served",
		}, []string{"method", "status"}),
		analysisDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cryptofollow_analysis_duration_seconds",
			Help:    "Duration of coin analyses in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		lastPrice: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cryptofollow_last_price",
			Help: "Last recorded price for a symbol",
		}, []string{"symbol"}),
	}
}

// RecordAlertCheck records one alert sweep.
func (r *Recorder) RecordAlertCheck(checked, triggered int) {
	r.alertsChecked.Add(float64(checked))
	r.alertsTriggered.Add(float64(triggered))
}

func (r *Recorder) RecordNotifyFailure(channel string) {
	r.notifyFailures.WithLabelValues(channel).Inc()
}

func (r *Recorder) RecordHTTPRequest(method string, status int) {
	r.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// ObserveAnalysis records analysis latency in seconds.
func (r *Recorder) ObserveAnalysis(seconds float64) {
	r.analysisDuration.Observe(seconds)
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
