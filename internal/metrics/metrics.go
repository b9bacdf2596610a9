package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess       = "success"
	OutcomeAPIError      = "api_error"
	OutcomeResourceError = "resource_error"
)

// Recorder owns the collectors so tests can use a private registry.
type Recorder struct {
	registry *prometheus.Registry

	themeLoads      *prometheus.CounterVec
	apiDuration     prometheus.Histogram
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Recorder {
	recorder := &Recorder{
		registry: prometheus.NewRegistry(),
		themeLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "theme_loads_total",
				Help: "Theme page loads by outcome",
			},
			[]string{"outcome"},
		),
		apiDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "theme_api_request_duration_seconds",
			Help:    "Duration of theme API requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.1, 0.5, 1, 2, 5},
			},
			[]string{"method"},
		),
	}

	recorder.registry.MustRegister(
		recorder.themeLoads,
		recorder.apiDuration,
		recorder.requestCounter,
		recorder.requestDuration,
	)
	return recorder
}

func (r *Recorder) ThemeLoaded(outcome string) {
	if r == nil {
		return
	}
	r.themeLoads.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveAPI(duration time.Duration) {
	if r == nil {
		return
	}
	r.apiDuration.Observe(duration.Seconds())
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, req)

		r.requestCounter.WithLabelValues(req.Method, strconv.Itoa(recorder.status)).Inc()
		r.requestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(statusCode int) {
	if !s.wroteHeader {
		s.status = statusCode
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(statusCode)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
