package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/formrules/pkg/validator"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "formrules"

// Validation kinds.
const (
	KindRule   = "rule"
	KindRules  = "rules"
	KindFields = "fields"
	KindForm   = "form"
)

// Validation outcomes.
const (
	OutcomePass  = "pass"
	OutcomeFail  = "fail"
	OutcomeError = "error"
)

// Config holds the metric settings.
type Config struct {
	Enabled   bool   `env:"ENABLED" envDefault:"true"`
	Namespace string `env:"NAMESPACE" envDefault:"formrules"`
}

// Collector owns a private Prometheus registry with the validation and HTTP
// metrics. A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	validations  *prometheus.CounterVec
	ruleFailures *prometheus.CounterVec
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// New creates a Collector. An empty namespace means DefaultNamespace.
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Validation calls by kind and outcome.",
		}, []string{"kind", "outcome"}),
		ruleFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_failures_total",
			Help:      "Failed rule evaluations by rule name.",
		}, []string{"rule"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(
		c.validations,
		c.ruleFailures,
		c.requests,
		c.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveValidation counts one validation call and each failed rule named
// in failed. Names outside the catalogue count as "unknown".
func (c *Collector) ObserveValidation(kind, outcome string, failed ...string) {
	if c == nil {
		return
	}
	c.validations.WithLabelValues(kind, outcome).Inc()
	for _, rule := range failed {
		if rule == "" {
			continue
		}
		label := "unknown"
		if name, ok := validator.Lookup(rule); ok {
			label = name.String()
		}
		c.ruleFailures.WithLabelValues(label).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// Middleware records request count and duration labelled by the chi route
// pattern, so path parameters do not create new series.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
