package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "matrimony"

// Registry owns every collector the API exports.
type Registry struct {
	reg               *prometheus.Registry
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	interestsSent     prometheus.Counter
	interestsResolved *prometheus.CounterVec
	matchesRemoved    prometheus.Counter
	messagesSent      prometheus.Counter
}

func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		interestsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interests_sent_total",
			Help:      "Interests created.",
		}),
		interestsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interests_resolved_total",
			Help:      "Interests resolved by the receiver, by decision.",
		}, []string{"decision"}),
		matchesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_removed_total",
			Help:      "Unmatch operations that changed at least one interest.",
		}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Direct messages stored.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpDuration,
		r.interestsSent,
		r.interestsResolved,
		r.matchesRemoved,
		r.messagesSent,
	)
	return r
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Registry) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (r *Registry) InterestSent() {
	if r == nil {
		return
	}
	r.interestsSent.Inc()
}

func (r *Registry) InterestResolved(decision string) {
	if r == nil {
		return
	}
	r.interestsResolved.WithLabelValues(decision).Inc()
}

func (r *Registry) MatchRemoved() {
	if r == nil {
		return
	}
	r.matchesRemoved.Inc()
}

func (r *Registry) MessageSent() {
	if r == nil {
		return
	}
	r.messagesSent.Inc()
}
