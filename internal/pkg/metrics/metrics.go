package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service's collectors. A nil *Registry is valid and
// records nothing.
type Registry struct {
	reg               *prometheus.Registry
	CheckoutOutcomes  *prometheus.CounterVec
	GatewaySessionSec *prometheus.HistogramVec
	OrderSubmissions  *prometheus.CounterVec
	Escalations       prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Finished checkout attempts by result.",
	}, []string{"result"})
	gatewaySec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_gateway_session_seconds",
		Help:    "Latency of payment session creation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "result"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_submissions_total",
		Help: "Order API submissions by result.",
	}, []string{"result"})
	escalations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_escalations_total",
		Help: "Payments completed whose order was not recorded.",
	})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	r.MustRegister(outcomes, gatewaySec, submissions, escalations, requests)
	return &Registry{
		reg:               r,
		CheckoutOutcomes:  outcomes,
		GatewaySessionSec: gatewaySec,
		OrderSubmissions:  submissions,
		Escalations:       escalations,
		HTTPRequests:      requests,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

func (r *Registry) CheckoutOutcome(result string) {
	if r == nil {
		return
	}
	r.CheckoutOutcomes.WithLabelValues(result).Inc()
}

func (r *Registry) GatewaySession(provider string, took time.Duration, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.GatewaySessionSec.WithLabelValues(provider, result).Observe(took.Seconds())
}

func (r *Registry) OrderSubmission(err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.OrderSubmissions.WithLabelValues(result).Inc()
}

func (r *Registry) Escalation() {
	if r == nil {
		return
	}
	r.Escalations.Inc()
}

func (r *Registry) HTTPRequest(method, route string, status int) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
