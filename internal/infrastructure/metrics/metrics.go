// Package metrics colectores Prometheus del portal, registrados en un registry propio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados de una unidad de trabajo.
const (
	OutcomeCommit   = "commit"
	OutcomeRollback = "rollback"
	OutcomeTimeout  = "timeout"
)

// UnitOfWorkObserver recibe el resultado de cada unidad de trabajo.
type UnitOfWorkObserver interface {
	ObserveUnitOfWork(outcome string, elapsed time.Duration)
}

// Metrics agrupa los colectores. Los métodos aceptan receptor nil (métricas deshabilitadas).
type Metrics struct {
	registry      *prometheus.Registry
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	uowTotal      *prometheus.CounterVec
	uowDuration   prometheus.Histogram
	poTransitions *prometheus.CounterVec
}

// New crea y registra los colectores bajo namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y código.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		uowTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unit_of_work_total",
			Help:      "Unidades de trabajo por resultado (commit, rollback, timeout).",
		}, []string{"outcome"}),
		uowDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "unit_of_work_duration_seconds",
			Help:      "Duración de las transacciones.",
			Buckets:   []float64{.005, .01, .05, .1, .5, 1, 5, 10, 20},
		}),
		poTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_order_transitions_total",
			Help:      "Cambios de estado de órdenes de compra aplicados.",
		}, []string{"from", "to"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.uowTotal, m.uowDuration, m.poTransitions,
	)
	return m
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry devuelve el registry (tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP registra una petición atendida.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveUnitOfWork implementa UnitOfWorkObserver.
func (m *Metrics) ObserveUnitOfWork(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.uowTotal.WithLabelValues(outcome).Inc()
	m.uowDuration.Observe(elapsed.Seconds())
}

// ObservePurchaseOrderTransition cuenta un cambio de estado aplicado.
func (m *Metrics) ObservePurchaseOrderTransition(from, to string) {
	if m == nil {
		return
	}
	m.poTransitions.WithLabelValues(from, to).Inc()
}
