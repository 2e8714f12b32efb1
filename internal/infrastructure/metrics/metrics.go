package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/sistema-compras/internal/application/compras"
)

var _ compras.SubmissionObserver = (*Metrics)(nil)

// Config etiquetas constantes de todas las series.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics colectores de la web de compras.
type Metrics struct {
	remoteCalls    *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
	submissions    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
}

// New registra los colectores en registerer (prometheus.DefaultRegisterer si es nil).
func New(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "sistema-compras"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{"service": serviceName, "env": environment}

	m := &Metrics{
		remoteCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "compras_remote_requests_total",
			Help:        "Peticiones al backend de compras por método, ruta y código.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		remoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "compras_remote_request_duration_seconds",
			Help:        "Latencia de las peticiones al backend de compras.",
			Buckets:     []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "compras_order_submissions_total",
			Help:        "Envíos de órdenes de compra por resultado.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "compras_http_requests_total",
			Help:        "Peticiones atendidas por la web por método y código.",
			ConstLabels: constLabels,
		}, []string{"method", "status"}),
	}
	registerer.MustRegister(m.remoteCalls, m.remoteDuration, m.submissions, m.httpRequests)
	return m
}

// ObserveRemoteCall registra una petición al backend. status 0 es fallo de transporte.
func (m *Metrics) ObserveRemoteCall(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.remoteCalls.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.remoteDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveSubmission cuenta el resultado de un envío de orden.
func (m *Metrics) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

// ObserveHTTP cuenta una respuesta de la web.
func (m *Metrics) ObserveHTTP(method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
