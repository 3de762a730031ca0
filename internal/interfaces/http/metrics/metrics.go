// Package metrics define las métricas Prometheus de la API. Se registran en el registry
// por defecto al importar el paquete y se exponen en GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "restaurant_api"

// Resultados usados como label "result".
const (
	ResultOK       = "ok"
	ResultRejected = "rejected" // error de negocio (4xx)
	ResultError    = "error"    // fallo interno (5xx)
)

// ── Asignaciones ──────────────────────────────────────────────────────────────

// AssignmentWritesTotal escrituras de asignaciones rol-sede.
// Labels:
//   - operation: "create_user", "update_user", "deactivate_user", "delete_user", "register", "deactivate_location"
//   - result: ok, rejected, error
var AssignmentWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignment_writes_total",
		Help:      "Total de escrituras de asignaciones rol-sede por operación y resultado.",
	},
	[]string{"operation", "result"},
)

// ── Auth ──────────────────────────────────────────────────────────────────────

// LoginsTotal intentos de login por resultado.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total de intentos de login por resultado.",
	},
	[]string{"result"},
)

// RateLimitedTotal peticiones rechazadas por el limitador.
// Label:
//   - scope: "login"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total de peticiones rechazadas por el limitador de intentos.",
	},
	[]string{"scope"},
)

// ── HTTP ──────────────────────────────────────────────────────────────────────

// RequestDuration latencia por ruta registrada (no por path crudo, para acotar cardinalidad).
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duración de las peticiones HTTP.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// Result clasifica un código HTTP en ok / rejected / error.
func Result(status int) string {
	switch {
	case status >= 500:
		return ResultError
	case status >= 400:
		return ResultRejected
	default:
		return ResultOK
	}
}
