package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "multitienda_http_requests_total",
		Help: "Total de peticiones HTTP",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "multitienda_http_request_duration_seconds",
		Help:    "Duración de las peticiones HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	shopSwitches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "multitienda_shop_switches_total",
		Help: "Cambios de tienda activa por motivo",
	}, []string{"reason"})

	busHandlerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multitienda_bus_handler_failures_total",
		Help: "Suscriptores del bus de cambios que fallaron (error o panic)",
	})

	dashboardSubmetricFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "multitienda_dashboard_submetric_failures_total",
		Help: "Sub-métricas del dashboard que cayeron a su valor por defecto",
	}, []string{"metric"})

	dashboardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "multitienda_dashboard_duration_seconds",
		Help:    "Duración de la agregación del dashboard",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveHTTPRequest registra una petición HTTP.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveShopSwitch cuenta un cambio de tienda activa (switch, delete, repair).
func ObserveShopSwitch(reason string) {
	shopSwitches.WithLabelValues(reason).Inc()
}

// ObserveBusHandlerFailure cuenta un suscriptor fallido.
func ObserveBusHandlerFailure() {
	busHandlerFailures.Inc()
}

// ObserveDashboardFailure cuenta una sub-métrica caída a cero.
func ObserveDashboardFailure(metric string) {
	dashboardSubmetricFailures.WithLabelValues(metric).Inc()
}

// ObserveDashboard registra la duración total de una agregación.
func ObserveDashboard(duration time.Duration) {
	dashboardDuration.Observe(duration.Seconds())
}
