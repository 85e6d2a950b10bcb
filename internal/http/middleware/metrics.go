package middleware

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// httpMetrics — счётчики и гистограммы HTTP-слоя.
type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	m := &httpMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Количество HTTP-запросов по методу, пути и статусу.",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Длительность обработки HTTP-запроса.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(m.requests, m.duration)

	return m
}

// Metrics регистрирует prometheus-метрики запросов.
// Метки берут шаблон пути без параметров — в этом сервисе пути статические.
func Metrics(reg prometheus.Registerer) Middleware {
	m := newHTTPMetrics(reg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)

			timer := prometheus.NewTimer(m.duration.WithLabelValues(r.Method, r.URL.Path))
			next.ServeHTTP(sw, r)
			timer.ObserveDuration()

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}
			m.requests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(status)).Inc()
		})
	}
}
