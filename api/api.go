package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linesmerrill/drone-survey-sync/models"
)

// New creates a new mux router with the shared middleware, the health check
// and the metrics endpoint. A zero timeout disables the request deadline.
func New(reg *prometheus.Registry, timeout time.Duration) *mux.Router {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := NewHTTPMetrics(reg)

	r := mux.NewRouter()
	r.Use(RequestID, Logging, m.Middleware)
	if timeout > 0 {
		r.Use(TimeoutMiddleware(timeout))
	}

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})).Methods("GET")

	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	b, _ := json.Marshal(models.HealthCheckResponse{Alive: true})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
