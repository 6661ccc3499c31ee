package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"solar-valuation/logger"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Valuation    *ValuationHandler
	Sensitivity  *SensitivityHandler
	DebtSchedule *DebtScheduleHandler
}

// NewRouter mounts the valuation API. A nil limiter disables rate limiting.
func NewRouter(h Handlers, limiter *RateLimiter, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler(log)).Methods(http.MethodGet)

	// Flat routes: a multi-route subrouter reports 404 instead of 405 on a
	// method mismatch.
	limited := func(fn http.HandlerFunc) http.Handler {
		if limiter == nil {
			return fn
		}
		return RateLimitMiddleware(limiter)(fn)
	}
	r.Handle("/valuation/evaluate", limited(h.Valuation.Evaluate)).Methods(http.MethodPost)
	r.Handle("/valuation/breakdown", limited(h.Valuation.Breakdown)).Methods(http.MethodPost)
	r.Handle("/valuation/sensitivity", limited(h.Sensitivity.Sweep)).Methods(http.MethodPost)
	r.Handle("/valuation/debt-schedule", limited(h.DebtSchedule.Schedule)).Methods(http.MethodPost)

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

func healthCheckHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "solar-valuation",
		})
	}
}
