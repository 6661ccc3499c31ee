package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-valuation/domain"
	"solar-valuation/logger"
	"solar-valuation/repository"
	"solar-valuation/service"
)

const scenarioBody = `{
	"annualRevenue": 45000000,
	"remainingYears": 12.5,
	"mwCapacity": 1.6,
	"postFitPrice": 12,
	"targetIRR": 5.5
}`

func newTestRouter(t *testing.T, limiter *RateLimiter) http.Handler {
	t.Helper()
	log := logger.Nop()
	cache := repository.NewMemoryCache()
	t.Cleanup(cache.Stop)
	engine := service.NewValuationEngine(service.DefaultAssumptions())
	valuationService := service.NewValuationService(engine, cache, log, time.Minute)

	return NewRouter(Handlers{
		Valuation:    NewValuationHandler(valuationService, log),
		Sensitivity:  NewSensitivityHandler(service.NewSensitivityService(valuationService), log),
		DebtSchedule: NewDebtScheduleHandler(service.NewDebtScheduleService(valuationService), log),
	}, limiter, log)
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestEvaluate_OK(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/valuation/evaluate", scenarioBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	var result domain.ValuationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Fallback)
	assert.Equal(t, 37_575_000.0, result.AnnualEBITDA)
	assert.InDelta(t, 344_217_321.0, result.FinalPriceMin, 1)
}

func TestEvaluate_FallbackIsStillOK(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/valuation/evaluate",
		`{"annualRevenue": 45000000, "remainingYears": 0, "postFitPrice": 12, "targetIRR": 5.5}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.ValuationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Fallback)
	assert.Zero(t, result.FinalPriceMax)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	limiter := NewRateLimiter(100, time.Hour)
	defer limiter.Stop()
	router := newTestRouter(t, limiter)

	paths := []string{
		"/valuation/evaluate",
		"/valuation/breakdown",
		"/valuation/sensitivity",
		"/valuation/debt-schedule",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/valuation/unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEvaluate_BadRequest(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/valuation/evaluate", `{invalid-json}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluate_UnsupportedMediaType(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/valuation/evaluate", bytes.NewBufferString(scenarioBody))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestEvaluate_KeepsIncomingRequestID(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/valuation/evaluate", bytes.NewBufferString(scenarioBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestBreakdown(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/valuation/breakdown", scenarioBody)
	require.Equal(t, http.StatusOK, w.Code)

	var b domain.ValuationBreakdown
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Len(t, b.Years, 23)
	require.NotNil(t, b.Inputs.OperatingCost)
	assert.Equal(t, 7_425_000.0, *b.Inputs.OperatingCost)

	w = postJSON(t, router, "/valuation/breakdown", `{"annualRevenue": -1, "remainingYears": 10, "postFitPrice": 12, "targetIRR": 5}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSensitivity(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/valuation/sensitivity",
		`{"base": `+scenarioBody+`, "minIRR": 5, "maxIRR": 6, "irrStep": 0.5, "postFitPrices": [10, 12]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.SensitivityResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Points, 6)

	w = postJSON(t, router, "/valuation/sensitivity",
		`{"base": `+scenarioBody+`, "minIRR": 6, "maxIRR": 5, "irrStep": 0.5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDebtSchedule(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/valuation/debt-schedule", `{"inputs": `+scenarioBody+`}`)
	require.Equal(t, http.StatusOK, w.Code)

	var schedule domain.DebtSchedule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &schedule))
	assert.Len(t, schedule.Years, 13)
	assert.InEpsilon(t, 1.15, schedule.Years[0].DSCR, 1e-9)

	w = postJSON(t, router, "/valuation/debt-schedule", `{"inputs": `+scenarioBody+`, "principal": -1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRouter_RateLimited(t *testing.T) {
	limiter := NewRateLimiter(2, time.Hour)
	defer limiter.Stop()
	router := newTestRouter(t, limiter)

	for i := 0; i < 2; i++ {
		w := postJSON(t, router, "/valuation/evaluate", scenarioBody)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := postJSON(t, router, "/valuation/evaluate", scenarioBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// health is outside the limited subrouter
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	hw := httptest.NewRecorder()
	router.ServeHTTP(hw, req)
	assert.Equal(t, http.StatusOK, hw.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
