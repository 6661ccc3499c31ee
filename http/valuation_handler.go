package http

import (
	"net/http"

	"solar-valuation/domain"
	"solar-valuation/logger"
	"solar-valuation/service"
)

type ValuationHandler struct {
	service *service.ValuationService
	log     *logger.Logger
}

func NewValuationHandler(service *service.ValuationService, log *logger.Logger) *ValuationHandler {
	return &ValuationHandler{service: service, log: log}
}

// Evaluate always answers 200; unusable inputs come back as the zero
// result with "fallback": true.
func (h *ValuationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var input domain.ValuationInputs
	if err := decodeJSON(w, r, &input); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}

	result := h.service.Evaluate(r.Context(), input)
	writeJSON(w, h.log, http.StatusOK, result)
}

func (h *ValuationHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	var input domain.ValuationInputs
	if err := decodeJSON(w, r, &input); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}

	breakdown, err := h.service.Breakdown(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, h.log, http.StatusOK, breakdown)
}
