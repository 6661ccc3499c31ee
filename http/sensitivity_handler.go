package http

import (
	"net/http"

	"solar-valuation/domain"
	"solar-valuation/logger"
	"solar-valuation/service"
)

type SensitivityHandler struct {
	service *service.SensitivityService
	log     *logger.Logger
}

func NewSensitivityHandler(service *service.SensitivityService, log *logger.Logger) *SensitivityHandler {
	return &SensitivityHandler{service: service, log: log}
}

func (h *SensitivityHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	var input domain.SensitivityInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}

	result, err := h.service.Sweep(r.Context(), input)
	if err != nil {
		h.log.WithError(err).Debug("sensitivity sweep rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}
