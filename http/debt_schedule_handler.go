package http

import (
	"net/http"

	"solar-valuation/domain"
	"solar-valuation/logger"
	"solar-valuation/service"
)

type DebtScheduleHandler struct {
	service *service.DebtScheduleService
	log     *logger.Logger
}

func NewDebtScheduleHandler(service *service.DebtScheduleService, log *logger.Logger) *DebtScheduleHandler {
	return &DebtScheduleHandler{service: service, log: log}
}

func (h *DebtScheduleHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var input domain.DebtScheduleInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}

	schedule, err := h.service.Schedule(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, h.log, http.StatusOK, schedule)
}
