package rest

import (
	"net/http"

	"github.com/Gthulhu/fleetsim/simulator/domain"
)

type MetricsHistoryResponse struct {
	History []domain.SystemMetrics `json:"history"`
}

func (h *Handler) CurrentMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	metrics, err := h.Svc.CurrentMetrics(ctx)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&metrics))
}

func (h *Handler) MetricsHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	history, err := h.Svc.MetricsHistory(ctx)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&MetricsHistoryResponse{History: history}))
}
