package rest

import (
	"net/http"

	"github.com/Gthulhu/fleetsim/simulator/domain"
)

type ListPodsResponse struct {
	Pods []domain.Pod `json:"pods"`
}

func (h *Handler) ListPods(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pods, err := h.Svc.ListPods(ctx)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	response := NewSuccessResponse(&ListPodsResponse{Pods: pods})
	h.JSONResponse(ctx, w, http.StatusOK, response)
}

func (h *Handler) GetPod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pod, err := h.Svc.GetPod(ctx, h.GetPathParam(r, "id"))
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&pod))
}

type MigratePodRequest struct {
	TargetEnvironment domain.Environment `json:"targetEnvironment"`
}

type MigratePodResponse struct {
	PodID             string             `json:"podId"`
	TargetEnvironment domain.Environment `json:"targetEnvironment"`
	Status            domain.PodStatus   `json:"status"`
}

// MigratePod starts a migration; the pod reaches its target environment asynchronously.
func (h *Handler) MigratePod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req MigratePodRequest
	if err := h.JSONBind(r, &req); err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	podID := h.GetPathParam(r, "id")
	if err := h.Svc.Migrate(ctx, podID, req.TargetEnvironment); err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	response := NewSuccessResponse(&MigratePodResponse{
		PodID:             podID,
		TargetEnvironment: req.TargetEnvironment,
		Status:            domain.PodStatusMigrating,
	})
	h.JSONResponse(ctx, w, http.StatusAccepted, response)
}

type ScalePodRequest struct {
	Direction domain.ScaleDirection `json:"direction"`
}

func (h *Handler) ScalePod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ScalePodRequest
	if err := h.JSONBind(r, &req); err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	pod, err := h.Svc.Scale(ctx, h.GetPathParam(r, "id"), req.Direction)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&pod))
}
