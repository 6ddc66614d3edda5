package rest

import (
	"net/http"

	"github.com/Gthulhu/fleetsim/simulator/domain"
)

type RecommendationsResponse struct {
	Recommendations []*domain.Recommendation `json:"recommendations"`
}

func (h *Handler) AnalyzeSystem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recs, err := h.Svc.AnalyzeSystem(ctx)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&RecommendationsResponse{Recommendations: recs}))
}

func (h *Handler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recs, err := h.Svc.LatestRecommendations(ctx)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&RecommendationsResponse{Recommendations: recs}))
}

type ApplyRecommendationResponse struct {
	RecommendationID string                       `json:"recommendationId,omitempty"`
	Outcome          domain.RecommendationOutcome `json:"outcome"`
}

// ApplyRecommendation accepts either a full recommendation or {"id": ...}
// referring to the latest analyzed set.
func (h *Handler) ApplyRecommendation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req domain.Recommendation
	if err := h.JSONBind(r, &req); err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec := &req
	if req.Type == "" && req.ID != "" {
		stored, err := h.Svc.FindRecommendation(ctx, req.ID)
		if err != nil {
			h.HandleError(ctx, w, err)
			return
		}
		rec = stored
	}

	outcome, err := h.Svc.ApplyRecommendation(ctx, rec)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	response := NewSuccessResponse(&ApplyRecommendationResponse{
		RecommendationID: rec.ID,
		Outcome:          outcome,
	})
	h.JSONResponse(ctx, w, http.StatusOK, response)
}
