package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Gthulhu/fleetsim/simulator/domain"
)

type ListLogsResponse struct {
	Logs []domain.LogEntry `json:"logs"`
}

type AnalyzeLogsResponse struct {
	Analysis string `json:"analysis"`
}

// ListLogs returns log entries oldest first. Query: limit=N keeps the newest N,
// level=ERROR,CRITICAL filters by level.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	opt := &domain.QueryLogsOptions{}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		opt.Limit = limit
	}
	for _, raw := range query["level"] {
		for _, level := range strings.Split(raw, ",") {
			if level = strings.TrimSpace(level); level != "" {
				opt.Levels = append(opt.Levels, domain.LogLevel(strings.ToUpper(level)))
			}
		}
	}

	if err := h.Svc.ListLogs(ctx, opt); err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&ListLogsResponse{Logs: opt.Result}))
}

func (h *Handler) AnalyzeLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	analysis, err := h.Svc.AnalyzeLogs(ctx)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&AnalyzeLogsResponse{Analysis: analysis}))
}
