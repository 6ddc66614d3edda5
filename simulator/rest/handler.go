package rest

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Gthulhu/fleetsim/config"
	"github.com/Gthulhu/fleetsim/pkg/logger"
	"github.com/Gthulhu/fleetsim/simulator/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

const (
	serviceName    = "Hybrid Fleet Simulator API"
	serviceVersion = "1.0.0"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse is the envelope of every successful API response.
type SuccessResponse[T any] struct {
	Success   bool   `json:"success"`
	Data      *T     `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

func NewSuccessResponse[T any](data *T) SuccessResponse[T] {
	return SuccessResponse[T]{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type Params struct {
	fx.In
	Svc        domain.Service
	AuthConfig config.AuthConfig
	Gatherer   prometheus.Gatherer `optional:"true"`
}

func NewHandler(params Params) (*Handler, error) {
	h := &Handler{
		Svc:      params.Svc,
		gatherer: params.Gatherer,
	}
	if params.AuthConfig.Enabled {
		publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(params.AuthConfig.RsaPublicKeyPem.Value()))
		if err != nil {
			return nil, fmt.Errorf("parse operator token public key: %w", err)
		}
		h.tokenPublicKey = publicKey
	}
	return h, nil
}

type Handler struct {
	Svc            domain.Service
	gatherer       prometheus.Gatherer
	tokenPublicKey *rsa.PublicKey
}

func (h *Handler) JSONResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		logger.Logger(ctx).Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) JSONBind(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func (h *Handler) ErrorResponse(ctx context.Context, w http.ResponseWriter, status int, errMsg string, err error) {
	if err != nil {
		logger.Logger(ctx).Debug().Err(err).Int("status", status).Msg(errMsg)
	}
	h.JSONResponse(ctx, w, status, ErrorResponse{
		Success: false,
		Error:   errMsg,
	})
}

// HandleError maps domain errors to HTTP status codes.
func (h *Handler) HandleError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.ErrorResponse(ctx, w, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, domain.ErrInvalidState):
		h.ErrorResponse(ctx, w, http.StatusConflict, err.Error(), err)
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidRecommendation):
		h.ErrorResponse(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, domain.ErrExternalService), errors.Is(err, domain.ErrNoAdvisor):
		h.ErrorResponse(ctx, w, http.StatusBadGateway, errors.Cause(err).Error(), err)
	default:
		logger.Logger(ctx).Error().Err(err).Msg("unhandled error")
		h.ErrorResponse(ctx, w, http.StatusInternalServerError, "Internal Server Error", err)
	}
}

func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": serviceName,
		"version": serviceVersion,
	}
	h.JSONResponse(r.Context(), w, http.StatusOK, response)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
	}
	h.JSONResponse(r.Context(), w, http.StatusOK, response)
}
