package rest

import (
	"bytes"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Gthulhu/fleetsim/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// AuthMiddleware requires an RS256 operator token when auth is enabled.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.tokenPublicKey == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.ErrorResponse(ctx, w, http.StatusUnauthorized, "Authorization header is required", nil)
			return
		}
		const bearerSchema = "Bearer "
		if !strings.HasPrefix(authHeader, bearerSchema) {
			h.ErrorResponse(ctx, w, http.StatusUnauthorized, "Authorization header must start with 'Bearer '", nil)
			return
		}

		claims, err := h.validateJWT(authHeader[len(bearerSchema):])
		if err != nil {
			h.ErrorResponse(ctx, w, http.StatusUnauthorized, "Invalid or expired token", err)
			return
		}
		log := logger.Logger(ctx).With().Str("operator", claims.Subject).Logger()
		next.ServeHTTP(w, r.WithContext(log.WithContext(ctx)))
	})
}

// OperatorClaims are the claims of an operator token.
type OperatorClaims struct {
	jwt.RegisteredClaims
}

func (h *Handler) validateJWT(tokenString string) (*OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return h.tokenPublicKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*OperatorClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = xid.New().String()
		}
		w.Header().Set("X-Request-ID", reqID)
		start := time.Now()
		log := logger.Logger(ctx).With().
			Str("method", r.Method).Str("req_id", reqID).
			Str("url", r.URL.String()).Logger()

		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("panic", err).Msgf("Recovered from panic, stack trace: %s", string(debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		r = r.WithContext(log.WithContext(ctx))
		responseWriter := NewResponseWriter(w)
		next.ServeHTTP(responseWriter, r)
		log = log.With().
			Int("cost_msec", int(time.Since(start).Milliseconds())).
			Logger()
		switch {
		case responseWriter.statusCode >= 500:
			log.Error().
				Int("status_code", responseWriter.statusCode).
				Str("response_body", responseWriter.responseBody.String()).
				Msg("Request completed with server error")
		case responseWriter.statusCode >= 400:
			log.Warn().
				Int("status_code", responseWriter.statusCode).
				Str("response_body", responseWriter.responseBody.String()).
				Msg("Request completed with client error")
		default:
			log.Info().
				Int("status_code", responseWriter.statusCode).
				Msg("Request completed successfully")
		}
	})
}

type responseWriter struct {
	http.ResponseWriter
	responseBody bytes.Buffer
	statusCode   int
}

func NewResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode >= 400 {
		rw.responseBody.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}
