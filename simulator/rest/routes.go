package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) SetupRoutes(engine *echo.Echo) {
	engine.GET("/health", h.echoHandler(h.HealthCheck))
	engine.GET("/version", h.echoHandler(h.Version))
	gatherer := h.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	engine.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := engine.Group("/api", echo.WrapMiddleware(LoggerMiddleware))
	// v1 routes
	{
		apiV1 := api.Group("/v1")
		auth := echo.WrapMiddleware(h.AuthMiddleware)

		// pod routes
		apiV1.GET("/pods", h.echoHandler(h.ListPods))
		apiV1.GET("/pods/:id", h.echoHandlerWithParams(h.GetPod))
		apiV1.POST("/pods/:id/migrate", h.echoHandlerWithParams(h.MigratePod), auth)
		apiV1.POST("/pods/:id/scale", h.echoHandlerWithParams(h.ScalePod), auth)

		// metrics routes
		apiV1.GET("/metrics/current", h.echoHandler(h.CurrentMetrics))
		apiV1.GET("/metrics/history", h.echoHandler(h.MetricsHistory))

		// log routes
		apiV1.GET("/logs", h.echoHandler(h.ListLogs))
		apiV1.POST("/logs/analyze", h.echoHandler(h.AnalyzeLogs), auth)

		// recommendation routes
		apiV1.GET("/recommendations", h.echoHandler(h.ListRecommendations))
		apiV1.POST("/recommendations/analyze", h.echoHandler(h.AnalyzeSystem), auth)
		apiV1.POST("/recommendations/apply", h.echoHandler(h.ApplyRecommendation), auth)
	}
}

func (h *Handler) echoHandler(handlerFunc func(w http.ResponseWriter, r *http.Request)) echo.HandlerFunc {
	return echo.WrapHandler(http.HandlerFunc(handlerFunc))
}

// echoHandlerWithParams wraps a handler function and injects path parameters into request context
func (h *Handler) echoHandlerWithParams(handlerFunc func(w http.ResponseWriter, r *http.Request)) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		for _, name := range c.ParamNames() {
			r = r.WithContext(context.WithValue(r.Context(), pathParamKey(name), c.Param(name)))
		}
		handlerFunc(c.Response().Writer, r)
		return nil
	}
}

type pathParamKey string

// GetPathParam retrieves a path parameter from request context
func (h *Handler) GetPathParam(r *http.Request, name string) string {
	if val, ok := r.Context().Value(pathParamKey(name)).(string); ok {
		return val
	}
	return ""
}
