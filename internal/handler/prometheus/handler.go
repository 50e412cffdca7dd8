package prometheus

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/triage-assistant/internal/middleware"
	"github.com/jwalitptl/triage-assistant/pkg/metrics"
)

// Handler exposes the service metrics registry.
type Handler struct {
	metrics *metrics.Metrics
}

func New(m *metrics.Metrics) *Handler {
	return &Handler{metrics: m}
}

func (h *Handler) Middleware() gin.HandlerFunc {
	return middleware.Metrics(h.metrics)
}

func (h *Handler) Handler() gin.HandlerFunc {
	return gin.WrapH(h.metrics.Handler())
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/metrics", h.Handler())
}
