package xray

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/triage-assistant/internal/handler"
	"github.com/jwalitptl/triage-assistant/internal/service/imaging"
	apperrors "github.com/jwalitptl/triage-assistant/pkg/errors"
)

const imageField = "image"

type Handler struct {
	service  imaging.ImagingServicer
	backends handler.BackendSource
}

func NewHandler(service imaging.ImagingServicer, backends handler.BackendSource) *Handler {
	return &Handler{service: service, backends: backends}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/xrays", h.Analyze)
}

func (h *Handler) Analyze(c *gin.Context) {
	image, err := handler.FormFile(c, imageField)
	if err != nil {
		_ = c.Error(apperrors.BadRequest("invalid image upload", err))
		return
	}

	result := h.service.AnalyzeXray(c.Request.Context(), h.backends.Backends(), image)
	if result.Analysis == "" {
		c.JSON(http.StatusOK, handler.NewFailureResponse(result.Status, result))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
