package transcription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/triage-assistant/internal/handler"
	"github.com/jwalitptl/triage-assistant/internal/service/translate"
	apperrors "github.com/jwalitptl/triage-assistant/pkg/errors"
)

const audioField = "audio"

type Handler struct {
	service  translate.TranslateServicer
	backends handler.BackendSource
}

func NewHandler(service translate.TranslateServicer, backends handler.BackendSource) *Handler {
	return &Handler{service: service, backends: backends}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/transcriptions", h.Transcribe)
	r.POST("/translations", h.Translate)
}

// Transcribe accepts multipart form data: an "audio" file and an optional
// "language" display name. Without a language the backend auto-detects.
func (h *Handler) Transcribe(c *gin.Context) {
	audio, err := handler.FormFile(c, audioField)
	if err != nil {
		_ = c.Error(apperrors.BadRequest("invalid audio upload", err))
		return
	}

	result := h.service.Transcribe(c.Request.Context(), h.backends.Backends(), audio, c.PostForm("language"))
	if result.Text == "" {
		c.JSON(http.StatusOK, handler.NewFailureResponse(result.Status, result))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

type translateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language" binding:"required"`
	TargetLanguage string `json:"target_language" binding:"required"`
}

func (h *Handler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	result := h.service.Translate(c.Request.Context(), h.backends.Backends(), req.Text, req.SourceLanguage, req.TargetLanguage)
	if result.Text == "" {
		c.JSON(http.StatusOK, handler.NewFailureResponse(result.Status, result))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
