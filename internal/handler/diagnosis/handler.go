package diagnosis

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/triage-assistant/internal/handler"
	"github.com/jwalitptl/triage-assistant/internal/service/triage"
	apperrors "github.com/jwalitptl/triage-assistant/pkg/errors"
)

type Handler struct {
	service  triage.TriageServicer
	backends handler.BackendSource
}

func NewHandler(service triage.TriageServicer, backends handler.BackendSource) *Handler {
	return &Handler{service: service, backends: backends}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	diagnoses := r.Group("/diagnoses")
	{
		diagnoses.POST("/analyze", h.Analyze)
		diagnoses.POST("", h.Save)
	}
}

type analyzeRequest struct {
	// Notes is the (translated) transcription of the patient encounter.
	Notes string `json:"notes"`
}

func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	result := h.service.Diagnose(c.Request.Context(), h.backends.Backends(), req.Notes)
	if result.RawResponse == "" {
		c.JSON(http.StatusOK, handler.NewFailureResponse(result.Status, result))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

type saveRequest struct {
	// Summary is the JSON summary as shown to staff, possibly edited.
	Summary string `json:"summary"`
}

// Save stores a summary. Refused or failed saves answer 422 with the
// message staff should see.
func (h *Handler) Save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	result := h.service.Save(c.Request.Context(), req.Summary)
	if !result.OK {
		c.JSON(http.StatusUnprocessableEntity, handler.NewFailureResponse(result.Message, result))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}
