package language

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/triage-assistant/internal/handler"
	"github.com/jwalitptl/triage-assistant/internal/language"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/languages", h.ListLanguages)
}

func (h *Handler) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(language.Supported()))
}
