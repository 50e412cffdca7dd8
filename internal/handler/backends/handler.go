package backends

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/triage-assistant/internal/handler"
	"github.com/jwalitptl/triage-assistant/internal/model"
	"github.com/jwalitptl/triage-assistant/internal/service/configsvc"
	"github.com/jwalitptl/triage-assistant/internal/service/health"
	apperrors "github.com/jwalitptl/triage-assistant/pkg/errors"
)

type Handler struct {
	service configsvc.ConfigServicer
}

func NewHandler(service configsvc.ConfigServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	backends := r.Group("/backends")
	{
		backends.POST("/check", h.Check)
		backends.GET("/config", h.GetConfig)
		backends.PUT("/config", h.SaveConfig)
	}
}

type endpointPayload struct {
	URL string `json:"url" binding:"omitempty,url"`
	// Token equal to model.RedactedToken keeps the stored token.
	Token              string `json:"token"`
	Timeout            string `json:"timeout,omitempty"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify"`
}

type configPayload struct {
	MedReason endpointPayload `json:"medreason"`
	Whisper   endpointPayload `json:"whisper"`
	NLLB      endpointPayload `json:"nllb"`
	MedGemma  endpointPayload `json:"medgemma"`
}

func (p configPayload) endpoint(s model.Service) endpointPayload {
	switch s {
	case model.ServiceMedReason:
		return p.MedReason
	case model.ServiceWhisper:
		return p.Whisper
	case model.ServiceNLLB:
		return p.NLLB
	}
	return p.MedGemma
}

func toPayload(b model.Backends) configPayload {
	view := func(e model.Endpoint) endpointPayload {
		return endpointPayload{
			URL:                e.URL,
			Token:              e.Token,
			Timeout:            e.Timeout.String(),
			InsecureSkipVerify: e.InsecureSkipVerify,
		}
	}
	return configPayload{
		MedReason: view(b.MedReason),
		Whisper:   view(b.Whisper),
		NLLB:      view(b.NLLB),
		MedGemma:  view(b.MedGemma),
	}
}

// merge applies p over current. An empty timeout keeps the current one.
func (p configPayload) merge(current model.Backends) (model.Backends, error) {
	next := current
	for _, svc := range model.Services {
		in := p.endpoint(svc)
		ep := current.For(svc)
		ep.URL = in.URL
		ep.InsecureSkipVerify = in.InsecureSkipVerify
		if in.Token != model.RedactedToken {
			ep.Token = in.Token
		}
		if in.Timeout != "" {
			d, err := time.ParseDuration(in.Timeout)
			if err != nil || d <= 0 {
				return model.Backends{}, fmt.Errorf("%s.timeout: invalid duration %q", svc, in.Timeout)
			}
			ep.Timeout = d
		}
		next = next.With(svc, ep)
	}
	return next, nil
}

// Check probes all four inference backends with the current endpoints.
func (h *Handler) Check(c *gin.Context) {
	statuses := h.service.Check(c.Request.Context())
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"statuses": statuses,
		"summary":  health.Format(statuses),
	}))
}

// GetConfig returns the endpoints in use with tokens masked.
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(toPayload(h.service.Current().Redacted())))
}

// SaveConfig replaces the endpoints, writes them to disk and reports the
// health of whatever is in effect afterwards.
func (h *Handler) SaveConfig(c *gin.Context) {
	var req configPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	next, err := req.merge(h.service.Current())
	if err != nil {
		_ = c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}

	res := h.service.SaveAndCheck(c.Request.Context(), next)
	if !res.Saved {
		c.JSON(http.StatusUnprocessableEntity, handler.NewFailureResponse(res.SaveStatus, res))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(res))
}
