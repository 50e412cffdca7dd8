package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/triage-assistant/internal/backend"
	"github.com/jwalitptl/triage-assistant/internal/model"
)

// BackendSource hands out the endpoint snapshot for one request.
type BackendSource interface {
	Backends() model.Backends
}

// FormFile returns the uploaded file in field, or nil when the request has
// none. The file is opened by the backend call, not here.
func FormFile(c *gin.Context, field string) (*backend.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	f := backend.FileFromHeader(fh)
	return &f, nil
}
