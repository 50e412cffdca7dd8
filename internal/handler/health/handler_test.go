package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/triage-assistant/internal/model"
)

type mockRepository struct {
	pingErr error
}

func (m *mockRepository) Create(context.Context, *model.DiagnosisRecord) (int64, error) {
	return 0, nil
}

func (m *mockRepository) Ping(context.Context) error {
	return m.pingErr
}

func serve(h *Handler, method, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestReadiness(t *testing.T) {
	w := serve(NewHandler(&mockRepository{}), http.MethodGet, "/api/v1/health/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(NewHandler(&mockRepository{pingErr: errors.New("down")}), http.MethodGet, "/api/v1/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = serve(NewHandler(nil), http.MethodGet, "/api/v1/health/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}

func TestLiveness(t *testing.T) {
	w := serve(NewHandler(nil), http.MethodGet, "/api/v1/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
}
