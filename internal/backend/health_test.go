package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/triage-assistant/internal/model"
)

func statusServer(code int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}))
}

func TestProbe(t *testing.T) {
	ok := statusServer(http.StatusOK)
	defer ok.Close()
	bad := statusServer(http.StatusBadRequest)
	defer bad.Close()
	down := statusServer(http.StatusBadGateway)
	defer down.Close()

	tests := []struct {
		name      string
		service   model.Service
		url       string
		available bool
		message   string
	}{
		{"medreason up", model.ServiceMedReason, ok.URL, true, "MedReason API is available and responding"},
		{"whisper 400 counts as up", model.ServiceWhisper, bad.URL, true, "Whisper API is available (expected 400 error for test)"},
		{"nllb 400 is down", model.ServiceNLLB, bad.URL, false, "NLLB API returned status code: 400"},
		{"medgemma 502", model.ServiceMedGemma, down.URL, false, "MedGemma API returned status code: 502"},
		{"not configured", model.ServiceNLLB, "", false, "NLLB API URL is not configured"},
	}
	c := newTestClient()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Probe(context.Background(), tt.service, model.Endpoint{URL: tt.url})
			assert.Equal(t, tt.service, got.Service)
			assert.Equal(t, tt.service.Label(), got.Label)
			assert.Equal(t, tt.available, got.Available)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestProbe_MedGemmaUsesChatPath(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
	}))
	defer srv.Close()

	got := newTestClient().Probe(context.Background(), model.ServiceMedGemma, model.Endpoint{URL: srv.URL})
	assert.True(t, got.Available)
	assert.Equal(t, MedGemmaPath, path)
}

func TestProbe_TransportError(t *testing.T) {
	srv := statusServer(http.StatusOK)
	url := srv.URL
	srv.Close()

	got := newTestClient().Probe(context.Background(), model.ServiceMedReason, model.Endpoint{URL: url})
	assert.False(t, got.Available)
	assert.Contains(t, got.Message, "MedReason API error: ")
}

func TestProbe_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(WithProbeTimeout(50 * time.Millisecond))
	start := time.Now()
	got := c.Probe(context.Background(), model.ServiceNLLB, model.Endpoint{URL: srv.URL, Timeout: time.Hour})

	assert.False(t, got.Available)
	assert.Less(t, time.Since(start), 5*time.Second)
}
