package transcription

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/triage-assistant/internal/backend"
	"github.com/jwalitptl/triage-assistant/internal/middleware"
	"github.com/jwalitptl/triage-assistant/internal/model"
)

type mockService struct {
	audio    []byte
	gotAudio bool
	language string
	text     string
}

func (m *mockService) Transcribe(_ context.Context, _ model.Backends, audio *backend.File, languageName string) model.Transcription {
	m.language = languageName
	if audio == nil {
		return model.Transcription{Status: "No audio provided. Please upload or record audio first."}
	}
	m.gotAudio = true
	rc, err := audio.Open()
	if err != nil {
		return model.Transcription{Status: "Error: " + err.Error()}
	}
	defer rc.Close()
	m.audio, _ = io.ReadAll(rc)
	return model.Transcription{Text: "hello", Language: "English", Status: "Transcribed in English."}
}

func (m *mockService) Translate(_ context.Context, _ model.Backends, text, source, target string) model.Translation {
	m.text = text
	if source == target {
		return model.Translation{Text: text, Status: "Translation skipped (both languages are " + source + ")."}
	}
	return model.Translation{Text: "translated", Status: "Translated from " + source + " to " + target + "."}
}

type staticBackends struct{}

func (staticBackends) Backends() model.Backends { return model.Backends{} }

func setup(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	NewHandler(svc, staticBackends{}).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestTranscribe(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("audio", "visit.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("RIFF"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("language", "English"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	svc := &mockService{}
	setup(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte("RIFF"), svc.audio)
	assert.Equal(t, "English", svc.language)
	assert.Contains(t, w.Body.String(), `"text":"hello"`)
}

func TestTranscribe_NoAudio(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	svc := &mockService{}
	setup(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.gotAudio)
	assert.Contains(t, w.Body.String(), "No audio provided")
	assert.Contains(t, w.Body.String(), `"status":"error"`)
}

func TestTranslate(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/translations",
		strings.NewReader(`{"text":"Hallo","source_language":"German","target_language":"English"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	svc := &mockService{}
	setup(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hallo", svc.text)
	assert.Contains(t, w.Body.String(), "Translated from German to English.")
}

func TestTranslate_MissingLanguage(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/translations", strings.NewReader(`{"text":"Hallo"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setup(&mockService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
