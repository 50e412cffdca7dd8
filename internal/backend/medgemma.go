package backend

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jwalitptl/triage-assistant/internal/model"
	"github.com/jwalitptl/triage-assistant/internal/parser"
)

const (
	MedGemmaModel     = "google/medgemma-4b-it"
	MedGemmaMaxTokens = 1000
	MedGemmaPath      = "/v1/chat/completions"

	radiologistPrompt = "You are an expert radiologist. Analyze the provided X-ray image and provide a detailed medical assessment."
	xrayInstruction   = "Please analyze this X-ray image. Describe any abnormalities, potential diagnoses, and recommendations for further evaluation if needed. " +
		"Provide a structured analysis including: 1) Image quality assessment, 2) Anatomical structures visible, 3) Abnormal findings (if any), 4) Differential diagnoses, 5) Recommendations."
)

// ErrUnexpectedFormat is returned when a chat response carries no message content.
var ErrUnexpectedFormat = errors.New("unexpected response format")

type chatImageURL struct {
	URL string `json:"url"`
}

type chatPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// AnalyzeImage sends an X-ray to MedGemma as a base64 data URL and returns the
// assistant's assessment.
func (c *Client) AnalyzeImage(ctx context.Context, ep model.Endpoint, image File) (string, error) {
	data, err := image.readAll()
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	body, err := c.postJSON(ctx, request{
		service:   model.ServiceMedGemma,
		operation: "analyze_image",
		endpoint:  ep,
		url:       chatURL(ep.URL),
		timeout:   MedGemmaTimeout,
	}, chatRequest{
		Model: MedGemmaModel,
		Messages: []chatMessage{
			{Role: "system", Content: radiologistPrompt},
			{Role: "user", Content: []chatPart{
				{Type: "text", Text: xrayInstruction},
				{Type: "image_url", ImageURL: &chatImageURL{URL: dataURL(data)}},
			}},
		},
		MaxTokens:   MedGemmaMaxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}

	text, err := parser.ExtractChatContent(body)
	if errors.Is(err, parser.ErrUnrecognizedShape) {
		return "", fmt.Errorf("%w: %s", ErrUnexpectedFormat, truncate(string(body), 500))
	}
	return text, err
}

func chatURL(base string) string {
	return strings.TrimRight(base, "/") + MedGemmaPath
}

// dataURL encodes data with its sniffed image type, defaulting to PNG.
func dataURL(data []byte) string {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
