package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jwalitptl/triage-assistant/internal/model"
)

// Probe sends a small request to one backend and reports whether it answers.
// Whisper rejects a form-less request with 400, which still proves it is up.
func (c *Client) Probe(ctx context.Context, service model.Service, ep model.Endpoint) model.ServiceStatus {
	status := model.ServiceStatus{Service: service, Label: service.Label()}
	name := shortName(service)

	if strings.TrimSpace(ep.URL) == "" {
		status.Message = fmt.Sprintf("%s API URL is not configured", name)
		return status
	}

	payload, url := probePayload(service, ep.URL)
	body, err := json.Marshal(payload)
	if err != nil {
		status.Message = fmt.Sprintf("%s API error: %v", name, err)
		return status
	}

	// The probe timeout applies even when the endpoint sets a longer one.
	ep.Timeout = 0
	res, err := c.do(ctx, request{
		service:     service,
		operation:   "probe",
		endpoint:    ep,
		url:         url,
		timeout:     c.probeTimeout,
		contentType: "application/json",
		body:        body,
	})
	switch {
	case err != nil:
		status.Message = fmt.Sprintf("%s API error: %v", name, err)
	case service == model.ServiceWhisper && res.status == http.StatusBadRequest:
		status.Available = true
		status.Message = fmt.Sprintf("%s API is available (expected 400 error for test)", name)
	case res.status == http.StatusOK:
		status.Available = true
		status.Message = fmt.Sprintf("%s API is available and responding", name)
	default:
		status.Message = fmt.Sprintf("%s API returned status code: %d", name, res.status)
	}
	return status
}

func probePayload(service model.Service, base string) (interface{}, string) {
	switch service {
	case model.ServiceMedReason:
		return completionRequest{Model: MedReasonModel, Prompt: "Hello", MaxTokens: 10}, base
	case model.ServiceWhisper:
		return map[string]string{"model": WhisperModel}, base
	case model.ServiceNLLB:
		return nllbRequest{Instances: []nllbInstance{{
			Text:           "hello",
			SourceLanguage: "english",
			TargetLanguage: "french",
		}}}, base
	case model.ServiceMedGemma:
		return chatRequest{
			Model: MedGemmaModel,
			Messages: []chatMessage{
				{Role: "system", Content: "You are an expert radiologist."},
				{Role: "user", Content: []chatPart{{Type: "text", Text: "Hello, can you help with medical imaging analysis?"}}},
			},
			MaxTokens:   10,
			Temperature: 0.1,
		}, chatURL(base)
	}
	return map[string]string{}, base
}

func shortName(s model.Service) string {
	switch s {
	case model.ServiceMedReason:
		return "MedReason"
	case model.ServiceWhisper:
		return "Whisper"
	case model.ServiceNLLB:
		return "NLLB"
	case model.ServiceMedGemma:
		return "MedGemma"
	}
	return string(s)
}
