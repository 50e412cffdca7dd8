package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/triage-assistant/internal/model"
	"github.com/jwalitptl/triage-assistant/internal/parser"
)

const (
	MedReasonModel     = "UCSC-VLAA/MedReason-8B"
	MedReasonMaxTokens = 4096
	// DefaultTemperature is used for diagnosis requests.
	DefaultTemperature = 0.7
)

type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// Complete sends prompt to the MedReason endpoint and returns the generated
// text. A 2xx response in an unknown envelope is an error wrapping
// parser.ErrUnrecognizedShape; it is never passed on as model text.
func (c *Client) Complete(ctx context.Context, ep model.Endpoint, prompt string, temperature float64) (string, error) {
	body, err := c.postJSON(ctx, request{
		service:   model.ServiceMedReason,
		operation: "complete",
		endpoint:  ep,
		timeout:   MedReasonTimeout,
	}, completionRequest{
		Model:       MedReasonModel,
		Prompt:      prompt,
		MaxTokens:   MedReasonMaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	text, err := parser.ExtractCompletionText(body)
	if errors.Is(err, parser.ErrUnrecognizedShape) {
		c.log.Warn("unrecognized completion response shape", "service", string(model.ServiceMedReason))
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", model.ServiceMedReason.Label(), err)
	}
	return text, nil
}
