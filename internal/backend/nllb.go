package backend

import (
	"context"

	"github.com/jwalitptl/triage-assistant/internal/language"
	"github.com/jwalitptl/triage-assistant/internal/model"
	"github.com/jwalitptl/triage-assistant/internal/parser"
)

type nllbInstance struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type nllbRequest struct {
	Instances []nllbInstance `json:"instances"`
}

// Translate sends text to the NLLB endpoint. Languages may be given as display
// names or ISO codes; they are sent in the backend's lowercase vocabulary.
func (c *Client) Translate(ctx context.Context, ep model.Endpoint, text, source, target string) (string, error) {
	body, err := c.postJSON(ctx, request{
		service:   model.ServiceNLLB,
		operation: "translate",
		endpoint:  ep,
		timeout:   NLLBTimeout,
	}, nllbRequest{Instances: []nllbInstance{{
		Text:           text,
		SourceLanguage: language.BackendName(source),
		TargetLanguage: language.BackendName(target),
	}}})
	if err != nil {
		return "", err
	}
	return parser.ExtractTranslation(body)
}
