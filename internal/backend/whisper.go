package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/jwalitptl/triage-assistant/internal/language"
	"github.com/jwalitptl/triage-assistant/internal/model"
)

// WhisperModel is the model name sent with every transcription.
const WhisperModel = "openai/whisper-large-v3"

type whisperResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Transcribe uploads audio to the Whisper endpoint. languageName selects the
// spoken language; an empty name lets the backend detect it. The file is opened
// for the duration of the call only.
func (c *Client) Transcribe(ctx context.Context, ep model.Endpoint, audio File, languageName string) (model.Transcription, error) {
	var form bytes.Buffer
	w := multipart.NewWriter(&form)

	if err := writeAudioPart(w, audio); err != nil {
		return model.Transcription{}, err
	}
	if err := w.WriteField("model", WhisperModel); err != nil {
		return model.Transcription{}, err
	}
	if languageName != "" {
		if err := w.WriteField("language", language.ISOCode(languageName)); err != nil {
			return model.Transcription{}, err
		}
	}
	if err := w.Close(); err != nil {
		return model.Transcription{}, err
	}

	res, err := c.do(ctx, request{
		service:     model.ServiceWhisper,
		operation:   "transcribe",
		endpoint:    ep,
		timeout:     WhisperTimeout,
		contentType: w.FormDataContentType(),
		body:        form.Bytes(),
	})
	if err != nil {
		return model.Transcription{}, err
	}
	if err := res.check(model.ServiceWhisper); err != nil {
		return model.Transcription{}, err
	}

	var out whisperResponse
	if err := json.Unmarshal(res.body, &out); err != nil {
		return model.Transcription{}, fmt.Errorf("failed to decode transcription: %w", err)
	}
	return model.Transcription{
		Text:     out.Text,
		Language: language.DisplayName(out.Language),
	}, nil
}

func writeAudioPart(w *multipart.Writer, audio File) error {
	rc, err := audio.Open()
	if err != nil {
		return fmt.Errorf("failed to open audio: %w", err)
	}
	defer rc.Close()

	name := audio.Name
	if name == "" {
		name = "audio.wav"
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, rc); err != nil {
		return fmt.Errorf("failed to read audio: %w", err)
	}
	return nil
}
