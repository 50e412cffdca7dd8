package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTranslation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"predictions object", `{"predictions": [{"translated_text": "Guten Tag"}]}`, "Guten Tag"},
		{"predictions string", `{"predictions": ["Dzień dobry"]}`, "Dzień dobry"},
		{"outputs object", `{"outputs": [{"translated_text": "Dobrý den"}]}`, "Dobrý den"},
		{"outputs string", `{"outputs": ["Hyvää päivää"]}`, "Hyvää päivää"},
		{"other list translation", `{"results": [{"translation": "Добър ден"}]}`, "Добър ден"},
		{"other list string", `{"data": ["Добрий день"]}`, "Добрий день"},
		{"top-level field", `{"translated_text": "Hello"}`, "Hello"},
		{"predictions object without text falls through", `{"predictions": [{"score": 1}], "translated_text": "Hi"}`, "Hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTranslation([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTranslation_Unrecognized(t *testing.T) {
	_, err := ExtractTranslation([]byte(`{"status": "ok", "predictions": []}`))
	assert.ErrorIs(t, err, ErrUnrecognizedShape)
	assert.Contains(t, err.Error(), `"status": "ok"`)

	_, err = ExtractTranslation([]byte(`not json`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnrecognizedShape)
}

func TestExtractCompletionText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"completion text", `{"choices": [{"text": "## Thinking\nok"}]}`, "## Thinking\nok"},
		{"chat message", `{"choices": [{"message": {"role": "assistant", "content": "answer"}}]}`, "answer"},
		{"response field", `{"response": "plain"}`, "plain"},
		{"generations", `{"generations": [{"text": "generated"}]}`, "generated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractCompletionText([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ExtractCompletionText([]byte(`{"choices": []}`))
	assert.ErrorIs(t, err, ErrUnrecognizedShape)
}

func TestExtractWith_ReportsAttemptName(t *testing.T) {
	_, name, err := ExtractWith([]byte(`{"outputs": ["x"]}`), TranslationShapes)
	require.NoError(t, err)
	assert.Equal(t, "outputs[0]", name)
}

func TestExtractChatContent(t *testing.T) {
	got, err := ExtractChatContent([]byte(`{"choices": [{"message": {"content": "No acute findings."}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "No acute findings.", got)

	_, err = ExtractChatContent([]byte(`{"choices": [{"text": "legacy"}]}`))
	assert.ErrorIs(t, err, ErrUnrecognizedShape)
}
