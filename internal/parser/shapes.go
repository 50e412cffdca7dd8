package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnrecognizedShape means none of the known response envelopes matched.
var ErrUnrecognizedShape = errors.New("unrecognized response shape")

// ShapeAttempt is one typed extraction over a decoded JSON object. Extract
// reports false when the object does not have the expected shape.
type ShapeAttempt struct {
	Name    string
	Extract func(obj map[string]interface{}) (string, bool)
}

// TranslationShapes are tried in order on a translation backend response.
var TranslationShapes = []ShapeAttempt{
	{Name: "predictions[0].translated_text", Extract: firstElemField("predictions", "translated_text")},
	{Name: "predictions[0]", Extract: firstElemString("predictions")},
	{Name: "outputs[0].translated_text", Extract: firstElemField("outputs", "translated_text")},
	{Name: "outputs[0]", Extract: firstElemString("outputs")},
	{Name: "<list>[0]", Extract: anyListFirst},
	{Name: "translated_text", Extract: stringField("translated_text")},
}

// CompletionShapes are tried in order on a reasoning backend response.
var CompletionShapes = []ShapeAttempt{
	{Name: "choices[0].text", Extract: firstElemField("choices", "text")},
	{Name: "choices[0].message.content", Extract: chatContent},
	{Name: "response", Extract: stringField("response")},
	{Name: "generations[0].text", Extract: firstElemField("generations", "text")},
}

// ChatShapes are tried on a chat-completions response.
var ChatShapes = []ShapeAttempt{
	{Name: "choices[0].message.content", Extract: chatContent},
}

// ExtractWith decodes body as a JSON object and returns the result of the first
// matching attempt along with its name.
func ExtractWith(body []byte, attempts []ShapeAttempt) (string, string, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", "", fmt.Errorf("failed to decode response: %w", err)
	}
	for _, a := range attempts {
		if text, ok := a.Extract(obj); ok {
			return text, a.Name, nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrUnrecognizedShape, preview(body, 200))
}

// ExtractTranslation unwraps the translated text from a translation response.
func ExtractTranslation(body []byte) (string, error) {
	text, _, err := ExtractWith(body, TranslationShapes)
	return text, err
}

// ExtractCompletionText unwraps the generated text from a reasoning response.
func ExtractCompletionText(body []byte) (string, error) {
	text, _, err := ExtractWith(body, CompletionShapes)
	return text, err
}

// ExtractChatContent unwraps the assistant message from a chat-completions response.
func ExtractChatContent(body []byte) (string, error) {
	text, _, err := ExtractWith(body, ChatShapes)
	return text, err
}

func firstElem(obj map[string]interface{}, key string) (interface{}, bool) {
	list, ok := obj[key].([]interface{})
	if !ok || len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

func firstElemString(key string) func(map[string]interface{}) (string, bool) {
	return func(obj map[string]interface{}) (string, bool) {
		v, ok := firstElem(obj, key)
		if !ok {
			return "", false
		}
		s, ok := v.(string)
		return s, ok
	}
}

func firstElemField(key, field string) func(map[string]interface{}) (string, bool) {
	return func(obj map[string]interface{}) (string, bool) {
		v, ok := firstElem(obj, key)
		if !ok {
			return "", false
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return "", false
		}
		return stringField(field)(m)
	}
}

func stringField(field string) func(map[string]interface{}) (string, bool) {
	return func(obj map[string]interface{}) (string, bool) {
		s, ok := obj[field].(string)
		return s, ok
	}
}

func chatContent(obj map[string]interface{}) (string, bool) {
	v, ok := firstElem(obj, "choices")
	if !ok {
		return "", false
	}
	choice, ok := v.(map[string]interface{})
	if !ok {
		return "", false
	}
	msg, ok := choice["message"].(map[string]interface{})
	if !ok {
		return "", false
	}
	return stringField("content")(msg)
}

// anyListFirst scans top-level lists in key order for a first element that is a
// string or an object carrying translated_text or translation.
func anyListFirst(obj map[string]interface{}) (string, bool) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v, ok := firstElem(obj, k)
		if !ok {
			continue
		}
		switch e := v.(type) {
		case string:
			return e, true
		case map[string]interface{}:
			if s, ok := stringField("translated_text")(e); ok {
				return s, true
			}
			if s, ok := stringField("translation")(e); ok {
				return s, true
			}
		}
	}
	return "", false
}

func preview(body []byte, n int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
