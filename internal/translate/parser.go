package translate

import (
	"encoding/json"
	"strings"

	"github.com/pysugar/quicktrans/internal/platform"
)

// emptyThinkBlock is the literal an Ollama-served thinking model prepends when it
// was told not to reason. Only this exact sequence is removed.
const emptyThinkBlock = "<think>\n\n</think>\n\n"

// Parse extracts the translated text from a backend response body.
func Parse(raw []byte, p platform.Platform, model string) (string, error) {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", &ParseError{Platform: p, Field: fieldFor(p), Err: err}
	}

	switch p.Kind() {
	case platform.KindLocalChat:
		text, ok := stringAt(body, "message", "content")
		if !ok {
			return "", &ParseError{Platform: p, Field: fieldFor(p)}
		}
		if IsThinkingModel(model) {
			text = strings.ReplaceAll(text, emptyThinkBlock, "")
		}
		return text, nil

	case platform.KindTranslationServer:
		text, ok := stringAt(body, "result")
		if !ok {
			return "", &ParseError{Platform: p, Field: fieldFor(p)}
		}
		return text, nil

	default:
		choices, _ := body["choices"].([]any)
		if len(choices) == 0 {
			return "", &ParseError{Platform: p, Field: fieldFor(p)}
		}
		first, _ := choices[0].(map[string]any)
		text, ok := stringAt(first, "message", "content")
		if !ok {
			return "", &ParseError{Platform: p, Field: fieldFor(p)}
		}
		return text, nil
	}
}

func fieldFor(p platform.Platform) string {
	switch p.Kind() {
	case platform.KindLocalChat:
		return "message.content"
	case platform.KindTranslationServer:
		return "result"
	default:
		return "choices[0].message.content"
	}
}

// stringAt walks nested objects and returns the string found at path.
func stringAt(obj map[string]any, path ...string) (string, bool) {
	var cur any = obj
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = m[key]; !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}
