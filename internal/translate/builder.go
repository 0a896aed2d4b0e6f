package translate

import (
	"strings"

	"github.com/pysugar/quicktrans/internal/config"
	"github.com/pysugar/quicktrans/internal/lang"
	"github.com/pysugar/quicktrans/internal/platform"
)

const (
	placeholderText = "{{text}}"
	placeholderTo   = "{{to}}"

	// thinkingModelMarker identifies model families that emit reasoning blocks.
	thinkingModelMarker = "qwen3"
	// noThinkDirective asks a thinking model to skip its reasoning phase.
	noThinkDirective = " /no_think"
)

// IsThinkingModel reports whether model belongs to a reasoning model family.
func IsThinkingModel(model string) bool {
	return strings.Contains(model, thinkingModelMarker)
}

// Build produces the request payload for cfg.Platform. It never fails: missing
// placeholders in the templates are left alone.
func Build(text string, to, from lang.Language, cfg config.Config) Payload {
	if cfg.Platform.Kind() == platform.KindTranslationServer {
		return ServerPayload{
			From: from.Code(),
			To:   to.Code(),
			Text: text,
		}
	}

	// The system prompt's {{to}} names the language the input is written in.
	systemPrompt := strings.ReplaceAll(cfg.SystemPrompt, placeholderTo, from.DisplayName(cfg.LangNames))

	prompt := strings.ReplaceAll(cfg.Prompt, placeholderText, text)
	prompt = strings.ReplaceAll(prompt, placeholderTo, to.DisplayName(cfg.LangNames))
	if IsThinkingModel(cfg.ModelName) {
		prompt += noThinkDirective
	}

	kind := cfg.Platform.Kind()
	if kind == 0 {
		kind = platform.KindOpenAIChat
	}
	return ChatPayload{
		Model: cfg.ModelName,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream: false,
		kind:   kind,
	}
}
