// Package platform enumerates the translation backends quicktrans can talk to.
package platform

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Platform is a backend tag as persisted in config.json.
type Platform string

const (
	OLLama      Platform = "OLLama"
	DeepSeek    Platform = "DeepSeek"
	ChatGPT     Platform = "ChatGPT"
	MTranServer Platform = "MTranServer"
)

// Kind groups platforms by wire contract.
type Kind int

const (
	// KindLocalChat is an Ollama-style /api/chat endpoint answering with message.content.
	KindLocalChat Kind = iota + 1
	// KindOpenAIChat is an OpenAI-compatible /chat/completions endpoint.
	KindOpenAIChat
	// KindTranslationServer is a dedicated translation server taking {from,to,text}.
	KindTranslationServer
)

func (k Kind) String() string {
	switch k {
	case KindLocalChat:
		return "local-chat"
	case KindOpenAIChat:
		return "openai-chat"
	case KindTranslationServer:
		return "translation-server"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// All returns every known platform in UI order.
func All() []Platform {
	return []Platform{OLLama, DeepSeek, ChatGPT, MTranServer}
}

// Kind returns the wire contract of p. Unknown platforms report 0.
func (p Platform) Kind() Kind {
	switch p {
	case OLLama:
		return KindLocalChat
	case DeepSeek, ChatGPT:
		return KindOpenAIChat
	case MTranServer:
		return KindTranslationServer
	default:
		return 0
	}
}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	return p.Kind() != 0
}

// Parse resolves a platform tag case-insensitively ("ollama" -> OLLama).
func Parse(s string) (Platform, error) {
	s = strings.TrimSpace(s)
	for _, p := range All() {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported platform %q", s)
}

func (p *Platform) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
