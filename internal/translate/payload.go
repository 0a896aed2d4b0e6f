package translate

import "github.com/pysugar/quicktrans/internal/platform"

// Payload is the request body for one backend call. It is implemented only by
// ChatPayload and ServerPayload.
type Payload interface {
	// Kind reports the wire contract the payload was built for.
	Kind() platform.Kind
	sealed()
}

// ChatMessage is one role-tagged message of a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatPayload is sent to Ollama and OpenAI-compatible chat endpoints.
type ChatPayload struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`

	kind platform.Kind
}

func (p ChatPayload) Kind() platform.Kind { return p.kind }
func (ChatPayload) sealed()                {}

// SystemPrompt returns the content of the system message, if any.
func (p ChatPayload) SystemPrompt() string { return p.content("system") }

// UserPrompt returns the content of the user message, if any.
func (p ChatPayload) UserPrompt() string { return p.content("user") }

func (p ChatPayload) content(role string) string {
	for _, m := range p.Messages {
		if m.Role == role {
			return m.Content
		}
	}
	return ""
}

// ServerPayload is sent to a dedicated translation server (MTranServer).
type ServerPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

func (ServerPayload) Kind() platform.Kind { return platform.KindTranslationServer }
func (ServerPayload) sealed()             {}
