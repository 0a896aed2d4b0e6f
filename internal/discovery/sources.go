package discovery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pysugar/quicktrans/internal/platform"
)

// Source is a place where a credential for a hosted platform may already live.
type Source struct {
	Name     string
	Platform platform.Platform
	// EnvVars are checked in order; the first non-empty one wins.
	EnvVars []string
	// ConfigPaths are files (with ~ expansion) handed to Parser.
	ConfigPaths []string
	Parser      func(path string) (string, error)
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Sources lists the known credential locations for hosted platforms.
var Sources = []Source{
	{
		Name:     "deepseek",
		Platform: platform.DeepSeek,
		EnvVars:  []string{"DEEPSEEK_API_KEY"},
	},
	{
		Name:     "openai",
		Platform: platform.ChatGPT,
		EnvVars:  []string{"OPENAI_API_KEY"},
		ConfigPaths: []string{
			"~/.codex/auth.json",
		},
		Parser: parseCodexAuth,
	},
}

// parseCodexAuth reads the API key the Codex CLI stores after "codex login --api-key".
func parseCodexAuth(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var auth struct {
		OpenAIAPIKey *string `json:"OPENAI_API_KEY"`
	}
	if err := json.Unmarshal(data, &auth); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	if auth.OpenAIAPIKey == nil {
		return "", nil
	}
	return strings.TrimSpace(*auth.OpenAIAPIKey), nil
}
