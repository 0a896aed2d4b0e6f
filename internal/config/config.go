// Package config owns the user's backend configuration: which platform to call,
// where, with which credential and prompt templates.
package config

import (
	"fmt"
	"strings"

	"github.com/pysugar/quicktrans/internal/lang"
	"github.com/pysugar/quicktrans/internal/platform"
	"github.com/pysugar/quicktrans/internal/platform/catalog"
)

const (
	DefaultPrompt       = "Translate the following text into {{to}}. Reply with the translation only, without explanations or quotes.\n\n{{text}}"
	DefaultSystemPrompt = "You are a professional translator. The user's text is written in {{to}}. Preserve meaning, tone and formatting, and never add commentary."

	ThemeDark  = "Dark"
	ThemeLight = "Light"
)

// Config is the persisted backend configuration. Every field is a plain value,
// so copying a Config yields an independent snapshot.
type Config struct {
	APIKey       string            `json:"apiKey"`
	APIURL       string            `json:"apiUrl"`
	Platform     platform.Platform `json:"platform"`
	ModelName    string            `json:"modelName"`
	Theme        string            `json:"theme,omitempty"`
	Prompt       string            `json:"prompt,omitempty"`
	SystemPrompt string            `json:"systemPrompt,omitempty"`
	LangNames    lang.Convention   `json:"langNames,omitempty"`
}

// Default returns the configuration written on first start.
func Default() Config {
	cfg := Config{
		Platform:     platform.OLLama,
		Theme:        ThemeDark,
		Prompt:       DefaultPrompt,
		SystemPrompt: DefaultSystemPrompt,
		LangNames:    lang.English,
	}
	if preset, ok := catalog.Get(cfg.Platform); ok {
		cfg.APIURL = preset.BaseURL
		cfg.ModelName = preset.Model
	}
	return cfg
}

// withDefaults fills optional fields that older config files do not carry.
func (c Config) withDefaults() Config {
	if c.Theme == "" {
		c.Theme = ThemeDark
	}
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	// Unknown conventions are kept as-is for Validate to reject.
	if conv, err := lang.ParseConvention(string(c.LangNames)); err == nil {
		c.LangNames = conv
	}
	return c
}

// Validate checks the fields the translation path depends on.
func (c Config) Validate() error {
	if !c.Platform.Valid() {
		return fmt.Errorf("unsupported platform %q", c.Platform)
	}
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("apiUrl is required")
	}
	if c.Platform.Kind() != platform.KindTranslationServer && strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("modelName is required for platform %s", c.Platform)
	}
	if _, err := lang.ParseConvention(string(c.LangNames)); err != nil {
		return err
	}
	switch c.Theme {
	case "", ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("unsupported theme %q", c.Theme)
	}
	return nil
}

// Redacted returns a copy safe for logging.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "***"
	}
	return c
}
