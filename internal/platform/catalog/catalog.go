// Package catalog holds per-platform presets (default endpoint, model, timeout)
// loaded from an optional yaml file with env overrides.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pysugar/quicktrans/internal/platform"
	"gopkg.in/yaml.v3"
)

const defaultTimeout = 60 * time.Second

type fileConfig struct {
	Platforms []PresetConfig `yaml:"platforms"`
}

// PresetConfig is one entry of platforms.yaml.
type PresetConfig struct {
	ID      string `yaml:"id"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

// Preset is the resolved view of a platform's defaults.
type Preset struct {
	Platform   platform.Platform `json:"platform"`
	Kind       string            `json:"kind"`
	BaseURL    string            `json:"base_url"`
	Model      string            `json:"model"`
	Timeout    time.Duration     `json:"-"`
	BaseURLEnv string            `json:"base_url_env"`
	ModelEnv   string            `json:"model_env"`
}

var (
	stateMu     sync.RWMutex
	initialized bool
	presets     map[platform.Platform]Preset
)

// Init loads the catalog file (if any) and applies env overrides. Entries missing
// from the file keep their built-in defaults. A broken file still leaves the
// built-in presets usable; the error is returned for logging.
func Init() error {
	loaded, err := loadPresets()

	stateMu.Lock()
	defer stateMu.Unlock()
	presets = loaded
	initialized = true
	return err
}

func ensureInitialized() {
	stateMu.RLock()
	ok := initialized
	stateMu.RUnlock()
	if ok {
		return
	}
	_ = Init()
}

// ResetForTest resets in-memory state so tests can force reload.
func ResetForTest() {
	stateMu.Lock()
	defer stateMu.Unlock()
	initialized = false
	presets = nil
}

// Get returns the preset for p.
func Get(p platform.Platform) (Preset, bool) {
	ensureInitialized()

	stateMu.RLock()
	defer stateMu.RUnlock()
	preset, ok := presets[p]
	return preset, ok
}

// List returns every preset in platform.All order.
func List() []Preset {
	ensureInitialized()

	stateMu.RLock()
	defer stateMu.RUnlock()
	result := make([]Preset, 0, len(presets))
	for _, p := range platform.All() {
		if preset, ok := presets[p]; ok {
			result = append(result, preset)
		}
	}
	return result
}

// Timeout returns the HTTP timeout configured for p.
func Timeout(p platform.Platform) time.Duration {
	if preset, ok := Get(p); ok && preset.Timeout > 0 {
		return preset.Timeout
	}
	return defaultTimeout
}

func loadPresets() (map[platform.Platform]Preset, error) {
	merged := make(map[platform.Platform]PresetConfig)
	for _, cfg := range defaultPresets() {
		merged[platform.Platform(cfg.ID)] = cfg
	}

	fromFile, loadErr := loadConfigPresets()
	for _, cfg := range fromFile {
		p, err := platform.Parse(cfg.ID)
		if err != nil {
			continue
		}
		base := merged[p]
		if v := strings.TrimSpace(cfg.BaseURL); v != "" {
			base.BaseURL = v
		}
		if v := strings.TrimSpace(cfg.Model); v != "" {
			base.Model = v
		}
		if v := strings.TrimSpace(cfg.Timeout); v != "" {
			base.Timeout = v
		}
		merged[p] = base
	}

	result := make(map[platform.Platform]Preset, len(merged))
	for p, cfg := range merged {
		result[p] = normalize(p, cfg)
	}
	return result, loadErr
}

func loadConfigPresets() ([]PresetConfig, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read platforms file %q: %w", path, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse platforms file %q: %w", path, err)
	}
	return cfg.Platforms, nil
}

func resolveConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("QUICKTRANS_PLATFORMS_FILE")); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	candidates := []string{
		"config/platforms.yaml",
		"/etc/quicktrans/platforms.yaml",
	}
	if homeDir, err := os.UserHomeDir(); err == nil && homeDir != "" {
		candidates = append(candidates, filepath.Join(homeDir, ".config", "quicktrans", "platforms.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func normalize(p platform.Platform, cfg PresetConfig) Preset {
	baseURLEnv := envName(p, "BASE_URL")
	modelEnv := envName(p, "MODEL")

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if v := strings.TrimSpace(os.Getenv(baseURLEnv)); v != "" {
		baseURL = v
	}
	model := strings.TrimSpace(cfg.Model)
	if v := strings.TrimSpace(os.Getenv(modelEnv)); v != "" {
		model = v
	}

	timeout := defaultTimeout
	if parsed, err := time.ParseDuration(strings.TrimSpace(cfg.Timeout)); err == nil && parsed > 0 {
		timeout = parsed
	}
	if raw := strings.TrimSpace(os.Getenv(envName(p, "TIMEOUT"))); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			timeout = parsed
		}
	}

	return Preset{
		Platform:   p,
		Kind:       p.Kind().String(),
		BaseURL:    baseURL,
		Model:      model,
		Timeout:    timeout,
		BaseURLEnv: baseURLEnv,
		ModelEnv:   modelEnv,
	}
}

func envName(p platform.Platform, suffix string) string {
	return fmt.Sprintf("QUICKTRANS_%s_%s", strings.ToUpper(string(p)), suffix)
}

func defaultPresets() []PresetConfig {
	return []PresetConfig{
		{
			ID:      string(platform.OLLama),
			BaseURL: "http://localhost:11434/api/chat",
			Model:   "qwen3:8b",
			Timeout: "120s",
		},
		{
			ID:      string(platform.DeepSeek),
			BaseURL: "https://api.deepseek.com/chat/completions",
			Model:   "deepseek-chat",
		},
		{
			ID:      string(platform.ChatGPT),
			BaseURL: "https://api.openai.com/v1/chat/completions",
			Model:   "gpt-4o-mini",
		},
		{
			ID:      string(platform.MTranServer),
			BaseURL: "http://localhost:8989/translate",
			Timeout: "30s",
		},
	}
}
