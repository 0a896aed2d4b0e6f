package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pysugar/quicktrans/internal/platform"
)

func TestDefaultsWithoutFile(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)
	t.Setenv("QUICKTRANS_PLATFORMS_FILE", "")
	testChdir(t, t.TempDir())

	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	if got := len(List()); got != len(platform.All()) {
		t.Fatalf("expected %d presets, got %d", len(platform.All()), got)
	}

	ollama, ok := Get(platform.OLLama)
	if !ok {
		t.Fatal("expected OLLama preset")
	}
	if ollama.BaseURL != "http://localhost:11434/api/chat" || ollama.Model != "qwen3:8b" {
		t.Fatalf("unexpected OLLama preset: %+v", ollama)
	}
	if ollama.Kind != "local-chat" {
		t.Fatalf("expected local-chat kind, got %s", ollama.Kind)
	}
	if Timeout(platform.OLLama) != 120*time.Second {
		t.Fatalf("expected 120s timeout, got %s", Timeout(platform.OLLama))
	}
	if Timeout(platform.ChatGPT) != defaultTimeout {
		t.Fatalf("expected default timeout, got %s", Timeout(platform.ChatGPT))
	}
}

func TestFileAndEnvOverrides(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfgPath := filepath.Join(t.TempDir(), "platforms.yaml")
	cfg := `platforms:
  - id: deepseek
    base_url: https://proxy.example.com/chat/completions
    model: deepseek-reasoner
    timeout: 90s
  - id: unknown-backend
    base_url: https://nowhere.example.com
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("QUICKTRANS_PLATFORMS_FILE", cfgPath)
	t.Setenv("QUICKTRANS_MTRANSERVER_BASE_URL", "http://10.0.0.2:8989/translate")
	t.Setenv("QUICKTRANS_DEEPSEEK_TIMEOUT", "5s")

	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	ds, _ := Get(platform.DeepSeek)
	if ds.BaseURL != "https://proxy.example.com/chat/completions" || ds.Model != "deepseek-reasoner" {
		t.Fatalf("expected file override, got %+v", ds)
	}
	if ds.Timeout != 5*time.Second {
		t.Fatalf("expected env timeout override, got %s", ds.Timeout)
	}

	mt, _ := Get(platform.MTranServer)
	if mt.BaseURL != "http://10.0.0.2:8989/translate" {
		t.Fatalf("expected env base url override, got %s", mt.BaseURL)
	}

	// Entries not in the file keep their defaults.
	gpt, _ := Get(platform.ChatGPT)
	if gpt.Model != "gpt-4o-mini" {
		t.Fatalf("expected default ChatGPT model, got %s", gpt.Model)
	}
}

func TestBrokenFileKeepsDefaults(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfgPath := filepath.Join(t.TempDir(), "platforms.yaml")
	if err := os.WriteFile(cfgPath, []byte("platforms: [::"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("QUICKTRANS_PLATFORMS_FILE", cfgPath)

	if err := Init(); err == nil {
		t.Fatal("expected parse error")
	}
	if _, ok := Get(platform.OLLama); !ok {
		t.Fatal("expected built-in presets to survive a broken file")
	}
}

// testChdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
