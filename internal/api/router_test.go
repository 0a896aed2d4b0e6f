package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pysugar/quicktrans/internal/api/handlers"
	"github.com/pysugar/quicktrans/internal/config"
	"github.com/pysugar/quicktrans/internal/db"
	"github.com/pysugar/quicktrans/internal/platform/catalog"
	"github.com/pysugar/quicktrans/internal/translate"
)

type fakeBackend struct {
	mu     sync.Mutex
	status int
	body   string
	last   map[string]any
	auth   string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, _ := io.ReadAll(r.Body)
	b.last = map[string]any{}
	_ = json.Unmarshal(raw, &b.last)
	b.auth = r.Header.Get("Authorization")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.status)
	w.Write([]byte(b.body))
}

func (b *fakeBackend) respond(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status, b.body = status, body
}

func (b *fakeBackend) lastRequest() (map[string]any, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.auth
}

type testEnv struct {
	server  *httptest.Server
	backend *fakeBackend
	store   *db.HistoryStore
	config  *config.Service
}

func newTestEnv(t *testing.T, token string) *testEnv {
	t.Helper()
	backend := &fakeBackend{status: http.StatusOK, body: `{"result":"你好"}`}
	backendServer := httptest.NewServer(backend)
	t.Cleanup(backendServer.Close)

	dir := t.TempDir()
	cfgSvc, err := config.Load(config.NewFileStorage(dir))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	next := cfgSvc.Current()
	next.Platform = "MTranServer"
	next.APIURL = backendServer.URL
	next.APIKey = "backend-key"
	if err := cfgSvc.Replace(next); err != nil {
		t.Fatalf("replace config: %v", err)
	}

	gdb, err := db.InitDB(filepath.Join(dir, db.DefaultFileName))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	store := db.NewHistoryStore(gdb, nil)

	svc, err := translate.New(translate.Deps{
		Config:    cfgSvc,
		Transport: translate.NewHTTPTransport(),
		Store:     store,
	})
	if err != nil {
		t.Fatalf("new translate service: %v", err)
	}

	server := httptest.NewServer(NewRouter(Options{
		Translator: svc,
		Config:     cfgSvc,
		History:    store,
		Token:      token,
	}))
	t.Cleanup(server.Close)

	return &testEnv{server: server, backend: backend, store: store, config: cfgSvc}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (int, handlers.R) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var out handlers.R
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func TestTranslateEndToEnd(t *testing.T) {
	env := newTestEnv(t, "")

	status, resp := env.do(t, http.MethodPost, "/api/translate", map[string]string{
		"text": "hello", "targetLang": "zh", "sourceLang": "en",
	})
	if status != http.StatusOK || resp.Code != handlers.CodeOK || resp.Data != "你好" {
		t.Fatalf("unexpected response %d %+v", status, resp)
	}
	payload, auth := env.backend.lastRequest()
	if payload["from"] != "en" || payload["to"] != "zh" || payload["text"] != "hello" {
		t.Fatalf("unexpected backend payload %v", payload)
	}
	if auth != "Bearer backend-key" {
		t.Fatalf("expected backend credential, got %q", auth)
	}

	status, resp = env.do(t, http.MethodGet, "/api/history?limit=1", nil)
	if status != http.StatusOK {
		t.Fatalf("history status %d", status)
	}
	page := resp.Data.(map[string]any)
	records := page["records"].([]any)
	if len(records) != 1 || page["total"] != float64(1) {
		t.Fatalf("expected one record, got %v", page)
	}
	rec := records[0].(map[string]any)
	if rec["source_text"] != "hello" || rec["translated_text"] != "你好" || rec["target_lang"] != "zh" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestTranslate_SourceDefaultsToAuto(t *testing.T) {
	env := newTestEnv(t, "")
	status, _ := env.do(t, http.MethodPost, "/api/translate", map[string]string{"text": "hi", "targetLang": "ja"})
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	if payload, _ := env.backend.lastRequest(); payload["from"] != "auto" {
		t.Fatalf("expected auto source, got %v", payload["from"])
	}
}

func TestTranslate_BadInput(t *testing.T) {
	env := newTestEnv(t, "")
	tests := []map[string]string{
		{"text": "", "targetLang": "zh"},
		{"text": "hi", "targetLang": "auto"},
		{"text": "hi", "targetLang": "fr"},
		{"text": "hi"},
	}
	for _, body := range tests {
		status, resp := env.do(t, http.MethodPost, "/api/translate", body)
		if status != http.StatusBadRequest || resp.Code == handlers.CodeOK {
			t.Fatalf("body %v: expected 400, got %d %+v", body, status, resp)
		}
	}
}

func TestTranslate_BackendFailureIsBadGatewayAndNotRecorded(t *testing.T) {
	env := newTestEnv(t, "")
	env.backend.respond(http.StatusInternalServerError, `{"error":"model crashed"}`)

	status, resp := env.do(t, http.MethodPost, "/api/translate", map[string]string{"text": "hi", "targetLang": "zh"})
	if status != http.StatusBadGateway || !strings.Contains(resp.Msg, "model crashed") {
		t.Fatalf("expected 502 with backend body, got %d %+v", status, resp)
	}

	env.backend.respond(http.StatusOK, `{"translation":"missing result"}`)
	status, _ = env.do(t, http.MethodPost, "/api/translate", map[string]string{"text": "hi", "targetLang": "zh"})
	if status != http.StatusBadGateway {
		t.Fatalf("expected 502 for parse failure, got %d", status)
	}

	if n, _ := env.store.Count(testContext(t)); n != 0 {
		t.Fatalf("expected no records after failures, got %d", n)
	}
}

func TestConfigEndpoints(t *testing.T) {
	env := newTestEnv(t, "")

	status, resp := env.do(t, http.MethodPut, "/api/config", map[string]string{"modelName": "nllb", "theme": "Light"})
	if status != http.StatusOK {
		t.Fatalf("put config: %d %+v", status, resp)
	}
	cfg := env.config.Current()
	if cfg.Theme != "Light" || cfg.ModelName != "nllb" || cfg.APIKey != "backend-key" {
		t.Fatalf("expected partial update to keep other fields, got %+v", cfg)
	}

	status, _ = env.do(t, http.MethodPut, "/api/config", map[string]string{"platform": "Bing"})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown platform, got %d", status)
	}
	status, _ = env.do(t, http.MethodPut, "/api/config", map[string]string{"apiUrl": " "})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty apiUrl, got %d", status)
	}

	status, resp = env.do(t, http.MethodPost, "/api/config/reset", nil)
	if status != http.StatusOK {
		t.Fatalf("reset: %d", status)
	}
	if got := env.config.Current(); got != config.Default() {
		t.Fatalf("expected defaults after reset, got %+v", got)
	}

	status, resp = env.do(t, http.MethodGet, "/api/config", nil)
	data := resp.Data.(map[string]any)
	if status != http.StatusOK || data["platform"] != "OLLama" {
		t.Fatalf("unexpected config %d %v", status, data)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := testContext(t)
	id, err := env.store.Save(ctx, "Good morning", "早上好", "en", "zh")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := env.store.Save(ctx, "night", "晚安", "en", "zh"); err != nil {
		t.Fatalf("save: %v", err)
	}

	status, resp := env.do(t, http.MethodGet, "/api/history/search?q=Good", nil)
	if status != http.StatusOK || len(resp.Data.([]any)) != 1 {
		t.Fatalf("search: %d %+v", status, resp)
	}
	status, _ = env.do(t, http.MethodGet, "/api/history/search", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 without q, got %d", status)
	}
	status, _ = env.do(t, http.MethodGet, "/api/history?limit=abc", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", status)
	}

	status, resp = env.do(t, http.MethodGet, "/api/history/"+id, nil)
	if status != http.StatusOK || resp.Data.(map[string]any)["id"] != id {
		t.Fatalf("get: %d %+v", status, resp)
	}

	status, resp = env.do(t, http.MethodDelete, "/api/history/"+id, nil)
	if status != http.StatusOK || resp.Data != true {
		t.Fatalf("delete: %d %+v", status, resp)
	}
	status, resp = env.do(t, http.MethodDelete, "/api/history/"+id, nil)
	if status != http.StatusOK || resp.Data != false {
		t.Fatalf("second delete should report false: %d %+v", status, resp)
	}
	status, _ = env.do(t, http.MethodGet, "/api/history/"+id, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}

	status, resp = env.do(t, http.MethodDelete, "/api/history", nil)
	if status != http.StatusOK || resp.Data != float64(1) {
		t.Fatalf("clear: %d %+v", status, resp)
	}
	_, resp = env.do(t, http.MethodGet, "/api/history", nil)
	if records := resp.Data.(map[string]any)["records"].([]any); len(records) != 0 {
		t.Fatalf("expected empty history, got %v", records)
	}
}

func TestMetaEndpoints(t *testing.T) {
	env := newTestEnv(t, "")

	_, resp := env.do(t, http.MethodGet, "/api/languages", nil)
	langs := resp.Data.([]any)
	if len(langs) != 5 {
		t.Fatalf("expected 5 languages, got %d", len(langs))
	}
	auto := langs[4].(map[string]any)
	if auto["code"] != "auto" || auto["isTarget"] != false {
		t.Fatalf("unexpected auto entry %v", auto)
	}

	_, resp = env.do(t, http.MethodGet, "/api/platforms", nil)
	if platforms := resp.Data.([]any); len(platforms) != 4 {
		t.Fatalf("expected 4 platforms, got %d", len(platforms))
	}

	_, resp = env.do(t, http.MethodGet, "/api/version", nil)
	if resp.Data.(map[string]any)["version"] == "" {
		t.Fatalf("expected version info, got %+v", resp)
	}
}

func TestTokenProtectsAPI(t *testing.T) {
	env := newTestEnv(t, "local-token")

	resp, err := http.Get(env.server.URL + "/api/languages")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/api/languages", nil)
	req.Header.Set("Authorization", "Bearer local-token")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}

	health, err := http.Get(env.server.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Fatalf("healthz should stay public, got %d", health.StatusCode)
	}
}

var _ handlers.HistoryStore = (*db.HistoryStore)(nil)

func TestDiscoveryImport(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DEEPSEEK_API_KEY", "sk-discovered-123456")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("QUICKTRANS_OLLAMA_BASE_URL", "http://127.0.0.1:1/api/chat")
	t.Setenv("QUICKTRANS_MTRANSERVER_BASE_URL", "http://127.0.0.1:1/translate")
	catalog.ResetForTest()
	t.Cleanup(catalog.ResetForTest)
	env := newTestEnv(t, "")

	status, resp := env.do(t, http.MethodGet, "/api/discovery/scan", nil)
	if status != http.StatusOK {
		t.Fatalf("scan: %d %+v", status, resp)
	}
	cands := resp.Data.(map[string]any)["candidates"].([]any)
	if len(cands) != 1 || cands[0].(map[string]any)["apiKey"] != "sk-d...3456" {
		t.Fatalf("expected one masked candidate, got %v", cands)
	}

	status, resp = env.do(t, http.MethodPost, "/api/discovery/import", map[string]string{"platform": "DeepSeek"})
	if status != http.StatusOK || resp.Data.(map[string]any)["apiKey"] != "***" {
		t.Fatalf("import: %d %+v", status, resp)
	}
	cfg := env.config.Current()
	if cfg.Platform != "DeepSeek" || cfg.APIKey != "sk-discovered-123456" || cfg.ModelName != "deepseek-chat" {
		t.Fatalf("unexpected config after import %+v", cfg)
	}

	status, _ = env.do(t, http.MethodPost, "/api/discovery/import", map[string]string{"platform": "ChatGPT"})
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for undiscovered platform, got %d", status)
	}
}

// testContext mirrors testing.T.Context (Go 1.24+) for older toolchains.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
