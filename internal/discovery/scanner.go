// Package discovery looks for backends the translator can use without manual
// setup: API keys already present on the machine and local servers that answer.
package discovery

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/pysugar/quicktrans/internal/config"
	"github.com/pysugar/quicktrans/internal/platform"
	"github.com/pysugar/quicktrans/internal/platform/catalog"
)

const probeTimeout = 2 * time.Second

// Candidate is a backend that looks ready to use.
type Candidate struct {
	Platform  platform.Platform `json:"platform"`
	Source    string            `json:"source"`
	APIURL    string            `json:"apiUrl"`
	ModelName string            `json:"modelName,omitempty"`
	APIKey    string            `json:"apiKey,omitempty"`
	// Models lists models a local server reported as installed.
	Models []string `json:"models,omitempty"`
}

// ScanResult holds the result of scanning all sources
type ScanResult struct {
	Candidates []Candidate `json:"candidates"`
	Errors     []ScanError `json:"errors,omitempty"`
}

// ScanError represents an error encountered during scanning
type ScanError struct {
	Source string `json:"source"`
	Path   string `json:"path,omitempty"`
	Error  string `json:"error"`
}

// Scan checks credential sources and probes the local platforms. Keys in the
// result are unmasked; use Masked before showing it.
func Scan(ctx context.Context, client *http.Client) *ScanResult {
	if client == nil {
		client = &http.Client{Timeout: probeTimeout}
	}
	result := &ScanResult{
		Candidates: make([]Candidate, 0),
		Errors:     make([]ScanError, 0),
	}

	for _, source := range Sources {
		cand, errs := scanSource(source)
		if cand != nil {
			result.Candidates = append(result.Candidates, *cand)
		}
		result.Errors = append(result.Errors, errs...)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, p := range []platform.Platform{platform.OLLama, platform.MTranServer} {
		wg.Add(1)
		go func(p platform.Platform) {
			defer wg.Done()
			cand, err := probe(ctx, client, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, ScanError{Source: string(p), Error: err.Error()})
				return
			}
			result.Candidates = append(result.Candidates, *cand)
		}(p)
	}
	wg.Wait()

	log.Printf("[discovery] Found %d usable backends", len(result.Candidates))
	return result
}

func scanSource(source Source) (*Candidate, []ScanError) {
	preset, _ := catalog.Get(source.Platform)
	cand := &Candidate{
		Platform:  source.Platform,
		APIURL:    preset.BaseURL,
		ModelName: preset.Model,
	}

	for _, name := range source.EnvVars {
		if key := os.Getenv(name); key != "" {
			cand.Source = "env:" + name
			cand.APIKey = key
			return cand, nil
		}
	}

	var errors []ScanError
	for _, pattern := range source.ConfigPaths {
		if source.Parser == nil {
			break
		}
		path := expandPath(pattern)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		key, err := source.Parser(path)
		if err != nil {
			errors = append(errors, ScanError{Source: source.Name, Path: filepath.Clean(path), Error: err.Error()})
			continue
		}
		if key != "" {
			cand.Source = path
			cand.APIKey = key
			return cand, errors
		}
	}
	return nil, errors
}

// probe asks a local platform whether it is running.
func probe(ctx context.Context, client *http.Client, p platform.Platform) (*Candidate, error) {
	preset, _ := catalog.Get(p)
	base, err := url.Parse(preset.BaseURL)
	if err != nil {
		return nil, err
	}
	origin := base.Scheme + "://" + base.Host

	target := origin + "/"
	if p == platform.OLLama {
		target = origin + "/api/tags"
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	cand := &Candidate{Platform: p, Source: "probe:" + origin, APIURL: preset.BaseURL, ModelName: preset.Model}
	if p == platform.OLLama && resp.StatusCode == http.StatusOK {
		var tags struct {
			Models []struct {
				Name string `json:"name"`
			} `json:"models"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&tags); err == nil {
			for _, m := range tags.Models {
				cand.Models = append(cand.Models, m.Name)
			}
		}
	}
	return cand, nil
}

// MaskToken returns a masked version of a token for display
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// Masked returns a copy of r with every API key masked.
func (r *ScanResult) Masked() *ScanResult {
	out := &ScanResult{
		Candidates: make([]Candidate, len(r.Candidates)),
		Errors:     r.Errors,
	}
	for i, c := range r.Candidates {
		if c.APIKey != "" {
			c.APIKey = MaskToken(c.APIKey)
		}
		out.Candidates[i] = c
	}
	return out
}

// Find returns the candidate for p, if one was discovered.
func (r *ScanResult) Find(p platform.Platform) (Candidate, bool) {
	for _, c := range r.Candidates {
		if c.Platform == p {
			return c, true
		}
	}
	return Candidate{}, false
}

// ApplyTo switches cfg to the candidate's platform, endpoint and credential.
// Prompts, theme and display names are kept. A local server's model list wins
// over the preset model only when the preset model is not installed.
func (c Candidate) ApplyTo(cfg config.Config) config.Config {
	cfg.Platform = c.Platform
	cfg.APIURL = c.APIURL
	cfg.APIKey = c.APIKey
	cfg.ModelName = c.ModelName
	if len(c.Models) > 0 && !slices.Contains(c.Models, c.ModelName) {
		cfg.ModelName = c.Models[0]
	}
	return cfg
}
