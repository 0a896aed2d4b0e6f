package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pysugar/quicktrans/internal/util"
	"github.com/pysugar/quicktrans/internal/version"
	"golang.org/x/oauth2"
)

const maxResponseSize = 8 << 20

// Transport delivers a payload to a backend endpoint and returns the raw body.
type Transport interface {
	Send(ctx context.Context, endpoint, credential string, payload Payload) ([]byte, error)
}

// HTTPTransport posts JSON payloads with a bearer credential. It never retries.
type HTTPTransport struct {
	base http.RoundTripper
}

// NewHTTPTransport uses a dedicated connection pool shared by all requests.
func NewHTTPTransport() *HTTPTransport {
	return NewHTTPTransportWithRoundTripper(http.DefaultTransport.(*http.Transport).Clone())
}

// NewHTTPTransportWithRoundTripper lets tests substitute the network.
func NewHTTPTransportWithRoundTripper(rt http.RoundTripper) *HTTPTransport {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &HTTPTransport{base: rt}
}

// client wraps the shared pool with the caller's credential. The credential
// can change with every config update, so it is bound per call. Local
// backends run without one and get no Authorization header.
func (t *HTTPTransport) client(credential string) *http.Client {
	if credential == "" {
		return &http.Client{Transport: t.base}
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential}),
			Base:   t.base,
		},
	}
}

func (t *HTTPTransport) Send(ctx context.Context, endpoint, credential string, payload Payload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("encode payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "quicktrans/"+version.Version)

	resp, err := t.client(credential).Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       util.TruncateLog(string(respBody), util.DefaultLogMaxLen),
		}
	}
	return respBody, nil
}
