package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pysugar/quicktrans/internal/discovery"
	"github.com/pysugar/quicktrans/internal/platform"
)

// DiscoveryScanHandler scans for usable backends and returns masked results.
func DiscoveryScanHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		success(w, discovery.Scan(r.Context(), nil).Masked())
	}
}

type discoveryImportRequest struct {
	Platform platform.Platform `json:"platform"`
}

// DiscoveryImportHandler switches the configuration to a discovered backend.
// The scan is repeated server side so unmasked keys never reach the client.
func DiscoveryImportHandler(store ConfigStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req discoveryImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		cand, ok := discovery.Scan(r.Context(), nil).Find(req.Platform)
		if !ok {
			fail(w, http.StatusNotFound, "no usable backend found for "+string(req.Platform))
			return
		}
		if err := store.Replace(cand.ApplyTo(store.Current())); err != nil {
			fail(w, configErrorStatus(err), err.Error())
			return
		}
		success(w, store.Current().Redacted())
	}
}
