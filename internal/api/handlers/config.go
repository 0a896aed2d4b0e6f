package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pysugar/quicktrans/internal/config"
)

// ConfigStore is implemented by *config.Service.
type ConfigStore interface {
	Current() config.Config
	Replace(config.Config) error
	Reset() (config.Config, error)
}

func GetConfigHandler(store ConfigStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		success(w, store.Current())
	}
}

// UpdateConfigHandler applies a full or partial config. Fields absent from the
// body keep their current values.
func UpdateConfigHandler(store ConfigStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next := store.Current()
		if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
			fail(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if err := store.Replace(next); err != nil {
			fail(w, configErrorStatus(err), err.Error())
			return
		}
		success(w, store.Current())
	}
}

func ResetConfigHandler(store ConfigStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := store.Reset()
		if err != nil {
			fail(w, configErrorStatus(err), err.Error())
			return
		}
		success(w, cfg)
	}
}

func configErrorStatus(err error) int {
	if errors.Is(err, config.ErrInvalid) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
