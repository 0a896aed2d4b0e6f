package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pysugar/quicktrans/internal/db"
	"github.com/pysugar/quicktrans/internal/db/models"
)

// HistoryStore is implemented by *db.HistoryStore.
type HistoryStore interface {
	History(ctx context.Context, limit, offset int) ([]models.TranslationRecord, error)
	Search(ctx context.Context, query string, limit int) ([]models.TranslationRecord, error)
	Get(ctx context.Context, id string) (models.TranslationRecord, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) (int64, error)
}

type historyPage struct {
	Records []models.TranslationRecord `json:"records"`
	Total   int64                      `json:"total"`
}

func HistoryHandler(store HistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := intParam(w, r, "limit")
		if !ok {
			return
		}
		offset, ok := intParam(w, r, "offset")
		if !ok {
			return
		}

		records, err := store.History(r.Context(), limit, offset)
		if err != nil {
			fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		total, err := store.Count(r.Context())
		if err != nil {
			fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		success(w, historyPage{Records: nonNil(records), Total: total})
	}
}

func SearchHistoryHandler(store HistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			fail(w, http.StatusBadRequest, "q is required")
			return
		}
		limit, ok := intParam(w, r, "limit")
		if !ok {
			return
		}

		records, err := store.Search(r.Context(), query, limit)
		if err != nil {
			fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		success(w, nonNil(records))
	}
}

func GetHistoryHandler(store HistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, db.ErrNotFound) {
			fail(w, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		success(w, rec)
	}
}

// DeleteHistoryHandler reports whether the record existed; an unknown id is
// not an error.
func DeleteHistoryHandler(store HistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := store.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		success(w, removed)
	}
}

func ClearHistoryHandler(store HistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := store.Clear(r.Context())
		if err != nil {
			fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		success(w, removed)
	}
}

// intParam parses an optional integer query parameter. Absent means 0, which
// the store maps to its defaults.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fail(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return n, true
}

func nonNil(records []models.TranslationRecord) []models.TranslationRecord {
	if records == nil {
		return []models.TranslationRecord{}
	}
	return records
}
