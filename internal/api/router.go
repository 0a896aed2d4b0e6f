// Package api wires the HTTP surface used by the desktop UI windows.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pysugar/quicktrans/internal/api/handlers"
	"github.com/pysugar/quicktrans/internal/api/middleware"
	"github.com/pysugar/quicktrans/internal/logging"
)

// Options carries the services behind the API.
type Options struct {
	Translator handlers.Translator
	Config     handlers.ConfigStore
	History    handlers.HistoryStore
	// Events serves GET /api/events; nil disables the route.
	Events http.HandlerFunc
	// Token enables bearer auth when non-empty.
	Token          string
	AllowedOrigins []string
}

func NewRouter(opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(logging.RequestID)
	r.Use(cors.Handler(middleware.CORSOptions(opts.AllowedOrigins)))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.TokenAuth(opts.Token))

		r.Post("/translate", handlers.TranslateHandler(opts.Translator))

		r.Get("/config", handlers.GetConfigHandler(opts.Config))
		r.Put("/config", handlers.UpdateConfigHandler(opts.Config))
		r.Post("/config/reset", handlers.ResetConfigHandler(opts.Config))

		r.Get("/history", handlers.HistoryHandler(opts.History))
		r.Delete("/history", handlers.ClearHistoryHandler(opts.History))
		r.Get("/history/search", handlers.SearchHistoryHandler(opts.History))
		r.Get("/history/{id}", handlers.GetHistoryHandler(opts.History))
		r.Delete("/history/{id}", handlers.DeleteHistoryHandler(opts.History))

		r.Get("/discovery/scan", handlers.DiscoveryScanHandler())
		r.Post("/discovery/import", handlers.DiscoveryImportHandler(opts.Config))

		r.Get("/languages", handlers.LanguagesHandler())
		r.Get("/platforms", handlers.PlatformsHandler())
		r.Get("/version", handlers.VersionHandler())

		if opts.Events != nil {
			r.Get("/events", opts.Events)
		}
	})

	return r
}
