package middleware

import (
	"github.com/go-chi/cors"
	"github.com/pysugar/quicktrans/internal/logging"
)

// DefaultOrigins are the webview origins the desktop shell loads the UI from.
var DefaultOrigins = []string{
	"tauri://localhost",
	"http://tauri.localhost",
	"http://localhost:*",
	"http://127.0.0.1:*",
}

func CORSOptions(allowedOrigins []string) cors.Options {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultOrigins
	}
	return cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", logging.HeaderRequestID},
		ExposedHeaders: []string{logging.HeaderRequestID},
		MaxAge:         300,
	}
}
