package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pysugar/quicktrans/internal/api"
	"github.com/pysugar/quicktrans/internal/events"
	"github.com/spf13/cobra"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		addr    string
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for the desktop windows",
		Long: `Run the HTTP API consumed by the translate, history and settings windows.

Set QUICKTRANS_TOKEN to require "Authorization: Bearer <token>" on /api.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			hub := events.NewHub()
			a, err := openApp(flags, hub)
			if err != nil {
				return err
			}
			defer a.Close()

			router := api.NewRouter(api.Options{
				Translator:     a.translator,
				Config:         a.config,
				History:        a.history,
				Events:         hub.ServeWS,
				Token:          os.Getenv("QUICKTRANS_TOKEN"),
				AllowedOrigins: origins,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, addr, router)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr(), "Listen address (HOST and PORT env vars set the default)")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "Allowed CORS origins (default: webview and localhost origins)")
	return cmd
}

func defaultAddr() string {
	host := os.Getenv("HOST")
	if host == "" {
		host = "127.0.0.1" // set HOST=0.0.0.0 for LAN access
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8089"
	}
	return net.JoinHostPort(host, port)
}

func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		displayAddr := addr
		if strings.HasPrefix(addr, "0.0.0.0:") {
			displayAddr = "<your-ip>" + strings.TrimPrefix(addr, "0.0.0.0")
		}
		log.Printf("🚀 quicktrans API listening on http://%s/api", displayAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Printf("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
