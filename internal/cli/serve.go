package cli

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pkgscout/pkgscout/pkg/errors"
	"github.com/pkgscout/pkgscout/pkg/search"
)

// serveCommand creates the serve command, which exposes the search
// orchestrator over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP API for package searches",
		Long: `Run an HTTP server exposing the search orchestrator.

  GET /api/v1/search?q=numpy&q=samtools

responds with the full report as JSON. Queries that matched nothing are
present with an empty record list; the response status is 200 either way.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			searcher, cleanup, err := c.newSearcher(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return c.serve(cmd.Context(), addr, searcher)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

// serve runs the HTTP server until ctx is cancelled.
func (c *CLI) serve(ctx context.Context, addr string, searcher *search.Searcher) error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/api/v1/search", searchHandler(searcher))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(net.Listener) context.Context {
			return withLogger(context.Background(), c.Logger)
		},
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	c.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
		return ctx.Err()
	}
}

// searchHandler answers one search request. Invalid package names are a
// 400; an empty report entry expresses a miss, not an error.
func searchHandler(searcher *search.Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queries := r.URL.Query()["q"]
		if len(queries) == 0 {
			http.Error(w, "missing q parameter", http.StatusBadRequest)
			return
		}
		for _, q := range queries {
			if err := errors.ValidatePackageName(q); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		report := searcher.Search(r.Context(), queries)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			loggerFromContext(r.Context()).Warn("encode response", "error", err)
		}
	}
}
