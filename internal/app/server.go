package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/handlergrid/internal/ctxlog"
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/format"
	"github.com/specialistvlad/handlergrid/internal/invalidation"
)

const shutdownTimeout = 5 * time.Second

// Handler returns the HTTP API of the app.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /resolve", a.resolveHandler)
	mux.HandleFunc("GET /definitions", a.definitionsHandler)
	mux.HandleFunc("POST /cache/invalidate", a.invalidateHandler)
	return mux
}

// Serve runs the HTTP API on the configured port, and the remote
// invalidation subscriber when one is configured, until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)
	if a.config.HealthcheckPort <= 0 {
		return errors.New("a port is required to serve")
	}

	g, gctx := errgroup.WithContext(ctx)
	addr := fmt.Sprintf(":%d", a.config.HealthcheckPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		logger.Info("🩺 Server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()

		logger.Info("🩺 Shutting down server...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logger.Debug("Server shut down gracefully.")
		return nil
	})

	if a.config.Invalidation.URL != "" {
		sub, err := invalidation.NewSubscriber(a.config.Invalidation, a.cache)
		if err != nil {
			return fmt.Errorf("failed to create invalidation subscriber: %w", err)
		}
		g.Go(func() error { return sub.Run(gctx) })
	} else {
		logger.Debug("Remote invalidation disabled.")
	}

	return g.Wait()
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) resolveHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := definition.ParseCategory(q.Get("category"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := a.Resolve(r.Context(), ResolveRequest{
		Category: c,
		Item: definition.LookupItem{
			Table:    q.Get("table"),
			Field:    q.Get("field"),
			PluginID: q.Get("plugin"),
		},
		Override:  q.Get("override"),
		Aggregate: q.Get("aggregate"),
	})
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	a.writeJSON(w, http.StatusOK, res)
}

func (a *App) definitionsHandler(w http.ResponseWriter, r *http.Request) {
	var categories []definition.Category
	if s := r.URL.Query().Get("category"); s != "" {
		c, err := definition.ParseCategory(s)
		if err != nil {
			a.writeError(w, http.StatusBadRequest, err)
			return
		}
		categories = append(categories, c)
	}

	defs, err := a.Definitions(r.Context(), categories...)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, err)
		return
	}
	a.writeJSON(w, http.StatusOK, defs)
}

func (a *App) invalidateHandler(w http.ResponseWriter, r *http.Request) {
	tags := splitTags(r.URL.Query()["tags"])
	if err := a.InvalidateTags(r.Context(), tags...); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"invalidated": tags})
}

// splitTags flattens repeated and comma-separated tag parameters.
func splitTags(values []string) []string {
	var tags []string
	for _, v := range values {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := format.Encode(w, format.OutputJSON, v); err != nil {
		a.logger.Error("Failed to write response.", "error", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, err error) {
	a.logger.Debug("Request failed.", "status", status, "error", err)
	a.writeJSON(w, status, map[string]string{"error": err.Error()})
}
