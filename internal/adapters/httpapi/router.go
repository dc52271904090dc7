// Package httpapi exposes the catalog service over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter registers the API routes on a new gin engine.
func NewRouter(h *CatalogHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.Health)

	v1 := r.Group("/v1")
	{
		catalogs := v1.Group("/catalogs")
		catalogs.GET("", h.ListLanguages)
		catalogs.POST("", h.Import)

		locale := catalogs.Group("/:locale")
		locale.DELETE("", h.Delete)
		locale.GET("/lookup", h.Lookup)
		locale.GET("/stats", h.Stats)
		locale.GET("/unfinished", h.Unfinished)
		locale.GET("/check", h.Check)
		locale.GET("/export.ts", h.ExportTS)
		locale.GET("/export.toml", h.ExportTOML)
	}
	return r
}

// Serve runs the API on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🌐 API HTTP en écoute sur %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
