package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/office-dates/internal/calendar"
	"github.com/username/office-dates/internal/tools"
	"go.uber.org/zap"
)

// ToolRegistry is the subset of tools.Registry used by the HTTP layer
type ToolRegistry interface {
	List() []tools.Tool
	Call(ctx context.Context, name string, args json.RawMessage) (any, error)
}

// DatasetInfo reports the bounds of the loaded dataset for health checks
type DatasetInfo interface {
	Len() int
	First() (calendar.OfficeDate, bool)
	Last() (calendar.OfficeDate, bool)
}

// Handler serves the tool-invocation API
type Handler struct {
	registry ToolRegistry
	dataset  DatasetInfo
	logger   *zap.Logger

	Mux *chi.Mux
}

// NewHandler creates a Handler with its routes registered
func NewHandler(registry ToolRegistry, dataset DatasetInfo, logger *zap.Logger) *Handler {
	h := &Handler{
		registry: registry,
		dataset:  dataset,
		logger:   logger,
		Mux:      chi.NewRouter(),
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.Mux.Use(middleware.RequestID)
	h.Mux.Use(h.requestLogger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Health)

	h.Mux.Route("/tools", func(r chi.Router) {
		r.Get("/", h.ListTools)
		r.Post("/call", h.CallTool)
	})
}
