package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/matthewjwhite/sitecfg/internal/site"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

var formatContentTypes = map[site.Format]string{
	site.FormatJSON: "application/json",
	site.FormatYAML: "application/yaml",
	site.FormatTOML: "application/toml",
}

// Handler serves a read-only view of a SiteConfig. The record is immutable,
// so no locking is needed between requests.
type Handler struct {
	record   *site.SiteConfig
	clock    func() time.Time
	loadedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler serving record.
func NewHandler(record *site.SiteConfig, opts ...HandlerOption) *Handler {
	h := &Handler{
		record: record,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.loadedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
		LoadedAt:  h.loadedAt,
	})
}

func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	format := site.FormatJSON
	if raw := r.URL.Query().Get("format"); raw != "" {
		format = site.Format(raw)
	}

	contentType, ok := formatContentTypes[format]
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid format", "format must be one of json, yaml, toml")
		return
	}

	var buf bytes.Buffer
	if err := h.record.Encode(&buf, format); err != nil {
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleIntegrations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, integrationsResponse{
		Integrations: h.record.Document().Integrations,
	})
}

func (h *Handler) handleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(site.Schema())
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type integrationsResponse struct {
	Integrations []site.IntegrationDocument `json:"integrations"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	LoadedAt  time.Time `json:"loadedAt"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
