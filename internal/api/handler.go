package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ninja0404/old-runners/internal/model"
	"github.com/ninja0404/old-runners/internal/pipeline"
	"github.com/ninja0404/old-runners/pkg/logger"
)

// Scanner runs one scan over the given networks
type Scanner interface {
	Run(ctx context.Context, networks []string, cfg model.FilterConfig) *pipeline.Result
}

// Pinger is a backing dependency checked by /healthz
type Pinger interface {
	Ping(ctx context.Context) error
}

const pingTimeout = 2 * time.Second

type HandlerOption func(*Handler)

// WithCachePinger reports the shared cache on /healthz
func WithCachePinger(p Pinger) HandlerOption {
	return func(h *Handler) {
		h.cache = p
	}
}

type Handler struct {
	scanner  Scanner
	networks []string
	ttl      int
	cache    Pinger
}

func NewHandler(scanner Scanner, defaultNetworks []string, ttl time.Duration, opts ...HandlerOption) *Handler {
	h := &Handler{
		scanner:  scanner,
		networks: defaultNetworks,
		ttl:      int(ttl / time.Second),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OldRunners GET /api/old-runners. Always 200: upstream failures only shrink
// the result.
func (h *Handler) OldRunners(w http.ResponseWriter, r *http.Request) {
	log := logger.LogFromContext(r.Context())
	q := r.URL.Query()
	cfg := ParseFilterConfig(q)
	networks := ParseNetworks(q, h.networks)

	res := h.scanner.Run(r.Context(), networks, cfg)
	if err := res.Err(); err != nil {
		log.Warn("scan finished with failed networks", logger.FieldErr(err))
	}

	w.Header().Set("Cache-Control", h.cacheControl())
	writeJSON(w, http.StatusOK, BuildResponse(res, cfg, h.ttl))
}

// Health GET /healthz. An unreachable cache only degrades the service, scans
// fall through to the upstreams, so the answer stays 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":   "ok",
		"networks": h.networks,
		"ttl":      h.ttl,
	}
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			logger.LogFromContext(r.Context()).Warn("cache ping failed", logger.FieldErr(err))
			body["status"] = "degraded"
			body["cache"] = err.Error()
		} else {
			body["cache"] = "ok"
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) cacheControl() string {
	if h.ttl <= 0 {
		return "no-store"
	}
	return fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate", h.ttl)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write response failed", logger.FieldMod("api"), logger.FieldErr(err))
	}
}
