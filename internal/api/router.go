// Package api exposes the reports over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/tokenomics-cli/internal/report"
	"github.com/sells-group/tokenomics-cli/pkg/coinmarketcap"
)

// Reports builds the per-token reports. *aggregate.Aggregator implements it.
type Reports interface {
	Links(ctx context.Context, token string) map[string]string
	FundraisingReport(ctx context.Context, token string) string
	VestingReport(ctx context.Context, token string) string
}

// NewRouter returns the HTTP handler. meta may be nil, in which case the
// metadata route answers 503.
func NewRouter(reports Reports, meta coinmarketcap.Client, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &handler{reports: reports, meta: meta, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)
	r.Route("/v1", func(r chi.Router) {
		r.Route("/tokens/{token}", func(r chi.Router) {
			r.Get("/links", h.links)
			r.Get("/fundraising", h.fundraising)
			r.Get("/vesting", h.vesting)
		})
		r.Get("/coins/{symbol}/metadata", h.metadata)
	})
	return r
}

type handler struct {
	reports Reports
	meta    coinmarketcap.Client
	log     *zap.Logger
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) links(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"slugs": h.reports.Links(r.Context(), token),
	})
}

func (h *handler) fundraising(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenParam(w, r)
	if !ok {
		return
	}
	writeText(w, http.StatusOK, h.reports.FundraisingReport(r.Context(), token))
}

func (h *handler) vesting(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenParam(w, r)
	if !ok {
		return
	}
	writeText(w, http.StatusOK, h.reports.VestingReport(r.Context(), token))
}

func (h *handler) metadata(w http.ResponseWriter, r *http.Request) {
	if h.meta == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "metadata source not configured"})
		return
	}
	symbol := strings.TrimSpace(chi.URLParam(r, "symbol"))
	info, err := h.meta.Info(r.Context(), symbol)
	switch {
	case errors.Is(err, coinmarketcap.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no metadata for " + symbol})
		return
	case err != nil:
		h.log.Error("metadata lookup failed", zap.String("symbol", symbol), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "metadata lookup failed"})
		return
	}
	writeText(w, http.StatusOK, report.Metadata(info))
}

func tokenParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := strings.TrimSpace(chi.URLParam(r, "token"))
	if token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token is required"})
		return "", false
	}
	return token, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("http request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
