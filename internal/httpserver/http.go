// Package httpserver exposes the SDK operations as a small JSON-over-HTTP
// proxy, for deployments that want one shared Mindshare client behind a
// service instead of per-process credentials.
package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mindshare "mindshare-sdk"
)

// NewServer builds the proxy server on the given port.
func NewServer(port string, sdk *mindshare.Client) *http.Server {
	h := Handler{SDK: sdk}
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	r.Get("/status", h.Status)
	r.Get("/trending-tokens", h.TrendingTokens)
	r.Get("/mentions", h.KeywordMentions)
	r.Get("/token-news", h.TokenNews)
	r.Get("/top-mentions", h.TopMentions)
	r.Get("/smart-stats", h.SmartStats)

	return &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
}
