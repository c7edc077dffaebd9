package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	mindshare "mindshare-sdk"
	"mindshare-sdk/apierror"
	"mindshare-sdk/types"
)

// Handler serves the proxy routes through one shared SDK client.
type Handler struct {
	SDK *mindshare.Client
}

// Status reports per-API connectivity.
func (h Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.SDK.TestConnection(r.Context()))
}

// TrendingTokens handles GET /trending-tokens.
func (h Handler) TrendingTokens(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := types.TrendingTokensParams{
		TimeRange:   timeRange(q),
		PageSize:    intParam(q.Get("pageSize")),
		Page:        intParam(q.Get("page")),
		MinMentions: intParam(q.Get("minMentions")),
	}
	res, err := h.SDK.GetTrendingTokens(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// KeywordMentions handles GET /mentions.
func (h Handler) KeywordMentions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := types.KeywordMentionsParams{
		Keywords:        listParam(q.Get("keywords")),
		TimeRange:       timeRange(q),
		Limit:           intParam(q.Get("limit")),
		SearchType:      q.Get("searchType"),
		Cursor:          q.Get("cursor"),
		FetchRawContent: boolParam(q.Get("raw")),
	}
	res, err := h.SDK.GetKeywordMentions(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// TokenNews handles GET /token-news.
func (h Handler) TokenNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := types.TokenNewsParams{
		CoinIDs:         listParam(q.Get("coinIds")),
		TimeRange:       timeRange(q),
		PageSize:        intParam(q.Get("pageSize")),
		Page:            intParam(q.Get("page")),
		FetchRawContent: boolParam(q.Get("raw")),
	}
	res, err := h.SDK.GetTokenNews(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// TopMentions handles GET /top-mentions.
func (h Handler) TopMentions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := types.TopMentionsParams{
		Ticker:                q.Get("ticker"),
		TimeRange:             timeRange(q),
		PageSize:              intParam(q.Get("pageSize")),
		Page:                  intParam(q.Get("page")),
		IncludeAccountDetails: q.Get("includeAccountDetails") == "true",
		FetchRawContent:       boolParam(q.Get("raw")),
	}
	res, err := h.SDK.GetTopMentions(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SmartStats handles GET /smart-stats.
func (h Handler) SmartStats(w http.ResponseWriter, r *http.Request) {
	res, err := h.SDK.GetAccountSmartStats(r.Context(), types.SmartStatsParams{
		Username: r.URL.Query().Get("username"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func timeRange(q interface{ Get(string) string }) types.TimeRange {
	tr := types.TimeRange{TimeWindow: q.Get("timeWindow")}
	if v := q.Get("from"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			tr.From = &n
		}
	}
	if v := q.Get("to"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			tr.To = &n
		}
	}
	return tr
}

func listParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intParam(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}

func boolParam(v string) *bool {
	if v == "" {
		return nil
	}
	b := v == "true" || v == "1"
	return &b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the SDK error taxonomy onto proxy status codes. Upstream
// failures surface as 502 so they are distinguishable from caller mistakes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway

	var ve *apierror.ValidationError
	var re *apierror.RateLimitError
	var ae *apierror.AuthenticationError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.As(err, &re):
		status = http.StatusTooManyRequests
	case errors.As(err, &ae):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
