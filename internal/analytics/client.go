// Package analytics is the client for the Mindshare analytics API. Each
// endpoint gets one method that validates its parameters before any network
// call, builds the query string and decodes the typed envelope. Retrying is
// the transport's job; business-level success flags pass through untouched.
package analytics

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"mindshare-sdk/apierror"
	"mindshare-sdk/internal/transport"
	"mindshare-sdk/types"
)

// Client wraps the transport bound to the Mindshare API.
type Client struct {
	tp *transport.Client
}

// New builds a Client on top of an already-configured transport.
func New(tp *transport.Client) *Client {
	return &Client{tp: tp}
}

// Ping probes the health endpoint.
func (c *Client) Ping(ctx context.Context) (*types.ObjectResponse[types.Pong], error) {
	var out types.ObjectResponse[types.Pong]
	if err := c.tp.Get(ctx, "/v2/ping", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// KeyStatus returns usage and limits for the configured API key.
func (c *Client) KeyStatus(ctx context.Context) (*types.ObjectResponse[types.KeyStatus], error) {
	var out types.ObjectResponse[types.KeyStatus]
	if err := c.tp.Get(ctx, "/v2/key-status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrendingTokens lists tokens ranked by mention volume over a time range.
func (c *Client) TrendingTokens(ctx context.Context, p types.TrendingTokensParams) (*types.PagedResponse[types.TrendingToken], error) {
	q := url.Values{}
	if err := applyTimeRange(q, p.TimeRange); err != nil {
		return nil, err
	}
	setInt(q, "pageSize", p.PageSize)
	setInt(q, "page", p.Page)
	setInt(q, "minMentions", p.MinMentions)

	var out types.PagedResponse[types.TrendingToken]
	if err := c.tp.Get(ctx, "/v2/aggregations/trending-tokens", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// KeywordMentions lists mentions matching one or more keywords.
func (c *Client) KeywordMentions(ctx context.Context, p types.KeywordMentionsParams) (*types.PagedResponse[types.Mention], error) {
	if len(p.Keywords) == 0 {
		return nil, apierror.NewValidationError("keywords", "at least one keyword is required")
	}
	q := url.Values{}
	q.Set("keywords", strings.Join(p.Keywords, ","))
	if err := applyTimeRange(q, p.TimeRange); err != nil {
		return nil, err
	}
	setInt(q, "limit", p.Limit)
	setStr(q, "searchType", p.SearchType)
	setStr(q, "cursor", p.Cursor)

	var out types.PagedResponse[types.Mention]
	if err := c.tp.Get(ctx, "/v2/data/keyword-mentions", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TokenNews lists news-style posts for one or more coins.
func (c *Client) TokenNews(ctx context.Context, p types.TokenNewsParams) (*types.PagedResponse[types.NewsItem], error) {
	if len(p.CoinIDs) == 0 {
		return nil, apierror.NewValidationError("coinIds", "at least one coin id is required")
	}
	q := url.Values{}
	q.Set("coinIds", strings.Join(p.CoinIDs, ","))
	if err := applyTimeRange(q, p.TimeRange); err != nil {
		return nil, err
	}
	setInt(q, "pageSize", p.PageSize)
	setInt(q, "page", p.Page)

	var out types.PagedResponse[types.NewsItem]
	if err := c.tp.Get(ctx, "/v2/data/token-news", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TopMentions lists the highest-engagement mentions for a ticker.
func (c *Client) TopMentions(ctx context.Context, p types.TopMentionsParams) (*types.PagedResponse[types.TopMention], error) {
	if strings.TrimSpace(p.Ticker) == "" {
		return nil, apierror.NewValidationError("ticker", "ticker is required")
	}
	q := url.Values{}
	q.Set("ticker", p.Ticker)
	if err := applyTimeRange(q, p.TimeRange); err != nil {
		return nil, err
	}
	setInt(q, "pageSize", p.PageSize)
	setInt(q, "page", p.Page)
	if p.IncludeAccountDetails {
		q.Set("includeAccountDetails", "true")
	}

	var out types.PagedResponse[types.TopMention]
	if err := c.tp.Get(ctx, "/v2/data/top-mentions", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AccountSmartStats returns engagement stats for one account.
func (c *Client) AccountSmartStats(ctx context.Context, p types.SmartStatsParams) (*types.ObjectResponse[types.AccountSmartStats], error) {
	if strings.TrimSpace(p.Username) == "" {
		return nil, apierror.NewValidationError("username", "username is required")
	}
	q := url.Values{}
	q.Set("username", p.Username)

	var out types.ObjectResponse[types.AccountSmartStats]
	if err := c.tp.Get(ctx, "/v2/account/smart-stats", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// applyTimeRange validates and serializes a TimeRange. A request must carry
// either a named window or both ends of an explicit range; when both forms
// are present, from/to win and the window is dropped from the query.
func applyTimeRange(q url.Values, tr types.TimeRange) error {
	switch {
	case tr.From != nil && tr.To != nil:
		q.Set("from", strconv.FormatInt(*tr.From, 10))
		q.Set("to", strconv.FormatInt(*tr.To, 10))
		return nil
	case tr.From != nil || tr.To != nil:
		return apierror.NewValidationError("from/to", "from and to must be supplied together")
	case tr.TimeWindow != "":
		q.Set("timeWindow", tr.TimeWindow)
		return nil
	default:
		return apierror.NewValidationError("timeWindow", "either timeWindow or a from/to range is required")
	}
}

// setInt adds an int param, omitting non-positive values entirely.
func setInt(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}

// setStr adds a string param, omitting empty values entirely.
func setStr(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}
