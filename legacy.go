package mindshare

import (
	"context"

	"mindshare-sdk/types"
)

// LegacyClient preserves the v1 method and parameter vocabulary on top of
// the current client. It only renames fields and applies one default: when
// legacy behavior is enabled, raw tweet content is fetched unless a call
// says otherwise. It adds no failure semantics of its own.
type LegacyClient struct {
	c *Client
	// enableLegacyBehavior defaults FetchRawContent to true, matching the
	// always-enhancing v1 client.
	enableLegacyBehavior bool
}

// NewLegacyClient wraps an existing Client in the v1 surface.
func NewLegacyClient(c *Client, enableLegacyBehavior bool) *LegacyClient {
	return &LegacyClient{c: c, enableLegacyBehavior: enableLegacyBehavior}
}

// LegacyTrendingParams is the v1 trending-tokens parameter shape.
type LegacyTrendingParams struct {
	Period      string `json:"period,omitempty"`
	Page        int    `json:"page,omitempty"`
	PageSize    int    `json:"pageSize,omitempty"`
	MinMentions int    `json:"minMentions,omitempty"`
}

// LegacyMentionsParams is the v1 mentions parameter shape.
type LegacyMentionsParams struct {
	Keywords     []string `json:"keywords"`
	SearchPeriod string   `json:"searchPeriod,omitempty"`
	Limit        int      `json:"limit,omitempty"`

	FetchRawContent *bool `json:"-"`
}

// LegacySearchParams is the v1 keyword-search parameter shape with an
// explicit unix-seconds range.
type LegacySearchParams struct {
	Keywords []string `json:"keywords"`
	From     int64    `json:"from"`
	To       int64    `json:"to"`
	Limit    int      `json:"limit,omitempty"`
	Cursor   string   `json:"cursor,omitempty"`

	FetchRawContent *bool `json:"-"`
}

// LegacyTopMentionsParams is the v1 top-mentions parameter shape.
type LegacyTopMentionsParams struct {
	Coin            string `json:"coin"`
	Period          string `json:"period,omitempty"`
	Page            int    `json:"page,omitempty"`
	PageSize        int    `json:"pageSize,omitempty"`
	IncludeAccounts bool   `json:"includeAccounts,omitempty"`

	FetchRawContent *bool `json:"-"`
}

// Ping forwards to the health probe.
func (l *LegacyClient) Ping(ctx context.Context) (*types.ObjectResponse[types.Pong], error) {
	return l.c.Ping(ctx)
}

// GetKeyStatus forwards to the key-status endpoint.
func (l *LegacyClient) GetKeyStatus(ctx context.Context) (*types.ObjectResponse[types.KeyStatus], error) {
	return l.c.GetKeyStatus(ctx)
}

// GetTrendingTokens maps the v1 period/page vocabulary onto the current
// trending-tokens call.
func (l *LegacyClient) GetTrendingTokens(ctx context.Context, p LegacyTrendingParams) (*types.PagedResponse[types.TrendingToken], error) {
	return l.c.GetTrendingTokens(ctx, types.TrendingTokensParams{
		TimeRange:   types.TimeRange{TimeWindow: p.Period},
		Page:        p.Page,
		PageSize:    p.PageSize,
		MinMentions: p.MinMentions,
	})
}

// GetMentions maps the v1 searchPeriod/limit vocabulary onto keyword
// mentions.
func (l *LegacyClient) GetMentions(ctx context.Context, p LegacyMentionsParams) (*types.PagedResponse[types.EnhancedMention], error) {
	return l.c.GetKeywordMentions(ctx, types.KeywordMentionsParams{
		Keywords:        p.Keywords,
		TimeRange:       types.TimeRange{TimeWindow: p.SearchPeriod},
		Limit:           p.Limit,
		FetchRawContent: l.rawContent(p.FetchRawContent),
	})
}

// SearchMentions maps the v1 explicit-range search onto keyword mentions.
func (l *LegacyClient) SearchMentions(ctx context.Context, p LegacySearchParams) (*types.PagedResponse[types.EnhancedMention], error) {
	from, to := p.From, p.To
	return l.c.GetKeywordMentions(ctx, types.KeywordMentionsParams{
		Keywords:        p.Keywords,
		TimeRange:       types.TimeRange{From: &from, To: &to},
		Limit:           p.Limit,
		Cursor:          p.Cursor,
		FetchRawContent: l.rawContent(p.FetchRawContent),
	})
}

// GetTopMentions maps the v1 coin/period vocabulary onto top mentions.
func (l *LegacyClient) GetTopMentions(ctx context.Context, p LegacyTopMentionsParams) (*types.PagedResponse[types.EnhancedTopMention], error) {
	return l.c.GetTopMentions(ctx, types.TopMentionsParams{
		Ticker:                p.Coin,
		TimeRange:             types.TimeRange{TimeWindow: p.Period},
		Page:                  p.Page,
		PageSize:              p.PageSize,
		IncludeAccountDetails: p.IncludeAccounts,
		FetchRawContent:       l.rawContent(p.FetchRawContent),
	})
}

// GetSmartStats maps the v1 accountName parameter onto smart stats.
func (l *LegacyClient) GetSmartStats(ctx context.Context, accountName string) (*types.ObjectResponse[types.AccountSmartStats], error) {
	return l.c.GetAccountSmartStats(ctx, types.SmartStatsParams{Username: accountName})
}

// rawContent applies the legacy default: enhancement on unless the call
// explicitly opts out.
func (l *LegacyClient) rawContent(perCall *bool) *bool {
	if perCall != nil {
		return perCall
	}
	if l.enableLegacyBehavior {
		on := true
		return &on
	}
	return nil
}
