package types

// TimeRange selects the reporting window of an endpoint: either a named
// window ("1h", "24h", "7d", ...) or an explicit unix-seconds from/to pair.
// When both are supplied, from/to win and the window is ignored.
type TimeRange struct {
	TimeWindow string `json:"timeWindow,omitempty"`
	From       *int64 `json:"from,omitempty"`
	To         *int64 `json:"to,omitempty"`
}

// TrendingTokensParams are the parameters of the trending-tokens endpoint.
type TrendingTokensParams struct {
	TimeRange
	PageSize    int `json:"pageSize,omitempty"`
	Page        int `json:"page,omitempty"`
	MinMentions int `json:"minMentions,omitempty"`
}

// KeywordMentionsParams are the parameters of the keyword-mentions endpoint.
type KeywordMentionsParams struct {
	Keywords []string `json:"keywords"`
	TimeRange
	Limit      int    `json:"limit,omitempty"`
	SearchType string `json:"searchType,omitempty"`
	Cursor     string `json:"cursor,omitempty"`

	FetchRawContent *bool               `json:"-"`
	Enhancement     *EnhancementOptions `json:"-"`
}

// TokenNewsParams are the parameters of the token-news endpoint.
type TokenNewsParams struct {
	CoinIDs []string `json:"coinIds"`
	TimeRange
	PageSize int `json:"pageSize,omitempty"`
	Page     int `json:"page,omitempty"`

	FetchRawContent *bool               `json:"-"`
	Enhancement     *EnhancementOptions `json:"-"`
}

// TopMentionsParams are the parameters of the top-mentions endpoint.
type TopMentionsParams struct {
	Ticker string `json:"ticker"`
	TimeRange
	PageSize              int  `json:"pageSize,omitempty"`
	Page                  int  `json:"page,omitempty"`
	IncludeAccountDetails bool `json:"includeAccountDetails,omitempty"`

	FetchRawContent *bool               `json:"-"`
	Enhancement     *EnhancementOptions `json:"-"`
}

// SmartStatsParams are the parameters of the account smart-stats endpoint.
type SmartStatsParams struct {
	Username string `json:"username"`
}
