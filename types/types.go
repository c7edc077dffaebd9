// Package types holds the request and response shapes exchanged with the
// Mindshare analytics API and the Twitter API, plus the enhancement types
// produced when the two are merged.
package types

// Metadata is the optional pagination/accounting block of an API response.
type Metadata struct {
	Total      *int    `json:"total,omitempty"`
	Page       *int    `json:"page,omitempty"`
	PageSize   *int    `json:"pageSize,omitempty"`
	Cursor     *string `json:"cursor,omitempty"`
	NextCursor *string `json:"nextCursor,omitempty"`
}

// PagedResponse is the Mindshare API envelope. EnhancementInfo is attached
// by the SDK when tweet enhancement ran for the call; it is absent otherwise
// and callers must branch on its presence, not on a zero value.
type PagedResponse[T any] struct {
	Success         bool             `json:"success"`
	Data            []T              `json:"data"`
	Metadata        *Metadata        `json:"metadata,omitempty"`
	EnhancementInfo *EnhancementInfo `json:"enhancement_info,omitempty"`
}

// ObjectResponse is the envelope for endpoints returning a single object.
type ObjectResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// Mention is one keyword-mention record. Engagement counters are pointers:
// a counter the API did not report stays nil and is never coerced to 0.
// OriginalURL links to the underlying tweet and is the correlation hint
// used for enhancement.
type Mention struct {
	ID          string `json:"id"`
	Type        string `json:"type,omitempty"`
	Content     string `json:"content"`
	OriginalURL string `json:"original_url"`
	LikeCount   *int   `json:"like_count"`
	RepostCount *int   `json:"repost_count"`
	ReplyCount  *int   `json:"reply_count"`
	ViewCount   *int64 `json:"view_count"`
	MentionedAt string `json:"mentioned_at"`
}

// NewsItem is one token-news record. SourceURL is the correlation hint.
type NewsItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content,omitempty"`
	SourceURL   string   `json:"source_url"`
	CoinIDs     []string `json:"coin_ids,omitempty"`
	LikeCount   *int     `json:"like_count"`
	RepostCount *int     `json:"repost_count"`
	PostedAt    string   `json:"posted_at"`
}

// TopMention is one top-mention record. TweetID is a platform-native id and
// is used directly as the correlation key, no URL extraction involved.
type TopMention struct {
	TweetID     string   `json:"tweet_id"`
	Content     string   `json:"content"`
	AccountName string   `json:"account_name,omitempty"`
	Account     *Account `json:"account,omitempty"`
	LikeCount   *int     `json:"like_count"`
	RepostCount *int     `json:"repost_count"`
	ReplyCount  *int     `json:"reply_count"`
	ViewCount   *int64   `json:"view_count"`
	MentionedAt string   `json:"mentioned_at"`
}

// Account is the optional account detail block on a top mention.
type Account struct {
	Username      string `json:"username"`
	FollowerCount *int   `json:"follower_count"`
	IsVerified    bool   `json:"is_verified"`
}

// TrendingToken is one trending-token aggregate.
type TrendingToken struct {
	Token         string   `json:"token"`
	CurrentCount  *int     `json:"current_count"`
	PreviousCount *int     `json:"previous_count"`
	ChangePercent *float64 `json:"change_percent"`
}

// AccountSmartStats is the smart-stats block for one account.
type AccountSmartStats struct {
	FollowerEngagementRatio *float64 `json:"follower_engagement_ratio"`
	AverageEngagement       *float64 `json:"average_engagement"`
	SmartFollowingCount     *int     `json:"smart_following_count"`
}

// KeyStatus reports API-key usage and limits.
type KeyStatus struct {
	Key               string `json:"key,omitempty"`
	Status            string `json:"status"`
	DailyRequestLimit *int   `json:"daily_request_limit"`
	DailyRequestCount *int   `json:"daily_request_count"`
	MonthlyLimit      *int   `json:"monthly_limit"`
	MonthlyCount      *int   `json:"monthly_count"`
}

// Pong is the health-probe response body.
type Pong struct {
	Message string `json:"message,omitempty"`
}

// Tweet is a Twitter API v2 tweet payload with the fixed field selection the
// SDK always requests.
type Tweet struct {
	ID            string        `json:"id"`
	Text          string        `json:"text"`
	AuthorID      string        `json:"author_id"`
	CreatedAt     string        `json:"created_at,omitempty"`
	PublicMetrics *TweetMetrics `json:"public_metrics,omitempty"`
}

// TweetMetrics are the public engagement counters of a tweet.
type TweetMetrics struct {
	LikeCount       int `json:"like_count"`
	RetweetCount    int `json:"retweet_count"`
	ReplyCount      int `json:"reply_count"`
	QuoteCount      int `json:"quote_count"`
	ImpressionCount int `json:"impression_count"`
}

// TwitterUser is a Twitter API v2 user payload resolved from the includes
// section of a tweet lookup.
type TwitterUser struct {
	ID            string       `json:"id"`
	Username      string       `json:"username"`
	Name          string       `json:"name,omitempty"`
	Verified      bool         `json:"verified"`
	VerifiedType  string       `json:"verified_type,omitempty"`
	PublicMetrics *UserMetrics `json:"public_metrics,omitempty"`
}

// UserMetrics are the public counters of a Twitter user.
type UserMetrics struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TweetCount     int `json:"tweet_count"`
}

// TweetLookup is the result of a batched tweet lookup: tweets plus the
// authors resolved from the same response.
type TweetLookup struct {
	Tweets []Tweet
	Users  []TwitterUser
}

// DataSource tags where an enhanced record's fields came from.
type DataSource string

const (
	// DataSourceOnly means the record carries Mindshare data only.
	DataSourceOnly DataSource = "source-only"
	// DataSourceEnhanced means tweet content and author data were attached.
	DataSourceEnhanced DataSource = "source+enhanced"
)

// EnhancedMetrics are computed from a matched tweet and its author.
// EngagementRate is omitted entirely when impressions are absent or zero.
type EnhancedMetrics struct {
	EngagementRate *float64 `json:"engagement_rate,omitempty"`
	Reach          *int     `json:"reach,omitempty"`
	Verified       bool     `json:"verified"`
}

// EnhancedMention is a Mention optionally augmented with raw tweet data.
// Either all enhancement fields are set (DataSource source+enhanced) or
// none are (source-only); they are never partially populated.
type EnhancedMention struct {
	Mention
	RawContent      *string          `json:"raw_content,omitempty"`
	EnhancedMetrics *EnhancedMetrics `json:"enhanced_metrics,omitempty"`
	Tweet           *Tweet           `json:"tweet,omitempty"`
	TweetAuthor     *TwitterUser     `json:"tweet_author,omitempty"`
	DataSource      DataSource       `json:"data_source,omitempty"`
}

// EnhancedNewsItem is a NewsItem optionally augmented with raw tweet data.
type EnhancedNewsItem struct {
	NewsItem
	RawContent      *string          `json:"raw_content,omitempty"`
	EnhancedMetrics *EnhancedMetrics `json:"enhanced_metrics,omitempty"`
	Tweet           *Tweet           `json:"tweet,omitempty"`
	TweetAuthor     *TwitterUser     `json:"tweet_author,omitempty"`
	DataSource      DataSource       `json:"data_source,omitempty"`
}

// EnhancedTopMention is a TopMention optionally augmented with raw tweet data.
type EnhancedTopMention struct {
	TopMention
	RawContent      *string          `json:"raw_content,omitempty"`
	EnhancedMetrics *EnhancedMetrics `json:"enhanced_metrics,omitempty"`
	Tweet           *Tweet           `json:"tweet,omitempty"`
	TweetAuthor     *TwitterUser     `json:"tweet_author,omitempty"`
	DataSource      DataSource       `json:"data_source,omitempty"`
}

// EnhancementInfo summarizes one enhancement pass. FailedEnhancements is
// defined as total records minus enhanced records: it counts lookup misses,
// records with no extractable tweet id and whole-batch failures alike.
type EnhancementInfo struct {
	TotalEnhanced      int      `json:"total_enhanced"`
	FailedEnhancements int      `json:"failed_enhancements"`
	TwitterDataUsed    bool     `json:"twitter_data_used"`
	Errors             []string `json:"errors,omitempty"`
}

// EnhancementOptions are per-call enhancement overrides. Nil fields inherit
// the client's defaults.
type EnhancementOptions struct {
	IncludeContent   *bool `json:"include_content,omitempty"`
	IncludeMetrics   *bool `json:"include_metrics,omitempty"`
	FallbackToSource *bool `json:"fallback_to_source,omitempty"`
	BatchSize        *int  `json:"batch_size,omitempty"`
	TimeoutMs        *int  `json:"timeout_ms,omitempty"`
}

// ConnectionStatus reports the outcome of probing each API independently.
// Twitter is always false when no Twitter credentials are configured.
type ConnectionStatus struct {
	API               bool `json:"api"`
	Twitter           bool `json:"twitter"`
	TwitterConfigured bool `json:"twitter_configured"`
}
