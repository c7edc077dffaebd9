package mindshare

import (
	"time"

	"go.uber.org/zap"

	"mindshare-sdk/apierror"
	"mindshare-sdk/internal/twitter"
)

const (
	// DefaultBaseURL is the production Mindshare API endpoint.
	DefaultBaseURL = "https://api.mindshare.ai"

	defaultMaxBatchSize       = 100
	defaultEnhancementTimeout = 10 * time.Second
	minEnhancementTimeout     = time.Second
)

// TwitterOAuth1 holds OAuth 1.0a user-context credentials, an alternative
// to a bearer token for the Twitter API.
type TwitterOAuth1 struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// Options configures a Client. APIKey is required; Twitter credentials are
// optional and their presence is what enables tweet enhancement. Credential
// fields are fixed at construction time.
type Options struct {
	// APIKey authenticates against the Mindshare API.
	APIKey string
	// TwitterBearerToken authenticates against the Twitter API.
	TwitterBearerToken string
	// TwitterOAuth1 replaces the bearer token with signed user-context auth.
	TwitterOAuth1 *TwitterOAuth1

	// BaseURL overrides the Mindshare API endpoint.
	BaseURL string
	// TwitterBaseURL overrides the Twitter API endpoint.
	TwitterBaseURL string

	// FetchRawContent is the per-call default for tweet enhancement.
	FetchRawContent bool
	// EnhancementTimeout bounds the tweet-fetch phase of one enhanced call
	// (default 10s, minimum 1s).
	EnhancementTimeout time.Duration
	// MaxBatchSize is the default tweet-lookup chunk size, 1..100
	// (default 100).
	MaxBatchSize int
	// StrictMode makes enhancement failures fatal instead of degrading to
	// source-only results.
	StrictMode bool
	// Debug enables structured logging of every request and response.
	Debug bool

	// MaxAttempts is the total tries per HTTP request (default 3).
	MaxAttempts int
	// RetryBaseDelay seeds the exponential retry backoff (default 500ms).
	RetryBaseDelay time.Duration
	// RequestTimeout is the per-request HTTP timeout (default 30s).
	RequestTimeout time.Duration

	// Logger overrides the logger built from Debug. Mostly useful in tests.
	Logger *zap.Logger
}

// normalize validates o and returns a copy with defaults filled in.
func (o Options) normalize() (Options, error) {
	if o.APIKey == "" {
		return o, apierror.NewValidationError("apiKey", "api key is required")
	}
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.MaxBatchSize == 0 {
		o.MaxBatchSize = defaultMaxBatchSize
	}
	if o.MaxBatchSize < 1 || o.MaxBatchSize > twitter.MaxLookupIDs {
		return o, apierror.NewValidationError("maxBatchSize", "must be between 1 and 100")
	}
	if o.EnhancementTimeout == 0 {
		o.EnhancementTimeout = defaultEnhancementTimeout
	}
	if o.EnhancementTimeout < minEnhancementTimeout {
		return o, apierror.NewValidationError("enhancementTimeout", "must be at least 1s")
	}
	return o, nil
}

// twitterConfigured reports whether any Twitter credentials are present.
func (o Options) twitterConfigured() bool {
	return o.TwitterBearerToken != "" || o.TwitterOAuth1 != nil
}

// OptionsUpdate is a shallow patch for UpdateOptions. Nil fields keep their
// current value. Credential fields are present only so that attempts to
// change them can be rejected explicitly.
type OptionsUpdate struct {
	APIKey             *string
	TwitterBearerToken *string

	BaseURL            *string
	TwitterBaseURL     *string
	FetchRawContent    *bool
	EnhancementTimeout *time.Duration
	MaxBatchSize       *int
	StrictMode         *bool
	Debug              *bool
}

// apply merges u onto o. Credential changes were rejected by the caller.
func (u OptionsUpdate) apply(o Options) Options {
	if u.BaseURL != nil {
		o.BaseURL = *u.BaseURL
	}
	if u.TwitterBaseURL != nil {
		o.TwitterBaseURL = *u.TwitterBaseURL
	}
	if u.FetchRawContent != nil {
		o.FetchRawContent = *u.FetchRawContent
	}
	if u.EnhancementTimeout != nil {
		o.EnhancementTimeout = *u.EnhancementTimeout
	}
	if u.MaxBatchSize != nil {
		o.MaxBatchSize = *u.MaxBatchSize
	}
	if u.StrictMode != nil {
		o.StrictMode = *u.StrictMode
	}
	if u.Debug != nil {
		o.Debug = *u.Debug
	}
	return o
}
