package mindshare

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"mindshare-sdk/apierror"
	"mindshare-sdk/internal/analytics"
	"mindshare-sdk/internal/enhance"
	"mindshare-sdk/internal/transport"
	"mindshare-sdk/internal/twitter"
	"mindshare-sdk/types"
)

// Client is the entry point of the SDK. It composes the Mindshare API
// client, the optional Twitter client and the enhancement engine behind one
// call surface. A Client is safe for concurrent use; per-call state never
// outlives the call.
type Client struct {
	mu        sync.RWMutex
	opts      Options
	analytics *analytics.Client
	twitter   *twitter.Client
	engine    *enhance.Engine
}

// New validates opts and builds a Client. Twitter enhancement is enabled
// when Twitter credentials are supplied.
func New(opts Options) (*Client, error) {
	normalized, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	c := &Client{opts: normalized}
	c.rebuild()
	return c, nil
}

// rebuild constructs the internal clients from c.opts. Callers hold the
// write lock or exclusive ownership.
func (c *Client) rebuild() {
	log := c.opts.Logger
	if log == nil {
		log = zap.NewNop()
		if c.opts.Debug {
			if dev, err := zap.NewDevelopment(); err == nil {
				log = dev
			}
		}
	}

	c.analytics = analytics.New(transport.New(transport.Config{
		BaseURL:     c.opts.BaseURL,
		API:         "mindshare",
		APIKey:      c.opts.APIKey,
		MaxAttempts: c.opts.MaxAttempts,
		BaseDelay:   c.opts.RetryBaseDelay,
		Timeout:     c.opts.RequestTimeout,
		Logger:      log,
	}))

	c.twitter = nil
	if c.opts.twitterConfigured() {
		var oa *twitter.OAuth1Config
		if o := c.opts.TwitterOAuth1; o != nil {
			oa = &twitter.OAuth1Config{
				ConsumerKey:    o.ConsumerKey,
				ConsumerSecret: o.ConsumerSecret,
				AccessToken:    o.AccessToken,
				AccessSecret:   o.AccessSecret,
			}
		}
		c.twitter = twitter.New(twitter.Config{
			BaseURL:     c.opts.TwitterBaseURL,
			BearerToken: c.opts.TwitterBearerToken,
			OAuth1:      oa,
			MaxAttempts: c.opts.MaxAttempts,
			BaseDelay:   c.opts.RetryBaseDelay,
			Timeout:     c.opts.RequestTimeout,
			Logger:      log,
		})
	}

	c.engine = &enhance.Engine{
		DefaultBatchSize: c.opts.MaxBatchSize,
		DefaultTimeout:   c.opts.EnhancementTimeout,
		Logger:           log,
	}
	if c.twitter != nil {
		c.engine.Fetcher = c.twitter
	}
}

// Options returns a copy of the effective configuration.
func (c *Client) Options() Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts
}

// UpdateOptions merges u onto the current options. Changing either
// credential field is rejected; credentials are construction-time-only.
func (c *Client) UpdateOptions(u OptionsUpdate) error {
	if u.APIKey != nil {
		return apierror.NewValidationError("apiKey", "api key cannot be changed after construction")
	}
	if u.TwitterBearerToken != nil {
		return apierror.NewValidationError("twitterBearerToken", "twitter token cannot be changed after construction")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	merged, err := u.apply(c.opts).normalize()
	if err != nil {
		return err
	}
	c.opts = merged
	c.rebuild()
	return nil
}

// snapshot returns the handles one call operates on.
func (c *Client) snapshot() (Options, *analytics.Client, *twitter.Client, *enhance.Engine) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts, c.analytics, c.twitter, c.engine
}

// Ping probes the Mindshare API health endpoint.
func (c *Client) Ping(ctx context.Context) (*types.ObjectResponse[types.Pong], error) {
	_, api, _, _ := c.snapshot()
	return api.Ping(ctx)
}

// GetKeyStatus returns usage and limits for the configured API key.
func (c *Client) GetKeyStatus(ctx context.Context) (*types.ObjectResponse[types.KeyStatus], error) {
	_, api, _, _ := c.snapshot()
	return api.KeyStatus(ctx)
}

// GetTrendingTokens lists tokens ranked by mention volume. Trending
// aggregates carry no tweet reference, so no enhancement applies.
func (c *Client) GetTrendingTokens(ctx context.Context, p types.TrendingTokensParams) (*types.PagedResponse[types.TrendingToken], error) {
	_, api, _, _ := c.snapshot()
	return api.TrendingTokens(ctx, p)
}

// GetAccountSmartStats returns engagement stats for one account.
func (c *Client) GetAccountSmartStats(ctx context.Context, p types.SmartStatsParams) (*types.ObjectResponse[types.AccountSmartStats], error) {
	_, api, _, _ := c.snapshot()
	return api.AccountSmartStats(ctx, p)
}

// GetKeywordMentions lists mentions matching the given keywords, optionally
// enhanced with raw tweet content. EnhancementInfo is set on the response
// only when enhancement actually ran.
func (c *Client) GetKeywordMentions(ctx context.Context, p types.KeywordMentionsParams) (*types.PagedResponse[types.EnhancedMention], error) {
	opts, api, tw, engine := c.snapshot()

	raw, err := api.KeywordMentions(ctx, p)
	if err != nil {
		return nil, err
	}
	out := &types.PagedResponse[types.EnhancedMention]{Success: raw.Success, Metadata: raw.Metadata}

	if !shouldEnhance(opts, tw, p.FetchRawContent) {
		out.Data = passthrough(raw.Data, func(m types.Mention) types.EnhancedMention {
			return types.EnhancedMention{Mention: m}
		})
		return out, nil
	}

	data, info, err := enhance.Run(ctx, engine, raw.Data, resolveEnhancement(opts, p.Enhancement), enhance.MentionKey, enhance.AttachMention)
	if err != nil {
		return nil, err
	}
	out.Data = data
	out.EnhancementInfo = &info
	return out, nil
}

// GetTokenNews lists news-style posts for the given coins, optionally
// enhanced with raw tweet content.
func (c *Client) GetTokenNews(ctx context.Context, p types.TokenNewsParams) (*types.PagedResponse[types.EnhancedNewsItem], error) {
	opts, api, tw, engine := c.snapshot()

	raw, err := api.TokenNews(ctx, p)
	if err != nil {
		return nil, err
	}
	out := &types.PagedResponse[types.EnhancedNewsItem]{Success: raw.Success, Metadata: raw.Metadata}

	if !shouldEnhance(opts, tw, p.FetchRawContent) {
		out.Data = passthrough(raw.Data, func(n types.NewsItem) types.EnhancedNewsItem {
			return types.EnhancedNewsItem{NewsItem: n}
		})
		return out, nil
	}

	data, info, err := enhance.Run(ctx, engine, raw.Data, resolveEnhancement(opts, p.Enhancement), enhance.NewsItemKey, enhance.AttachNewsItem)
	if err != nil {
		return nil, err
	}
	out.Data = data
	out.EnhancementInfo = &info
	return out, nil
}

// GetTopMentions lists the highest-engagement mentions for a ticker,
// optionally enhanced with raw tweet content.
func (c *Client) GetTopMentions(ctx context.Context, p types.TopMentionsParams) (*types.PagedResponse[types.EnhancedTopMention], error) {
	opts, api, tw, engine := c.snapshot()

	raw, err := api.TopMentions(ctx, p)
	if err != nil {
		return nil, err
	}
	out := &types.PagedResponse[types.EnhancedTopMention]{Success: raw.Success, Metadata: raw.Metadata}

	if !shouldEnhance(opts, tw, p.FetchRawContent) {
		out.Data = passthrough(raw.Data, func(t types.TopMention) types.EnhancedTopMention {
			return types.EnhancedTopMention{TopMention: t}
		})
		return out, nil
	}

	data, info, err := enhance.Run(ctx, engine, raw.Data, resolveEnhancement(opts, p.Enhancement), enhance.TopMentionKey, enhance.AttachTopMention)
	if err != nil {
		return nil, err
	}
	out.Data = data
	out.EnhancementInfo = &info
	return out, nil
}

// TestConnection probes each configured API independently. A failing leg is
// reported as false; it never raises and never blocks the other probe.
func (c *Client) TestConnection(ctx context.Context) types.ConnectionStatus {
	_, api, tw, _ := c.snapshot()

	status := types.ConnectionStatus{TwitterConfigured: tw != nil}
	if _, err := api.Ping(ctx); err == nil {
		status.API = true
	}
	if tw != nil {
		if err := tw.Ping(ctx); err == nil {
			status.Twitter = true
		}
	}
	return status
}

// shouldEnhance resolves the per-call toggle against the instance default
// and requires a configured Twitter client.
func shouldEnhance(opts Options, tw *twitter.Client, perCall *bool) bool {
	want := opts.FetchRawContent
	if perCall != nil {
		want = *perCall
	}
	return want && tw != nil
}

// resolveEnhancement merges hardcoded engine defaults, instance options and
// per-call overrides into one resolved option set. This is the single place
// the three layers combine.
func resolveEnhancement(opts Options, perCall *types.EnhancementOptions) enhance.Options {
	resolved := enhance.Options{
		IncludeContent:   true,
		IncludeMetrics:   true,
		FallbackToSource: !opts.StrictMode,
		BatchSize:        opts.MaxBatchSize,
		Timeout:          opts.EnhancementTimeout,
	}
	if perCall == nil {
		return resolved
	}
	if perCall.IncludeContent != nil {
		resolved.IncludeContent = *perCall.IncludeContent
	}
	if perCall.IncludeMetrics != nil {
		resolved.IncludeMetrics = *perCall.IncludeMetrics
	}
	if perCall.FallbackToSource != nil {
		resolved.FallbackToSource = *perCall.FallbackToSource
	}
	if perCall.BatchSize != nil {
		resolved.BatchSize = *perCall.BatchSize
	}
	if perCall.TimeoutMs != nil {
		resolved.Timeout = time.Duration(*perCall.TimeoutMs) * time.Millisecond
	}
	return resolved
}

func passthrough[S, E any](in []S, wrap func(S) E) []E {
	out := make([]E, 0, len(in))
	for _, v := range in {
		out = append(out, wrap(v))
	}
	return out
}
