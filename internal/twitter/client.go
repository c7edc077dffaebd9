// Package twitter is the client for the Twitter API v2 lookup endpoints.
// It always requests the fixed field selection the enhancement engine needs;
// callers do not negotiate fields per call.
package twitter

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"go.uber.org/zap"

	"mindshare-sdk/apierror"
	"mindshare-sdk/internal/transport"
	"mindshare-sdk/types"
)

// MaxLookupIDs is the hard per-request id cap of the batched tweet lookup
// endpoint. Enforced here because it is this API's contract.
const MaxLookupIDs = 100

const (
	defaultBaseURL = "https://api.twitter.com/2"

	tweetFields = "author_id,created_at,public_metrics,text"
	userFields  = "name,public_metrics,username,verified,verified_type"
	expansions  = "author_id"
)

// OAuth1Config holds user-context OAuth 1.0a credentials. When set, requests
// are signed instead of carrying a bearer token.
type OAuth1Config struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// Config configures a Client. One of BearerToken and OAuth1 must be set.
type Config struct {
	BaseURL     string
	BearerToken string
	OAuth1      *OAuth1Config
	MaxAttempts int
	BaseDelay   time.Duration
	Timeout     time.Duration
	Logger      *zap.Logger
}

// Client performs tweet and user lookups.
type Client struct {
	tp *transport.Client
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	bearer := cfg.BearerToken
	var hc *http.Client
	if cfg.OAuth1 != nil {
		oc := oauth1.NewConfig(cfg.OAuth1.ConsumerKey, cfg.OAuth1.ConsumerSecret)
		tok := oauth1.NewToken(cfg.OAuth1.AccessToken, cfg.OAuth1.AccessSecret)
		hc = oc.Client(context.Background(), tok)
		// The signing client carries the credentials; a bearer header on top
		// would cross-apply auth schemes.
		bearer = ""
	}

	return &Client{tp: transport.New(transport.Config{
		BaseURL:     base,
		API:         "twitter",
		BearerToken: bearer,
		HTTPClient:  hc,
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		Timeout:     cfg.Timeout,
		Logger:      cfg.Logger,
	})}
}

type itemError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type lookupResponse struct {
	Data     []types.Tweet `json:"data"`
	Includes struct {
		Users []types.TwitterUser `json:"users"`
	} `json:"includes"`
	Errors []itemError `json:"errors"`
}

// GetTweets fetches up to MaxLookupIDs tweets in one call, with their
// authors resolved from the includes section. An empty id list returns an
// empty lookup without touching the network. A response that carries an
// errors list, even on HTTP 200, is surfaced as a TwitterAPIError.
func (c *Client) GetTweets(ctx context.Context, ids []string) (*types.TweetLookup, error) {
	if len(ids) == 0 {
		return &types.TweetLookup{}, nil
	}
	if len(ids) > MaxLookupIDs {
		return nil, apierror.NewValidationError("ids", "at most 100 tweet ids per lookup")
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("tweet.fields", tweetFields)
	q.Set("expansions", expansions)
	q.Set("user.fields", userFields)

	var out lookupResponse
	if err := c.tp.Get(ctx, "/tweets", q, &out); err != nil {
		return nil, err
	}
	if len(out.Errors) > 0 {
		return nil, &apierror.TwitterAPIError{Message: joinTitles(out.Errors)}
	}
	return &types.TweetLookup{Tweets: out.Data, Users: out.Includes.Users}, nil
}

type singleTweetResponse struct {
	Data     *types.Tweet `json:"data"`
	Includes struct {
		Users []types.TwitterUser `json:"users"`
	} `json:"includes"`
	Errors []itemError `json:"errors"`
}

// GetTweet fetches one tweet by id.
func (c *Client) GetTweet(ctx context.Context, id string) (*types.Tweet, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apierror.NewValidationError("id", "tweet id is required")
	}

	q := url.Values{}
	q.Set("tweet.fields", tweetFields)
	q.Set("expansions", expansions)
	q.Set("user.fields", userFields)

	var out singleTweetResponse
	if err := c.tp.Get(ctx, "/tweets/"+url.PathEscape(id), q, &out); err != nil {
		return nil, err
	}
	if len(out.Errors) > 0 {
		return nil, &apierror.TwitterAPIError{Message: joinTitles(out.Errors)}
	}
	return out.Data, nil
}

type singleUserResponse struct {
	Data   *types.TwitterUser `json:"data"`
	Errors []itemError        `json:"errors"`
}

// GetUser fetches one user by username.
func (c *Client) GetUser(ctx context.Context, username string) (*types.TwitterUser, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apierror.NewValidationError("username", "username is required")
	}

	q := url.Values{}
	q.Set("user.fields", userFields)

	var out singleUserResponse
	if err := c.tp.Get(ctx, "/users/by/username/"+url.PathEscape(username), q, &out); err != nil {
		return nil, err
	}
	if len(out.Errors) > 0 {
		return nil, &apierror.TwitterAPIError{Message: joinTitles(out.Errors)}
	}
	return out.Data, nil
}

// Ping issues a minimal authenticated request to verify connectivity.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("ids", "20")
	var out lookupResponse
	return c.tp.Get(ctx, "/tweets", q, &out)
}

func joinTitles(errs []itemError) string {
	titles := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Title != "" {
			titles = append(titles, e.Title)
		} else {
			titles = append(titles, e.Detail)
		}
	}
	return strings.Join(titles, "; ")
}
