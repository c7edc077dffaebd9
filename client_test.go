package mindshare

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindshare-sdk/apierror"
	"mindshare-sdk/types"
)

const mentionsBody = `{"success":true,"data":[
	{"id":"m1","content":"snippet one","original_url":"https://x.com/u/status/123","like_count":5},
	{"id":"m2","content":"snippet two","original_url":"https://example.com/blog/post"}
]}`

const tweetLookupBody = `{
	"data":[{"id":"123","text":"the full tweet","author_id":"u1",
		"public_metrics":{"like_count":10,"retweet_count":5,"reply_count":3,"quote_count":2,"impression_count":200}}],
	"includes":{"users":[{"id":"u1","username":"alice","verified":true,"public_metrics":{"followers_count":9000}}]}
}`

func newPrimary(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL
}

func newTwitter(t *testing.T, handler http.HandlerFunc) (string, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv.URL, &calls
}

func serveJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantField string
	}{
		{"missing api key", Options{}, "apiKey"},
		{"batch size above cap", Options{APIKey: "k", MaxBatchSize: 101}, "maxBatchSize"},
		{"negative batch size", Options{APIKey: "k", MaxBatchSize: -1}, "maxBatchSize"},
		{"enhancement timeout below floor", Options{APIKey: "k", EnhancementTimeout: 500 * time.Millisecond}, "enhancementTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			var ve *apierror.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	c, err := New(Options{APIKey: "k"})
	require.NoError(t, err)

	opts := c.Options()
	assert.Equal(t, DefaultBaseURL, opts.BaseURL)
	assert.Equal(t, 100, opts.MaxBatchSize)
	assert.Equal(t, 10*time.Second, opts.EnhancementTimeout)
}

func TestKeywordMentionsEnhanced(t *testing.T) {
	primary := newPrimary(t, serveJSON(mentionsBody))
	twitterURL, twitterCalls := newTwitter(t, serveJSON(tweetLookupBody))

	c, err := New(Options{
		APIKey:             "k",
		TwitterBearerToken: "tok",
		BaseURL:            primary,
		TwitterBaseURL:     twitterURL,
	})
	require.NoError(t, err)

	on := true
	res, err := c.GetKeywordMentions(context.Background(), types.KeywordMentionsParams{
		Keywords:        []string{"bitcoin"},
		TimeRange:       types.TimeRange{TimeWindow: "24h"},
		FetchRawContent: &on,
	})
	require.NoError(t, err)

	require.NotNil(t, res.EnhancementInfo)
	assert.Equal(t, 1, res.EnhancementInfo.TotalEnhanced)
	assert.Equal(t, 1, res.EnhancementInfo.FailedEnhancements)
	assert.True(t, res.EnhancementInfo.TwitterDataUsed)
	assert.Equal(t, int32(1), atomic.LoadInt32(twitterCalls))

	require.Len(t, res.Data, 2)
	first := res.Data[0]
	assert.Equal(t, types.DataSourceEnhanced, first.DataSource)
	require.NotNil(t, first.RawContent)
	assert.Equal(t, "the full tweet", *first.RawContent)
	require.NotNil(t, first.EnhancedMetrics)
	require.NotNil(t, first.EnhancedMetrics.EngagementRate)
	assert.InDelta(t, 0.1, *first.EnhancedMetrics.EngagementRate, 1e-9)
	// The source record is preserved inside the enhanced one.
	require.NotNil(t, first.LikeCount)
	assert.Equal(t, 5, *first.LikeCount)

	second := res.Data[1]
	assert.Equal(t, types.DataSourceOnly, second.DataSource)
	assert.Nil(t, second.RawContent)
}

func TestNoEnhancementWithoutTwitterCredentials(t *testing.T) {
	primary := newPrimary(t, serveJSON(mentionsBody))

	c, err := New(Options{APIKey: "k", BaseURL: primary})
	require.NoError(t, err)

	on := true
	res, err := c.GetKeywordMentions(context.Background(), types.KeywordMentionsParams{
		Keywords:        []string{"bitcoin"},
		TimeRange:       types.TimeRange{TimeWindow: "24h"},
		FetchRawContent: &on,
	})
	require.NoError(t, err)

	assert.Nil(t, res.EnhancementInfo, "enhancement_info must be absent, not zeroed")
	require.Len(t, res.Data, 2)
	for _, m := range res.Data {
		assert.Empty(t, m.DataSource)
		assert.Nil(t, m.RawContent)
	}
}

func TestPerCallOverridesInstanceDefault(t *testing.T) {
	primary := newPrimary(t, serveJSON(mentionsBody))
	twitterURL, twitterCalls := newTwitter(t, serveJSON(tweetLookupBody))

	c, err := New(Options{
		APIKey:             "k",
		TwitterBearerToken: "tok",
		BaseURL:            primary,
		TwitterBaseURL:     twitterURL,
		FetchRawContent:    true,
	})
	require.NoError(t, err)

	off := false
	res, err := c.GetKeywordMentions(context.Background(), types.KeywordMentionsParams{
		Keywords:        []string{"bitcoin"},
		TimeRange:       types.TimeRange{TimeWindow: "24h"},
		FetchRawContent: &off,
	})
	require.NoError(t, err)

	assert.Nil(t, res.EnhancementInfo)
	assert.Equal(t, int32(0), atomic.LoadInt32(twitterCalls))
}

func TestEnhancementFallbackKeepsPrimaryData(t *testing.T) {
	primary := newPrimary(t, serveJSON(mentionsBody))
	twitterURL, _ := newTwitter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"twitter down"}`))
	})

	c, err := New(Options{
		APIKey:             "k",
		TwitterBearerToken: "tok",
		BaseURL:            primary,
		TwitterBaseURL:     twitterURL,
		MaxAttempts:        1,
	})
	require.NoError(t, err)

	on := true
	res, err := c.GetKeywordMentions(context.Background(), types.KeywordMentionsParams{
		Keywords:        []string{"bitcoin"},
		TimeRange:       types.TimeRange{TimeWindow: "24h"},
		FetchRawContent: &on,
	})
	require.NoError(t, err, "a failed enhancement must not fail the call")

	require.NotNil(t, res.EnhancementInfo)
	assert.Equal(t, 0, res.EnhancementInfo.TotalEnhanced)
	assert.Equal(t, 2, res.EnhancementInfo.FailedEnhancements)
	assert.False(t, res.EnhancementInfo.TwitterDataUsed)
	require.NotEmpty(t, res.EnhancementInfo.Errors)
	require.Len(t, res.Data, 2)
	for _, m := range res.Data {
		assert.Equal(t, types.DataSourceOnly, m.DataSource)
	}
}

func TestStrictModeMakesEnhancementFailureFatal(t *testing.T) {
	primary := newPrimary(t, serveJSON(mentionsBody))
	twitterURL, _ := newTwitter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c, err := New(Options{
		APIKey:             "k",
		TwitterBearerToken: "tok",
		BaseURL:            primary,
		TwitterBaseURL:     twitterURL,
		MaxAttempts:        1,
		StrictMode:         true,
	})
	require.NoError(t, err)

	on := true
	_, err = c.GetKeywordMentions(context.Background(), types.KeywordMentionsParams{
		Keywords:        []string{"bitcoin"},
		TimeRange:       types.TimeRange{TimeWindow: "24h"},
		FetchRawContent: &on,
	})

	var ee *apierror.EnhancementError
	require.ErrorAs(t, err, &ee)
}

func TestPrimaryFailureAlwaysFailsTheCall(t *testing.T) {
	primary := newPrimary(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	})

	c, err := New(Options{APIKey: "k", BaseURL: primary})
	require.NoError(t, err)

	_, err = c.GetKeywordMentions(context.Background(), types.KeywordMentionsParams{
		Keywords:  []string{"bitcoin"},
		TimeRange: types.TimeRange{TimeWindow: "24h"},
	})

	var ae *apierror.AuthenticationError
	require.ErrorAs(t, err, &ae)
}

func TestTopMentionsEnhancedByDirectID(t *testing.T) {
	primary := newPrimary(t, serveJSON(`{"success":true,"data":[
		{"tweet_id":"123","content":"top snippet"},
		{"tweet_id":"","content":"no id"}
	]}`))
	twitterURL, _ := newTwitter(t, serveJSON(tweetLookupBody))

	c, err := New(Options{
		APIKey:             "k",
		TwitterBearerToken: "tok",
		BaseURL:            primary,
		TwitterBaseURL:     twitterURL,
	})
	require.NoError(t, err)

	on := true
	res, err := c.GetTopMentions(context.Background(), types.TopMentionsParams{
		Ticker:          "BTC",
		TimeRange:       types.TimeRange{TimeWindow: "24h"},
		FetchRawContent: &on,
	})
	require.NoError(t, err)

	require.NotNil(t, res.EnhancementInfo)
	assert.Equal(t, 1, res.EnhancementInfo.TotalEnhanced)
	assert.Equal(t, types.DataSourceEnhanced, res.Data[0].DataSource)
	assert.Equal(t, types.DataSourceOnly, res.Data[1].DataSource)
}

func TestTestConnectionReportsLegsIndependently(t *testing.T) {
	primary := newPrimary(t, serveJSON(`{"success":true,"data":{"message":"pong"}}`))
	twitterURL, _ := newTwitter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c, err := New(Options{
		APIKey:             "k",
		TwitterBearerToken: "tok",
		BaseURL:            primary,
		TwitterBaseURL:     twitterURL,
		MaxAttempts:        1,
	})
	require.NoError(t, err)

	status := c.TestConnection(context.Background())
	assert.True(t, status.API)
	assert.False(t, status.Twitter)
	assert.True(t, status.TwitterConfigured)
}

func TestTestConnectionWithoutTwitter(t *testing.T) {
	primary := newPrimary(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	c, err := New(Options{APIKey: "k", BaseURL: primary, MaxAttempts: 1})
	require.NoError(t, err)

	status := c.TestConnection(context.Background())
	assert.False(t, status.API)
	assert.False(t, status.Twitter)
	assert.False(t, status.TwitterConfigured)
}

func TestUpdateOptionsRejectsCredentialChanges(t *testing.T) {
	c, err := New(Options{APIKey: "k"})
	require.NoError(t, err)

	key := "new-key"
	err = c.UpdateOptions(OptionsUpdate{APIKey: &key})
	var ve *apierror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "apiKey", ve.Field)

	tok := "new-token"
	err = c.UpdateOptions(OptionsUpdate{TwitterBearerToken: &tok})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "twitterBearerToken", ve.Field)

	assert.Equal(t, "k", c.Options().APIKey)
}

func TestUpdateOptionsMergesAndRevalidates(t *testing.T) {
	c, err := New(Options{APIKey: "k"})
	require.NoError(t, err)

	strict := true
	batch := 25
	require.NoError(t, c.UpdateOptions(OptionsUpdate{StrictMode: &strict, MaxBatchSize: &batch}))
	opts := c.Options()
	assert.True(t, opts.StrictMode)
	assert.Equal(t, 25, opts.MaxBatchSize)

	bad := 500
	err = c.UpdateOptions(OptionsUpdate{MaxBatchSize: &bad})
	var ve *apierror.ValidationError
	require.ErrorAs(t, err, &ve)
	// A rejected update leaves the previous options in place.
	assert.Equal(t, 25, c.Options().MaxBatchSize)
}
