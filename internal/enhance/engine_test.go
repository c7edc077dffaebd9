package enhance

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindshare-sdk/apierror"
	"mindshare-sdk/types"
)

// fakeFetcher serves tweets from a fixed map and records every batch it is
// asked for.
type fakeFetcher struct {
	calls  [][]string
	tweets map[string]types.Tweet
	users  map[string]types.TwitterUser
	err    error
}

func (f *fakeFetcher) GetTweets(_ context.Context, ids []string) (*types.TweetLookup, error) {
	batch := make([]string, len(ids))
	copy(batch, ids)
	f.calls = append(f.calls, batch)
	if f.err != nil {
		return nil, f.err
	}
	out := &types.TweetLookup{}
	seen := map[string]struct{}{}
	for _, id := range ids {
		tw, ok := f.tweets[id]
		if !ok {
			continue
		}
		out.Tweets = append(out.Tweets, tw)
		if u, ok := f.users[tw.AuthorID]; ok {
			if _, dup := seen[u.ID]; !dup {
				seen[u.ID] = struct{}{}
				out.Users = append(out.Users, u)
			}
		}
	}
	return out, nil
}

func defaultOpts() Options {
	return Options{
		IncludeContent:   true,
		IncludeMetrics:   true,
		FallbackToSource: true,
		BatchSize:        100,
	}
}

func mention(id, link string) types.Mention {
	return types.Mention{ID: id, Content: "snippet", OriginalURL: link}
}

func TestRunShortCircuitsWithoutFetcher(t *testing.T) {
	records := []types.Mention{
		mention("m1", "https://x.com/u/status/123"),
		mention("m2", "https://x.com/u/status/456"),
	}
	eng := &Engine{DefaultBatchSize: 100}

	out, info, err := Run(context.Background(), eng, records, defaultOpts(), MentionKey, AttachMention)
	require.NoError(t, err)

	require.Len(t, out, len(records))
	for i, e := range out {
		assert.Equal(t, types.DataSourceOnly, e.DataSource)
		assert.Nil(t, e.RawContent)
		assert.Nil(t, e.EnhancedMetrics)
		assert.Equal(t, records[i], e.Mention)
	}
	assert.Equal(t, types.EnhancementInfo{}, info)
}

func TestRunShortCircuitsWhenContentDisabled(t *testing.T) {
	f := &fakeFetcher{}
	eng := &Engine{Fetcher: f, DefaultBatchSize: 100}
	opts := defaultOpts()
	opts.IncludeContent = false

	records := []types.Mention{mention("m1", "https://x.com/u/status/123")}
	out, info, err := Run(context.Background(), eng, records, opts, MentionKey, AttachMention)
	require.NoError(t, err)

	assert.Empty(t, f.calls)
	assert.Equal(t, types.DataSourceOnly, out[0].DataSource)
	assert.False(t, info.TwitterDataUsed)
	assert.Zero(t, info.TotalEnhanced)
	assert.Zero(t, info.FailedEnhancements)
}

func TestRunShortCircuitsWithoutExtractableKeys(t *testing.T) {
	f := &fakeFetcher{}
	eng := &Engine{Fetcher: f, DefaultBatchSize: 100}

	records := []types.Mention{
		mention("m1", "https://example.com/article/9"),
		mention("m2", ""),
	}
	out, info, err := Run(context.Background(), eng, records, defaultOpts(), MentionKey, AttachMention)
	require.NoError(t, err)

	assert.Empty(t, f.calls, "records without keys never enter the fetch set")
	for _, e := range out {
		assert.Equal(t, types.DataSourceOnly, e.DataSource)
	}
	assert.Equal(t, types.EnhancementInfo{}, info)
}

func TestRunMergesMatchedTweets(t *testing.T) {
	f := &fakeFetcher{
		tweets: map[string]types.Tweet{
			"123": {
				ID: "123", Text: "full tweet text", AuthorID: "u1",
				PublicMetrics: &types.TweetMetrics{LikeCount: 6, RetweetCount: 2, ReplyCount: 1, QuoteCount: 1, ImpressionCount: 100},
			},
		},
		users: map[string]types.TwitterUser{
			"u1": {ID: "u1", Username: "alice", Verified: true, PublicMetrics: &types.UserMetrics{FollowersCount: 5000}},
		},
	}
	eng := &Engine{Fetcher: f, DefaultBatchSize: 100}

	records := []types.Mention{
		mention("m1", "https://x.com/u/status/123"),
		mention("m2", "https://example.com/not-a-tweet"),
	}
	out, info, err := Run(context.Background(), eng, records, defaultOpts(), MentionKey, AttachMention)
	require.NoError(t, err)
	require.Len(t, out, 2)

	first := out[0]
	assert.Equal(t, types.DataSourceEnhanced, first.DataSource)
	require.NotNil(t, first.RawContent)
	assert.Equal(t, "full tweet text", *first.RawContent)
	require.NotNil(t, first.Tweet)
	require.NotNil(t, first.TweetAuthor)
	assert.Equal(t, "alice", first.TweetAuthor.Username)
	require.NotNil(t, first.EnhancedMetrics)
	require.NotNil(t, first.EnhancedMetrics.EngagementRate)
	assert.InDelta(t, 0.1, *first.EnhancedMetrics.EngagementRate, 1e-9)
	require.NotNil(t, first.EnhancedMetrics.Reach)
	assert.Equal(t, 5000, *first.EnhancedMetrics.Reach)
	assert.True(t, first.EnhancedMetrics.Verified)

	second := out[1]
	assert.Equal(t, types.DataSourceOnly, second.DataSource)
	assert.Nil(t, second.RawContent)
	assert.Nil(t, second.Tweet)
	assert.Nil(t, second.EnhancedMetrics)

	assert.Equal(t, 1, info.TotalEnhanced)
	assert.Equal(t, 1, info.FailedEnhancements)
	assert.True(t, info.TwitterDataUsed)
	assert.Empty(t, info.Errors)
}

func TestRunBatchesByConfiguredSize(t *testing.T) {
	f := &fakeFetcher{tweets: map[string]types.Tweet{}}
	records := make([]types.Mention, 0, 250)
	for i := 0; i < 250; i++ {
		id := fmt.Sprintf("%d", 1000+i)
		f.tweets[id] = types.Tweet{ID: id, Text: "t" + id, AuthorID: "u1"}
		records = append(records, mention("m"+id, "https://x.com/u/status/"+id))
	}
	eng := &Engine{Fetcher: f, DefaultBatchSize: 100}

	out, info, err := Run(context.Background(), eng, records, defaultOpts(), MentionKey, AttachMention)
	require.NoError(t, err)

	// ceil(250/100) calls, none larger than the batch size.
	require.Len(t, f.calls, 3)
	assert.Len(t, f.calls[0], 100)
	assert.Len(t, f.calls[1], 100)
	assert.Len(t, f.calls[2], 50)

	// A tweet from any chunk merges against any record.
	assert.Equal(t, 250, info.TotalEnhanced)
	assert.Equal(t, 0, info.FailedEnhancements)
	for _, e := range out {
		assert.Equal(t, types.DataSourceEnhanced, e.DataSource)
	}
}

func TestRunSmallBatchSizeOverride(t *testing.T) {
	f := &fakeFetcher{tweets: map[string]types.Tweet{}}
	records := make([]types.Mention, 0, 5)
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("%d", 10+i)
		records = append(records, mention("m"+id, "https://x.com/u/status/"+id))
	}
	eng := &Engine{Fetcher: f, DefaultBatchSize: 100}
	opts := defaultOpts()
	opts.BatchSize = 2

	_, _, err := Run(context.Background(), eng, records, opts, MentionKey, AttachMention)
	require.NoError(t, err)
	require.Len(t, f.calls, 3)
	for _, call := range f.calls {
		assert.LessOrEqual(t, len(call), 2)
	}
}

func TestRunDeduplicatesSharedKeys(t *testing.T) {
	f := &fakeFetcher{
		tweets: map[string]types.Tweet{"123": {ID: "123", Text: "shared", AuthorID: "u1"}},
	}
	eng := &Engine{Fetcher: f, DefaultBatchSize: 100}

	records := []types.Mention{
		mention("m1", "https://x.com/a/status/123"),
		mention("m2", "https://x.com/b/status/123"),
	}
	out, info, err := Run(context.Background(), eng, records, defaultOpts(), MentionKey, AttachMention)
	require.NoError(t, err)

	require.Len(t, f.calls, 1)
	assert.Equal(t, []string{"123"}, f.calls[0])
	assert.Equal(t, 2, info.TotalEnhanced)
	assert.Equal(t, types.DataSourceEnhanced, out[0].DataSource)
	assert.Equal(t, types.DataSourceEnhanced, out[1].DataSource)
}

func TestRunFallbackOnFetchFailure(t *testing.T) {
	f := &fakeFetcher{err: &apierror.TwitterAPIError{Message: "Usage capped"}}
	eng := &Engine{Fetcher: f, DefaultBatchSize: 100}

	records := []types.Mention{
		mention("m1", "https://x.com/u/status/1"),
		mention("m2", "https://x.com/u/status/2"),
		mention("m3", "https://x.com/u/status/3"),
	}
	out, info, err := Run(context.Background(), eng, records, defaultOpts(), MentionKey, AttachMention)
	require.NoError(t, err, "fallback must swallow the fetch failure")

	require.Len(t, out, len(records))
	for _, e := range out {
		assert.Equal(t, types.DataSourceOnly, e.DataSource)
		assert.Nil(t, e.RawContent)
	}
	assert.Equal(t, 0, info.TotalEnhanced)
	assert.Equal(t, len(records), info.FailedEnhancements)
	assert.False(t, info.TwitterDataUsed)
	require.Len(t, info.Errors, 1)
	assert.Contains(t, info.Errors[0], "Usage capped")
}

func TestRunStrictFailurePropagates(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection reset")}
	eng := &Engine{Fetcher: f, DefaultBatchSize: 100}
	opts := defaultOpts()
	opts.FallbackToSource = false

	records := []types.Mention{mention("m1", "https://x.com/u/status/1")}
	_, _, err := Run(context.Background(), eng, records, opts, MentionKey, AttachMention)

	var ee *apierror.EnhancementError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, ee.Error(), "connection reset")
}

func TestRunIdempotent(t *testing.T) {
	newFetcher := func() *fakeFetcher {
		return &fakeFetcher{
			tweets: map[string]types.Tweet{"9": {ID: "9", Text: "stable", AuthorID: "u1"}},
			users:  map[string]types.TwitterUser{"u1": {ID: "u1", Username: "bob"}},
		}
	}
	records := []types.Mention{
		mention("m1", "https://x.com/u/status/9"),
		mention("m2", "https://example.com/none"),
	}

	eng1 := &Engine{Fetcher: newFetcher(), DefaultBatchSize: 100}
	out1, info1, err1 := Run(context.Background(), eng1, records, defaultOpts(), MentionKey, AttachMention)
	require.NoError(t, err1)

	eng2 := &Engine{Fetcher: newFetcher(), DefaultBatchSize: 100}
	out2, info2, err2 := Run(context.Background(), eng2, records, defaultOpts(), MentionKey, AttachMention)
	require.NoError(t, err2)

	assert.Equal(t, out1, out2)
	assert.Equal(t, info1, info2)
}

func TestRunMetricsDisabled(t *testing.T) {
	f := &fakeFetcher{
		tweets: map[string]types.Tweet{"5": {ID: "5", Text: "x", AuthorID: "u1", PublicMetrics: &types.TweetMetrics{LikeCount: 1, ImpressionCount: 10}}},
	}
	eng := &Engine{Fetcher: f, DefaultBatchSize: 100}
	opts := defaultOpts()
	opts.IncludeMetrics = false

	out, _, err := Run(context.Background(), eng,
		[]types.Mention{mention("m1", "https://x.com/u/status/5")},
		opts, MentionKey, AttachMention)
	require.NoError(t, err)

	assert.Equal(t, types.DataSourceEnhanced, out[0].DataSource)
	require.NotNil(t, out[0].RawContent)
	assert.Nil(t, out[0].EnhancedMetrics)
}

func TestRunTopMentionsUseDirectIDs(t *testing.T) {
	f := &fakeFetcher{
		tweets: map[string]types.Tweet{"777": {ID: "777", Text: "top", AuthorID: "u1"}},
	}
	eng := &Engine{Fetcher: f, DefaultBatchSize: 100}

	records := []types.TopMention{
		{TweetID: "777", Content: "snippet"},
		{TweetID: "", Content: "no id"},
	}
	out, info, err := Run(context.Background(), eng, records, defaultOpts(), TopMentionKey, AttachTopMention)
	require.NoError(t, err)

	require.Len(t, f.calls, 1)
	assert.Equal(t, []string{"777"}, f.calls[0])
	assert.Equal(t, types.DataSourceEnhanced, out[0].DataSource)
	assert.Equal(t, types.DataSourceOnly, out[1].DataSource)
	assert.Equal(t, 1, info.TotalEnhanced)
	assert.Equal(t, 1, info.FailedEnhancements)
}

func TestRunNewsItemsUseSourceURL(t *testing.T) {
	f := &fakeFetcher{
		tweets: map[string]types.Tweet{"31337": {ID: "31337", Text: "news tweet", AuthorID: "u1"}},
	}
	eng := &Engine{Fetcher: f, DefaultBatchSize: 100}

	records := []types.NewsItem{
		{ID: "n1", Title: "launch", SourceURL: "https://twitter.com/project/status/31337"},
	}
	out, info, err := Run(context.Background(), eng, records, defaultOpts(), NewsItemKey, AttachNewsItem)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, types.DataSourceEnhanced, out[0].DataSource)
	require.NotNil(t, out[0].RawContent)
	assert.Equal(t, "news tweet", *out[0].RawContent)
	assert.Equal(t, 1, info.TotalEnhanced)
}
