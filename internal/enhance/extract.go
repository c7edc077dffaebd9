package enhance

import (
	"regexp"
	"strings"

	"mindshare-sdk/types"
)

// statusIDPattern matches the numeric id segment of a tweet permalink,
// e.g. https://x.com/user/status/123456789.
var statusIDPattern = regexp.MustCompile(`/status(?:es)?/(\d+)`)

// TweetIDFromURL extracts a tweet id from a /status/{id}-shaped URL.
func TweetIDFromURL(link string) (string, bool) {
	m := statusIDPattern.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MentionKey derives the correlation key of a keyword mention.
func MentionKey(m types.Mention) (string, bool) {
	return TweetIDFromURL(m.OriginalURL)
}

// NewsItemKey derives the correlation key of a token-news item.
func NewsItemKey(n types.NewsItem) (string, bool) {
	return TweetIDFromURL(n.SourceURL)
}

// TopMentionKey derives the correlation key of a top mention, which already
// carries a platform-native tweet id.
func TopMentionKey(t types.TopMention) (string, bool) {
	id := strings.TrimSpace(t.TweetID)
	return id, id != ""
}

// AttachMention builds the enhanced form of a keyword mention.
func AttachMention(m types.Mention, match *Match) types.EnhancedMention {
	out := types.EnhancedMention{Mention: m, DataSource: types.DataSourceOnly}
	applyMatch(match, &out.RawContent, &out.EnhancedMetrics, &out.Tweet, &out.TweetAuthor, &out.DataSource)
	return out
}

// AttachNewsItem builds the enhanced form of a token-news item.
func AttachNewsItem(n types.NewsItem, match *Match) types.EnhancedNewsItem {
	out := types.EnhancedNewsItem{NewsItem: n, DataSource: types.DataSourceOnly}
	applyMatch(match, &out.RawContent, &out.EnhancedMetrics, &out.Tweet, &out.TweetAuthor, &out.DataSource)
	return out
}

// AttachTopMention builds the enhanced form of a top mention.
func AttachTopMention(t types.TopMention, match *Match) types.EnhancedTopMention {
	out := types.EnhancedTopMention{TopMention: t, DataSource: types.DataSourceOnly}
	applyMatch(match, &out.RawContent, &out.EnhancedMetrics, &out.Tweet, &out.TweetAuthor, &out.DataSource)
	return out
}

// applyMatch populates the shared enhancement fields. Either all of them are
// set or none; partially-enhanced records must not exist.
func applyMatch(match *Match, raw **string, metrics **types.EnhancedMetrics, tweet **types.Tweet, author **types.TwitterUser, src *types.DataSource) {
	if match == nil || match.Tweet == nil {
		return
	}
	text := match.Tweet.Text
	*raw = &text
	*metrics = match.Metrics
	*tweet = match.Tweet
	*author = match.Author
	*src = types.DataSourceEnhanced
}
