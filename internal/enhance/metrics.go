package enhance

import "mindshare-sdk/types"

// computeMetrics derives engagement metrics from a matched tweet and its
// author. The engagement rate is only computed when impressions are known
// and positive; otherwise the field stays unset rather than becoming 0,
// NaN or Inf.
func computeMetrics(tw *types.Tweet, author *types.TwitterUser) *types.EnhancedMetrics {
	m := &types.EnhancedMetrics{}

	if pm := tw.PublicMetrics; pm != nil && pm.ImpressionCount > 0 {
		rate := float64(pm.LikeCount+pm.RetweetCount+pm.ReplyCount+pm.QuoteCount) / float64(pm.ImpressionCount)
		m.EngagementRate = &rate
	}

	if author != nil {
		if um := author.PublicMetrics; um != nil {
			reach := um.FollowersCount
			m.Reach = &reach
		}
		m.Verified = author.Verified || author.VerifiedType != ""
	}

	return m
}
