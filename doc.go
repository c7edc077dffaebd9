// Package mindshare is a Go client for the Mindshare social-analytics API
// with optional tweet enhancement from the Twitter API v2.
//
// Basic usage:
//
//	client, err := mindshare.New(mindshare.Options{
//		APIKey:             os.Getenv("MINDSHARE_API_KEY"),
//		TwitterBearerToken: os.Getenv("X_BEARER_TOKEN"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	on := true
//	res, err := client.GetKeywordMentions(ctx, types.KeywordMentionsParams{
//		Keywords:        []string{"bitcoin"},
//		TimeRange:       types.TimeRange{TimeWindow: "24h"},
//		FetchRawContent: &on,
//	})
//
// When Twitter credentials are configured and raw-content fetching is on,
// each returned record that links to a tweet is augmented with the tweet
// text, its author and computed engagement metrics, and the response carries
// an EnhancementInfo summary. Twitter failures degrade the call to
// source-only data instead of failing it, unless StrictMode is set.
//
// Errors are typed; see the apierror package for the taxonomy.
package mindshare
