// Package enhance merges Mindshare analytics records with raw tweet data
// fetched from the Twitter API. The batching, merging and fallback logic is
// written once as a generic routine; each record shape supplies only its
// key-extraction and field-attachment functions.
package enhance

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mindshare-sdk/apierror"
	"mindshare-sdk/internal/twitter"
	"mindshare-sdk/types"
)

// TweetFetcher is the slice of the Twitter client the engine needs.
type TweetFetcher interface {
	GetTweets(ctx context.Context, ids []string) (*types.TweetLookup, error)
}

// Engine holds the enhancement defaults and the optional Twitter fetcher.
// A nil Fetcher means no secondary transport is configured and every run
// short-circuits to source-only output.
type Engine struct {
	Fetcher          TweetFetcher
	DefaultBatchSize int
	DefaultTimeout   time.Duration
	Logger           *zap.Logger
}

// Options are the resolved per-run settings. Zero BatchSize and Timeout
// fall back to the engine defaults.
type Options struct {
	IncludeContent   bool
	IncludeMetrics   bool
	FallbackToSource bool
	BatchSize        int
	Timeout          time.Duration
}

// Match is the correlated tweet data handed to an attach function. Metrics
// is nil when metric computation was not requested.
type Match struct {
	Tweet   *types.Tweet
	Author  *types.TwitterUser
	Metrics *types.EnhancedMetrics
}

// Run enhances records of shape S into enhanced shape E. extract derives the
// correlation key of a record (ok=false excludes it from the fetch set) and
// attach builds the output record, tagged source+enhanced when a Match is
// supplied and source-only otherwise.
//
// The returned error is non-nil only when the batched fetch fails and
// fallback to source data is disabled; every other failure mode degrades
// into a source-only result recorded in the summary.
func Run[S, E any](
	ctx context.Context,
	e *Engine,
	records []S,
	opts Options,
	extract func(S) (string, bool),
	attach func(S, *Match) E,
) ([]E, types.EnhancementInfo, error) {
	info := types.EnhancementInfo{}

	if e == nil || e.Fetcher == nil || !opts.IncludeContent {
		return sourceOnly(records, attach), info, nil
	}

	ids := collectIDs(records, extract)
	if len(ids) == 0 {
		return sourceOnly(records, attach), info, nil
	}

	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}

	batch := opts.BatchSize
	if batch <= 0 {
		batch = e.DefaultBatchSize
	}
	if batch <= 0 || batch > twitter.MaxLookupIDs {
		batch = twitter.MaxLookupIDs
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = e.DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Accumulate across all chunks before merging so a tweet returned in any
	// chunk can match any record.
	tweets := make(map[string]types.Tweet, len(ids))
	users := make(map[string]types.TwitterUser)
	for start := 0; start < len(ids); start += batch {
		end := start + batch
		if end > len(ids) {
			end = len(ids)
		}
		lookup, err := e.Fetcher.GetTweets(ctx, ids[start:end])
		if err != nil {
			if opts.FallbackToSource {
				log.Debug("tweet fetch failed, falling back to source data", zap.Error(err))
				info.FailedEnhancements = len(records)
				info.Errors = []string{err.Error()}
				return sourceOnly(records, attach), info, nil
			}
			return nil, info, &apierror.EnhancementError{Err: err}
		}
		for _, tw := range lookup.Tweets {
			tweets[tw.ID] = tw
		}
		for _, u := range lookup.Users {
			users[u.ID] = u
		}
	}

	out := make([]E, 0, len(records))
	enhanced := 0
	for _, r := range records {
		var match *Match
		if id, ok := extract(r); ok {
			if tw, found := tweets[id]; found {
				match = buildMatch(tw, users, opts.IncludeMetrics)
				enhanced++
			}
		}
		out = append(out, attach(r, match))
	}

	info.TotalEnhanced = enhanced
	info.FailedEnhancements = len(records) - enhanced
	info.TwitterDataUsed = true
	return out, info, nil
}

// collectIDs returns the deduplicated extractable ids in record order.
func collectIDs[S any](records []S, extract func(S) (string, bool)) []string {
	ids := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		id, ok := extract(r)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// sourceOnly maps every record through attach with no match.
func sourceOnly[S, E any](records []S, attach func(S, *Match) E) []E {
	out := make([]E, 0, len(records))
	for _, r := range records {
		out = append(out, attach(r, nil))
	}
	return out
}

func buildMatch(tw types.Tweet, users map[string]types.TwitterUser, includeMetrics bool) *Match {
	t := tw
	m := &Match{Tweet: &t}
	if u, ok := users[tw.AuthorID]; ok {
		author := u
		m.Author = &author
	}
	if includeMetrics {
		m.Metrics = computeMetrics(m.Tweet, m.Author)
	}
	return m
}
