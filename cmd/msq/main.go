package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	mindshare "mindshare-sdk"
	"mindshare-sdk/types"
)

func main() {
	var (
		op       string
		keywords string
		coins    string
		ticker   string
		username string
		window   string
		from     int64
		to       int64
		limit    int
		raw      bool
	)
	flag.StringVar(&op, "op", "trending", "operation: trending, mentions, news, top, stats, ping, key, status")
	flag.StringVar(&keywords, "keywords", "", "comma-separated keywords (mentions)")
	flag.StringVar(&coins, "coins", "", "comma-separated coin ids (news)")
	flag.StringVar(&ticker, "ticker", "", "token ticker (top)")
	flag.StringVar(&username, "username", "", "account username (stats)")
	flag.StringVar(&window, "window", "24h", "named time window")
	flag.Int64Var(&from, "from", 0, "range start, unix seconds (overrides -window with -to)")
	flag.Int64Var(&to, "to", 0, "range end, unix seconds")
	flag.IntVar(&limit, "limit", 0, "max results")
	flag.BoolVar(&raw, "raw", false, "fetch raw tweet content")
	flag.Parse()

	_ = godotenv.Load()

	apiKey := os.Getenv("MINDSHARE_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "MINDSHARE_API_KEY env required")
		os.Exit(1)
	}

	sdk, err := mindshare.New(mindshare.Options{
		APIKey:             apiKey,
		TwitterBearerToken: os.Getenv("X_BEARER_TOKEN"),
		BaseURL:            os.Getenv("MINDSHARE_BASE"),
		TwitterBaseURL:     os.Getenv("X_BASE"),
		Debug:              os.Getenv("DEBUG") == "true",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERR:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	tr := types.TimeRange{TimeWindow: window}
	if from != 0 || to != 0 {
		tr = types.TimeRange{From: &from, To: &to}
	}

	var out any
	switch op {
	case "trending":
		out, err = sdk.GetTrendingTokens(ctx, types.TrendingTokensParams{TimeRange: tr, PageSize: limit})
	case "mentions":
		out, err = sdk.GetKeywordMentions(ctx, types.KeywordMentionsParams{
			Keywords:        split(keywords),
			TimeRange:       tr,
			Limit:           limit,
			FetchRawContent: &raw,
		})
	case "news":
		out, err = sdk.GetTokenNews(ctx, types.TokenNewsParams{
			CoinIDs:         split(coins),
			TimeRange:       tr,
			PageSize:        limit,
			FetchRawContent: &raw,
		})
	case "top":
		out, err = sdk.GetTopMentions(ctx, types.TopMentionsParams{
			Ticker:          ticker,
			TimeRange:       tr,
			PageSize:        limit,
			FetchRawContent: &raw,
		})
	case "stats":
		out, err = sdk.GetAccountSmartStats(ctx, types.SmartStatsParams{Username: username})
	case "ping":
		out, err = sdk.Ping(ctx)
	case "key":
		out, err = sdk.GetKeyStatus(ctx)
	case "status":
		out = sdk.TestConnection(ctx)
	default:
		fmt.Fprintf(os.Stderr, "unknown op %q\n", op)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERR:", err)
		os.Exit(1)
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}

func split(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
