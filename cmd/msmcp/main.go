package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mindshare "mindshare-sdk"
	"mindshare-sdk/types"
)

func main() {
	_ = godotenv.Load()

	apiKey := os.Getenv("MINDSHARE_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "MINDSHARE_API_KEY is required for msmcp")
		os.Exit(1)
	}

	sdk, err := mindshare.New(mindshare.Options{
		APIKey:             apiKey,
		TwitterBearerToken: os.Getenv("X_BEARER_TOKEN"),
		BaseURL:            os.Getenv("MINDSHARE_BASE"),
		TwitterBaseURL:     os.Getenv("X_BASE"),
		FetchRawContent:    os.Getenv("FETCH_RAW_CONTENT") == "true",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"mindshare",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	s.AddTool(mcp.Tool{
		Name:        "mindshare.trending_tokens",
		Description: "List tokens ranked by social mention volume over a time window",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"time_window": map[string]any{"type": "string", "description": "Named window such as 1h, 24h or 7d"},
				"page_size":   map[string]any{"type": "number", "description": "Results per page"},
			},
			Required: []string{"time_window"},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		window, err := request.RequireString("time_window")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := sdk.GetTrendingTokens(ctx, types.TrendingTokensParams{
			TimeRange: types.TimeRange{TimeWindow: window},
			PageSize:  request.GetInt("page_size", 0),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(res)
	})

	s.AddTool(mcp.Tool{
		Name:        "mindshare.keyword_mentions",
		Description: "List social mentions matching a keyword, with raw tweet content when available",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"keyword":     map[string]any{"type": "string", "description": "Keyword or ticker to search for"},
				"time_window": map[string]any{"type": "string", "description": "Named window such as 1h, 24h or 7d"},
				"limit":       map[string]any{"type": "number", "description": "Maximum number of mentions"},
			},
			Required: []string{"keyword", "time_window"},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		keyword, err := request.RequireString("keyword")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		window, err := request.RequireString("time_window")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := sdk.GetKeywordMentions(ctx, types.KeywordMentionsParams{
			Keywords:  []string{keyword},
			TimeRange: types.TimeRange{TimeWindow: window},
			Limit:     request.GetInt("limit", 0),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(res)
	})

	s.AddTool(mcp.Tool{
		Name:        "mindshare.top_mentions",
		Description: "List the highest-engagement mentions for a ticker",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"ticker":      map[string]any{"type": "string", "description": "Token ticker, e.g. BTC"},
				"time_window": map[string]any{"type": "string", "description": "Named window such as 1h, 24h or 7d"},
			},
			Required: []string{"ticker", "time_window"},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		window, err := request.RequireString("time_window")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := sdk.GetTopMentions(ctx, types.TopMentionsParams{
			Ticker:    ticker,
			TimeRange: types.TimeRange{TimeWindow: window},
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(res)
	})

	s.AddTool(mcp.Tool{
		Name:        "mindshare.smart_stats",
		Description: "Engagement stats for one account",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"username": map[string]any{"type": "string", "description": "Account username"},
			},
			Required: []string{"username"},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		username, err := request.RequireString("username")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := sdk.GetAccountSmartStats(ctx, types.SmartStatsParams{Username: username})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(res)
	})

	port := getEnv("PORT", "8081")
	httpServer := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
	)
	log.Printf("mindshare MCP server listening on :%s/mcp", port)
	if err := httpServer.Start(":" + port); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func getEnv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}
