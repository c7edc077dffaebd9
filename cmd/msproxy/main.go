package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	mindshare "mindshare-sdk"
	"mindshare-sdk/internal/httpserver"
)

func main() {
	_ = godotenv.Load()

	apiKey := os.Getenv("MINDSHARE_API_KEY")
	if apiKey == "" {
		log.Fatal("MINDSHARE_API_KEY is required")
	}

	sdk, err := mindshare.New(mindshare.Options{
		APIKey:             apiKey,
		TwitterBearerToken: os.Getenv("X_BEARER_TOKEN"),
		BaseURL:            os.Getenv("MINDSHARE_BASE"),
		TwitterBaseURL:     os.Getenv("X_BASE"),
		FetchRawContent:    os.Getenv("FETCH_RAW_CONTENT") == "true",
		StrictMode:         os.Getenv("STRICT_MODE") == "true",
		Debug:              os.Getenv("DEBUG") == "true",
	})
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	port := getEnv("PORT", "8080")
	srv := httpserver.NewServer(port, sdk)
	log.Printf("msproxy listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
