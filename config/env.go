package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load env from .env (no error if the file is absent; real deployments
	// set env vars directly).
	godotenv.Load()
}

func GetEnvDefault(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// PriceBookFetchTimeout bounds the upstream feed download. A hung feed host
// must surface as a fetch error, not a stuck request.
//
// Set via env:
// - PRICEBOOK_FETCH_TIMEOUT_SECONDS=30
func PriceBookFetchTimeout() time.Duration {
	raw := strings.TrimSpace(os.Getenv("PRICEBOOK_FETCH_TIMEOUT_SECONDS"))
	if raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 30 * time.Second
}

// PriceBookFeedURL is the default upstream price book feed, used when a fetch
// request does not carry an explicit URL.
func PriceBookFeedURL() string {
	return strings.TrimSpace(os.Getenv("PRICEBOOK_FEED_URL"))
}
