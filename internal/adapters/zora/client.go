package zora

import (
	"net/http"
	"time"

	"zoracoin/internal/adapters/ratelimit"
	"zoracoin/internal/domain/coin"
	"zoracoin/pkg/logger"
)

// DefaultAPIURL is the public coins REST API
const DefaultAPIURL = "https://api-sdk.zora.engineering"

// Config configures the coin SDK adapter
type Config struct {
	APIURL            string
	APIKey            string
	RequestsPerMinute int
	HTTPClient        *http.Client
}

// Client implements coin.SDK with go-ethereum contract bindings
// for on-chain operations and a REST client for balance listings.
type Client struct {
	api *APIClient
	log *logger.Logger
}

var _ coin.SDK = (*Client)(nil)

// New creates the coin SDK adapter
func New(cfg Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		api: NewAPIClient(cfg.APIURL, cfg.APIKey, cfg.HTTPClient, ratelimit.NewCoinAPILimiters(cfg.RequestsPerMinute)),
		log: log.With("component", "zora_sdk"),
	}
}
