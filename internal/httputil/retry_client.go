package httputil

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/ftso-community/ccxt-value-provider-go/internal/logger"
)

// GetRetryableHTTPClient returns a retryablehttp.Client configured with the
// engine's standard bounded-retry backoff, logging retries through the
// shared structured logger.
func GetRetryableHTTPClient(maxRetries int) *retryablehttp.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{
		Timeout: 10 * time.Second,
	}
	retryClient.Logger = logger.Logger
	retryClient.RetryWaitMin = 2 * time.Second
	retryClient.RetryWaitMax = 3 * time.Second
	retryClient.RetryMax = maxRetries
	return retryClient
}
