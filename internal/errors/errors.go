// Package errors defines the application's typed error taxonomy. AppError
// values are both returned from internal calls and serialized directly as
// the body of an error HTTP response.
package errors

import "fmt"

// AppError is the error type for the application. It implements error and
// carries a stable numeric code so clients can branch on failure kind
// without string-matching messages.
type AppError struct {
	Code      int    `json:"errorCode"`
	Message   string `json:"errorMessage"`
	RequestID string `json:"requestId,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Message)
}

// Sentinel application errors, grouped per spec.md §7's error taxonomy.
var (
	// ConfigInvalid — fatal at startup.
	ErrConfigInvalid    = AppError{Code: 1001, Message: "feed catalog missing, malformed, or lacking USDT/USD"}
	ErrConfigFileNotSet = AppError{Code: 1002, Message: "feed catalog path could not be resolved"}

	// Query-path structural errors.
	ErrFeedNotConfigured  = AppError{Code: 1101, Message: "feed not present in catalog"}
	ErrBadWindow          = AppError{Code: 1102, Message: "requested volume window exceeds the 3600s history"}
	ErrInvalidWindow      = AppError{Code: 1103, Message: "window must be a positive integer number of seconds"}
	ErrInvalidRequestBody = AppError{Code: 1104, Message: "invalid request body"}
	ErrMissingFeeds       = AppError{Code: 1105, Message: "at least one feed is required"}

	// Exchange adapter errors (AdapterInit / MarketLoad / StreamTransient).
	ErrExchangeNotConfigured     = AppError{Code: 1201, Message: "exchange not configured"}
	ErrMarketNotFound            = AppError{Code: 1202, Message: "symbol not found in exchange market catalog"}
	ErrExchangeRequestFailed     = AppError{Code: 1203, Message: "request to exchange failed"}
	ErrExchangeInvalidStatusCode = AppError{Code: 1204, Message: "exchange returned a non-2xx status code"}
	ErrExchangeResponseDecode    = AppError{Code: 1205, Message: "failed to decode exchange response"}
	ErrExchangeResponseParse     = AppError{Code: 1206, Message: "failed to parse price/amount/timestamp from exchange response"}

	// RetryExhausted wraps the bounded-retry utility's terminal failure.
	ErrRetryExhausted = AppError{Code: 1301, Message: "exhausted retry budget"}
)
