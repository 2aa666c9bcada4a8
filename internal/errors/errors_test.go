package errors

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError AppError
		expected string
	}{
		{
			name:     "basic error message",
			appError: AppError{Code: 1001, Message: "feed catalog missing, malformed, or lacking USDT/USD"},
			expected: "code 1001: feed catalog missing, malformed, or lacking USDT/USD",
		},
		{
			name:     "error with zero code",
			appError: AppError{Code: 0, Message: "test error"},
			expected: "code 0: test error",
		},
		{
			name:     "error with empty message",
			appError: AppError{Code: 2001},
			expected: "code 2001: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestAppError_JSON(t *testing.T) {
	tests := []struct {
		name     string
		appError AppError
		expected string
	}{
		{
			name:     "complete error with request id",
			appError: AppError{Code: 1105, Message: "at least one feed is required", RequestID: "req-1"},
			expected: `{"errorCode":1105,"errorMessage":"at least one feed is required","requestId":"req-1"}`,
		},
		{
			name:     "error without request id omits the field",
			appError: AppError{Code: 1102, Message: "requested volume window exceeds the 3600s history"},
			expected: `{"errorCode":1102,"errorMessage":"requested volume window exceeds the 3600s history"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.appError)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestAppError_ImplementsErrorInterface(t *testing.T) {
	var err error = AppError{Code: 1001, Message: "test error"}
	assert.Equal(t, "code 1001: test error", err.Error())
}

// TestPredefinedErrors checks every sentinel has a code in the 1000-1999
// range and a non-empty message.
func TestPredefinedErrors(t *testing.T) {
	predefinedErrors := []AppError{
		ErrConfigInvalid,
		ErrConfigFileNotSet,
		ErrFeedNotConfigured,
		ErrBadWindow,
		ErrInvalidWindow,
		ErrInvalidRequestBody,
		ErrMissingFeeds,
		ErrExchangeNotConfigured,
		ErrMarketNotFound,
		ErrExchangeRequestFailed,
		ErrExchangeInvalidStatusCode,
		ErrExchangeResponseDecode,
		ErrExchangeResponseParse,
		ErrRetryExhausted,
	}

	for _, err := range predefinedErrors {
		t.Run(err.Message, func(t *testing.T) {
			assert.True(t, err.Code >= 1000 && err.Code <= 1999, "error code %d outside the reserved 1000-1999 range", err.Code)
			assert.NotEmpty(t, err.Message)
			assert.NotEmpty(t, err.Error())
		})
	}
}
