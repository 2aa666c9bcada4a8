// Package utils provides small HTTP response helpers shared by the handlers.
package utils

import (
	"encoding/json"
	"net/http"

	appErrors "github.com/ftso-community/ccxt-value-provider-go/internal/errors"
)

// WriteJsonSuccess writes a JSON success response with the given status code.
func WriteJsonSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteJsonError writes a JSON error response, stamping the request ID that
// the logging middleware attached to the request context.
func WriteJsonError(w http.ResponseWriter, statusCode int, appError appErrors.AppError, requestID string) {
	appError.RequestID = requestID

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(appError)
}
