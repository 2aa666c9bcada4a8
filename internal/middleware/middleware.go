package middleware

import (
	"log"
	"net/http"

	appErrors "github.com/ftso-community/ccxt-value-provider-go/internal/errors"
	"github.com/ftso-community/ccxt-value-provider-go/internal/utils"
)

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middleware to handler in order, so the first middleware in
// the list is the outermost wrapper.
func Chain(handler http.Handler, middleware ...Middleware) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}

// ChainFunc is Chain for an http.HandlerFunc.
func ChainFunc(handlerFunc http.HandlerFunc, middleware ...Middleware) http.Handler {
	return Chain(handlerFunc, middleware...)
}

// RequireJSONContentType is a middleware that checks if the request has the correct Content-Type
func RequireJSONContentType(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		// Check if the content type is not JSON.
		if req.Header.Get("Content-Type") != "application/json" {
			log.Printf("Invalid Content-Type: %s for %s %s", req.Header.Get("Content-Type"), req.Method, req.URL.Path)

			// Create error response
			appErr := appErrors.ErrInvalidRequestBody

			utils.WriteJsonError(w, http.StatusBadRequest, appErr, "")
			return
		}
		
		// Call the next handler
		next(w, req)
	}
} 