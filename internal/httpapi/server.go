// Package httpapi wires the DataFeed read path to the HTTP surface
// described in the external interfaces: feed-values, feed-values with a
// voting round, and volumes.
package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ftso-community/ccxt-value-provider-go/internal/datafeed"
	"github.com/ftso-community/ccxt-value-provider-go/internal/middleware"
	"github.com/ftso-community/ccxt-value-provider-go/internal/utils"
)

// Server holds the handlers' shared dependency: the active DataFeed.
type Server struct {
	feed datafeed.Feed
}

// NewMux builds the process's http.Handler over feed.
func NewMux(feed datafeed.Feed) http.Handler {
	s := &Server{feed: feed}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /feed-values", middleware.RequireJSONContentType(s.handleFeedValues))
	mux.HandleFunc("POST /feed-values/{voting_round_id}", middleware.RequireJSONContentType(s.handleRoundFeedValues))
	mux.HandleFunc("POST /volumes", middleware.RequireJSONContentType(s.handleVolumes))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.Logging(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJsonSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
