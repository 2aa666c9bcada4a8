package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	appErrors "github.com/ftso-community/ccxt-value-provider-go/internal/errors"
	"github.com/ftso-community/ccxt-value-provider-go/internal/logger"
	"github.com/ftso-community/ccxt-value-provider-go/internal/utils"
)

const defaultVolumeWindowSec = 60

// handleFeedValues serves POST feed-values.
func (s *Server) handleFeedValues(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())

	req, ok := decodeFeedValuesRequest(w, r, requestID)
	if !ok {
		return
	}

	values, err := s.feed.GetValues(r.Context(), req.Feeds)
	if err != nil {
		utils.WriteJsonError(w, http.StatusInternalServerError, appErrors.ErrExchangeRequestFailed, requestID)
		return
	}

	utils.WriteJsonSuccess(w, http.StatusOK, feedValuesResponse{Data: toFeedValueData(values)})
}

// handleRoundFeedValues serves POST feed-values/{votingRoundId}.
func (s *Server) handleRoundFeedValues(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())

	votingRoundID, err := strconv.ParseInt(r.PathValue("voting_round_id"), 10, 64)
	if err != nil {
		utils.WriteJsonError(w, http.StatusBadRequest, appErrors.ErrInvalidRequestBody, requestID)
		return
	}

	req, ok := decodeFeedValuesRequest(w, r, requestID)
	if !ok {
		return
	}

	values, err := s.feed.GetValues(r.Context(), req.Feeds)
	if err != nil {
		utils.WriteJsonError(w, http.StatusInternalServerError, appErrors.ErrExchangeRequestFailed, requestID)
		return
	}

	utils.WriteJsonSuccess(w, http.StatusOK, roundFeedValuesResponse{
		VotingRoundID: votingRoundID,
		Data:          toFeedValueData(values),
	})
}

// handleVolumes serves POST volumes?window=<sec>.
func (s *Server) handleVolumes(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestIDFromContext(r.Context())

	windowSec := defaultVolumeWindowSec
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.WriteJsonError(w, http.StatusBadRequest, appErrors.ErrInvalidWindow, requestID)
			return
		}
		windowSec = parsed
	}

	req, ok := decodeFeedValuesRequest(w, r, requestID)
	if !ok {
		return
	}

	volumes, err := s.feed.GetVolumes(r.Context(), req.Feeds, windowSec)
	if err != nil {
		if appErr, ok := err.(appErrors.AppError); ok {
			utils.WriteJsonError(w, http.StatusBadRequest, appErr, requestID)
			return
		}
		utils.WriteJsonError(w, http.StatusInternalServerError, appErrors.ErrExchangeRequestFailed, requestID)
		return
	}

	utils.WriteJsonSuccess(w, http.StatusOK, feedVolumesResponse{Data: volumes})
}

func decodeFeedValuesRequest(w http.ResponseWriter, r *http.Request, requestID string) (feedValuesRequest, bool) {
	var req feedValuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJsonError(w, http.StatusBadRequest, appErrors.ErrInvalidRequestBody, requestID)
		return feedValuesRequest{}, false
	}
	if len(req.Feeds) == 0 {
		utils.WriteJsonError(w, http.StatusBadRequest, appErrors.ErrMissingFeeds, requestID)
		return feedValuesRequest{}, false
	}
	return req, true
}
