package httpapi

import "github.com/ftso-community/ccxt-value-provider-go/internal/feed"

// feedValuesRequest is the body of POST feed-values[/{votingRoundId}].
type feedValuesRequest struct {
	Feeds []feed.ID `json:"feeds"`
}

// feedValueData is one entry of a feed-values response, value omitted when
// the feed currently has no aggregated price.
type feedValueData struct {
	Feed  feed.ID  `json:"feed"`
	Value *float64 `json:"value,omitempty"`
}

// feedValuesResponse is the body of POST feed-values.
type feedValuesResponse struct {
	Data []feedValueData `json:"data"`
}

// roundFeedValuesResponse is the body of POST feed-values/{votingRoundId}.
type roundFeedValuesResponse struct {
	VotingRoundID int64           `json:"votingRoundId"`
	Data          []feedValueData `json:"data"`
}

// feedVolumesResponse is the body of POST volumes.
type feedVolumesResponse struct {
	Data []feed.VolumeData `json:"data"`
}

func toFeedValueData(values []feed.Value) []feedValueData {
	out := make([]feedValueData, len(values))
	for i, v := range values {
		out[i] = feedValueData{Feed: v.Feed, Value: v.Value}
	}
	return out
}
