// Package datafeed defines the common interface the HTTP API talks to,
// satisfied by the live ccxt-style Engine and by two stub implementations
// used for local development and load testing.
package datafeed

import (
	"context"

	"github.com/ftso-community/ccxt-value-provider-go/internal/feed"
)

// Feed answers the three read-path queries the HTTP API exposes. A nil
// *float64 from GetValue/GetValues means the feed has no current value,
// not an error.
type Feed interface {
	GetValue(ctx context.Context, id feed.ID) (*float64, error)
	GetValues(ctx context.Context, ids []feed.ID) ([]feed.Value, error)
	GetVolumes(ctx context.Context, ids []feed.ID, windowSec int) ([]feed.VolumeData, error)
}
