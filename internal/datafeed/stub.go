package datafeed

import (
	"context"
	"math/rand"

	"github.com/ftso-community/ccxt-value-provider-go/internal/feed"
	"github.com/ftso-community/ccxt-value-provider-go/internal/logger"
)

const (
	fixedValue       = 0.01
	randomBaseValue  = 0.05
	randomSpreadHalf = 0.5
)

// FixedFeed answers every query with the same constant value, used to
// exercise the HTTP API and downstream consumers without live exchange
// connectivity.
type FixedFeed struct{}

// NewFixedFeed logs once at construction, mirroring the original
// implementation's warning that this is a non-production stub.
func NewFixedFeed() *FixedFeed {
	logger.Warn("using fixed value data feed, values are not real")
	return &FixedFeed{}
}

func (f *FixedFeed) GetValue(_ context.Context, id feed.ID) (*float64, error) {
	v := fixedValue
	return &v, nil
}

func (f *FixedFeed) GetValues(_ context.Context, ids []feed.ID) ([]feed.Value, error) {
	out := make([]feed.Value, len(ids))
	for i, id := range ids {
		v := fixedValue
		out[i] = feed.Value{Feed: id, Value: &v}
	}
	return out, nil
}

func (f *FixedFeed) GetVolumes(_ context.Context, _ []feed.ID, _ int) ([]feed.VolumeData, error) {
	return []feed.VolumeData{}, nil
}

// RandomFeed answers every query with a fresh random value in
// [randomBaseValue*(1-randomSpreadHalf), randomBaseValue*(1+randomSpreadHalf)],
// uncached across calls.
type RandomFeed struct{}

func NewRandomFeed() *RandomFeed {
	logger.Warn("using random value data feed, values are not real")
	return &RandomFeed{}
}

func (f *RandomFeed) GetValue(_ context.Context, id feed.ID) (*float64, error) {
	v := randomValue()
	return &v, nil
}

func (f *RandomFeed) GetValues(_ context.Context, ids []feed.ID) ([]feed.Value, error) {
	out := make([]feed.Value, len(ids))
	for i, id := range ids {
		v := randomValue()
		out[i] = feed.Value{Feed: id, Value: &v}
	}
	return out, nil
}

func (f *RandomFeed) GetVolumes(_ context.Context, _ []feed.ID, _ int) ([]feed.VolumeData, error) {
	return []feed.VolumeData{}, nil
}

func randomValue() float64 {
	return randomBaseValue * (randomSpreadHalf + rand.Float64())
}
