package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLambda = 5e-5

func TestWeightedMedian_SingleSample(t *testing.T) {
	now := time.Now().UnixMilli()
	v, ok := weightedMedian([]priceSample{{value: 50000, timeMs: now, exchange: "A"}}, testLambda)
	require.True(t, ok)
	assert.Equal(t, 50000.0, v)
}

// TestWeightedMedian_ThreeExchanges mirrors the three-source scenario: values
// 100, 200, 300 observed at now, now-10s, now-60s. The decayed, normalized
// weights are about 0.604, 0.366 and 0.030, so the freshest value (100)
// alone carries more than half the weight and is where the value-sorted
// cumulative sum first reaches 0.5.
func TestWeightedMedian_ThreeExchanges(t *testing.T) {
	now := time.Now().UnixMilli()
	samples := []priceSample{
		{value: 100, timeMs: now, exchange: "A"},
		{value: 200, timeMs: now - 10_000, exchange: "B"},
		{value: 300, timeMs: now - 60_000, exchange: "C"},
	}

	v, ok := weightedMedian(samples, testLambda)
	require.True(t, ok)
	assert.Equal(t, 100.0, v)
}

func TestWeightedMedian_Empty(t *testing.T) {
	_, ok := weightedMedian(nil, testLambda)
	assert.False(t, ok)
}

// TestWeightedMedian_AllStale exercises the degenerate weight_sum == 0 path,
// which falls back to the earliest sample by time.
func TestWeightedMedian_AllStale(t *testing.T) {
	now := time.Now().UnixMilli()
	samples := []priceSample{
		{value: 10, timeMs: now - 1_000_000_000, exchange: "A"},
		{value: 20, timeMs: now - 2_000_000_000, exchange: "B"},
	}
	v, ok := weightedMedian(samples, testLambda)
	require.True(t, ok)
	assert.Equal(t, 20.0, v) // earliest by time after sort, per the fallback
}
