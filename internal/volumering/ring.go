// Package volumering implements the fixed-capacity, second-resolution
// circular buffer of quote-denominated traded volume for one (symbol,
// exchange) pair.
package volumering

import (
	"sync"
	"time"

	appErrors "github.com/ftso-community/ccxt-value-provider-go/internal/errors"
	"github.com/ftso-community/ccxt-value-provider-go/internal/logger"
)

// HistorySec is the number of one-second slots the ring retains.
const HistorySec = 3600

// Trade is the minimal shape a ring needs to account for traded volume.
type Trade struct {
	TimestampMs int64
	Price       float64
	Amount      float64
}

// Ring is a HistorySec-slot wall-second circular buffer of traded volume.
// All access is serialized by mu: writes come from exactly one ingestor per
// (symbol, exchange), but reads may run concurrently with writes.
type Ring struct {
	mu       sync.Mutex
	bucket   [HistorySec]float64
	lastTsMs int64
	hasData  bool
}

// New returns an empty ring.
func New() *Ring {
	return &Ring{}
}

// ProcessTrades folds a batch of trades into the ring in arrival order.
func (r *Ring) ProcessTrades(trades []Trade) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range trades {
		if t.TimestampMs == 0 {
			logger.Warn("trade with missing timestamp, skipping")
			continue
		}
		if r.hasData && t.TimestampMs < r.lastTsMs {
			logger.Debug("out-of-order trade, skipping",
				"timestamp_ms", t.TimestampMs, "last_ts_ms", r.lastTsMs)
			continue
		}

		tSec := toSec(t.TimestampMs)
		prevSec := tSec
		if r.hasData {
			prevSec = toSec(r.lastTsMs)
		}

		for s := prevSec + 1; s <= tSec; s++ {
			r.bucket[mod(s)] = 0
		}
		if !r.hasData {
			r.bucket[mod(tSec)] = 0
		}

		r.bucket[mod(tSec)] += t.Amount * t.Price
		r.lastTsMs = t.TimestampMs
		r.hasData = true
	}
}

// GetVolume sums quote volume over the trailing window_sec seconds, counted
// end-exclusive from the last observed trade second. Returns BadWindow if
// windowSec exceeds HistorySec.
func (r *Ring) GetVolume(windowSec int) (float64, error) {
	if windowSec > HistorySec {
		return 0, appErrors.ErrBadWindow
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasData {
		return 0, nil
	}

	nowSec := toSec(time.Now().UnixMilli())
	start := nowSec - windowSec
	end := toSec(r.lastTsMs)

	var sum float64
	for t := start; t < end; t++ {
		sum += r.bucket[mod(t)]
	}
	return sum, nil
}

func toSec(ms int64) int {
	return int(ms / 1000)
}

func mod(sec int) int {
	m := sec % HistorySec
	if m < 0 {
		m += HistorySec
	}
	return m
}
