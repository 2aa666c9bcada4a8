// Package aggregator implements the read path: quote-currency conversion,
// cross-exchange sample assembly, the time-weighted median, and lazy REST
// backfill of missing prices.
package aggregator

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ftso-community/ccxt-value-provider-go/internal/exchange"
	"github.com/ftso-community/ccxt-value-provider-go/internal/feed"
	"github.com/ftso-community/ccxt-value-provider-go/internal/logger"
	"github.com/ftso-community/ccxt-value-provider-go/internal/metrics"
	"github.com/ftso-community/ccxt-value-provider-go/internal/pricetable"
	"github.com/ftso-community/ccxt-value-provider-go/internal/volumering"
)

// priceSample is a (value, time, exchange) observation fed into the
// weighted median.
type priceSample struct {
	value    float64
	timeMs   int64
	exchange string
}

// Aggregator answers get_value/get_values/get_volumes queries over the
// shared engine state. It holds no exclusive state of its own besides the
// lazy-backfill dedup set, and is safe for concurrent use.
type Aggregator struct {
	registry  *feed.Registry
	prices    *pricetable.Table
	volumes   *volumering.Registry
	adapters  map[string]exchange.Adapter
	decayLambda float64

	mu              sync.Mutex
	fetchAttempted map[string]struct{}
}

// New builds an Aggregator. decayLambda is the per-millisecond exponential
// decay rate used by the weighted median (MEDIAN_DECAY).
func New(registry *feed.Registry, prices *pricetable.Table, volumes *volumering.Registry, adapters map[string]exchange.Adapter, decayLambda float64) *Aggregator {
	return &Aggregator{
		registry:       registry,
		prices:         prices,
		volumes:        volumes,
		adapters:       adapters,
		decayLambda:    decayLambda,
		fetchAttempted: make(map[string]struct{}),
	}
}

// GetValue computes the current aggregated value for id, or (0, false) if
// no exchange currently reports a price for any of its sources. A missing
// value triggers an asynchronous, idempotent REST backfill attempt.
func (a *Aggregator) GetValue(ctx context.Context, id feed.ID) (float64, bool) {
	v, ok := a.getValue(ctx, id, false)
	if ok {
		metrics.RecordQuery("ok")
	} else {
		metrics.RecordQuery("absent")
	}
	return v, ok
}

// getValue is GetValue's recursive core. convertingUSDT is true only while
// resolving the USDT/USD conversion rate itself, guarding against the
// degenerate case where USDT/USD sources are themselves quoted in USDT.
func (a *Aggregator) getValue(ctx context.Context, id feed.ID, convertingUSDT bool) (float64, bool) {
	cfg, ok := a.registry.Get(id)
	if !ok {
		logger.Warn("no config found for feed", "feed", id.String())
		return 0, false
	}

	var usdtToUSD float64
	var usdtToUSDLoaded bool
	var usdtToUSDOK bool

	convertToUSD := func(symbol, exch string, price float64) (float64, bool) {
		if convertingUSDT {
			logger.Warn("USDT source itself quoted in USDT, dropping to avoid recursion", "symbol", symbol, "exchange", exch)
			return 0, false
		}
		if !usdtToUSDLoaded {
			usdtToUSD, usdtToUSDOK = a.getValue(ctx, feed.USDTUSD, true)
			usdtToUSDLoaded = true
		}
		if !usdtToUSDOK {
			logger.Warn("unable to retrieve USDT to USD conversion rate", "symbol", symbol, "exchange", exch)
			return 0, false
		}
		return price * usdtToUSD, true
	}

	var samples []priceSample
	for _, source := range cfg.Sources {
		sample, ok := a.prices.Get(source.Symbol, source.Exchange)
		if !ok {
			continue
		}

		price := sample.Value
		if strings.HasSuffix(source.Symbol, "USDT") {
			converted, ok := convertToUSD(source.Symbol, source.Exchange, price)
			if !ok {
				continue
			}
			price = converted
		}

		samples = append(samples, priceSample{value: price, timeMs: sample.TimeMs, exchange: sample.Exchange})
	}

	if len(samples) == 0 {
		logger.Warn("no prices found for feed", "feed", id.String())
		go a.fetchLastPrices(cfg)
		return 0, false
	}

	v, ok := weightedMedian(samples, a.decayLambda)
	return v, ok
}

// GetValues computes GetValue for each of ids, preserving order.
func (a *Aggregator) GetValues(ctx context.Context, ids []feed.ID) []feed.Value {
	out := make([]feed.Value, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id feed.ID) {
			defer wg.Done()
			v, ok := a.GetValue(ctx, id)
			out[i] = feed.Value{Feed: id}
			if ok {
				val := v
				out[i].Value = &val
			}
		}(i, id)
	}
	wg.Wait()
	return out
}

// GetVolumes computes rolling volumes for ids over windowSec, folding in
// the lenient USDT→USD summation for "/USD" feeds described in §4.5.
func (a *Aggregator) GetVolumes(ctx context.Context, ids []feed.ID, windowSec int) ([]feed.VolumeData, error) {
	usdtToUSD, haveUSDT := a.GetValue(ctx, feed.USDTUSD)

	results := make([]feed.VolumeData, 0, len(ids))
	for _, id := range ids {
		volByExchange := make(map[string]float64)
		for exch, ring := range a.volumes.ExchangesFor(id.Name) {
			v, err := ring.GetVolume(windowSec)
			if err != nil {
				return nil, err
			}
			volByExchange[exch] = v
		}

		if strings.HasSuffix(id.Name, "/USD") && haveUSDT {
			usdtName := strings.TrimSuffix(id.Name, "/USD") + "/USDT"
			for exch, ring := range a.volumes.ExchangesFor(usdtName) {
				v, err := ring.GetVolume(windowSec)
				if err != nil {
					return nil, err
				}
				volByExchange[exch] += math.Round(v * usdtToUSD)
			}
		}

		var exVols []feed.ExchangeVolume
		for exch, v := range volByExchange {
			exVols = append(exVols, feed.ExchangeVolume{Exchange: exch, Volume: v})
		}
		results = append(results, feed.VolumeData{Feed: id, Volumes: exVols})
	}
	return results, nil
}

// fetchLastPrices performs the one-shot, per-feed REST backfill described
// in §4.7. Guarded by fetchAttempted so it only ever runs once per feed key
// for the process lifetime.
func (a *Aggregator) fetchLastPrices(cfg feed.Config) {
	key := cfg.Feed.Key()

	a.mu.Lock()
	if _, done := a.fetchAttempted[key]; done {
		a.mu.Unlock()
		return
	}
	a.fetchAttempted[key] = struct{}{}
	a.mu.Unlock()

	metrics.RecordBackfill(key)

	for _, source := range cfg.Sources {
		adapter, ok := a.adapters[source.Exchange]
		if !ok {
			continue
		}
		market, ok := adapter.Market(source.Symbol)
		if !ok {
			continue
		}

		logger.Info("fetching last price", "market", market.ID, "exchange", source.Exchange)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		ticker, err := adapter.FetchTicker(ctx, market.ID)
		cancel()
		if err != nil {
			logger.Warn("failed to fetch ticker", "market", market.ID, "exchange", source.Exchange, "error", err)
			continue
		}
		if !ticker.HasLast {
			logger.Info("no last price found", "market", market.ID, "exchange", source.Exchange)
			continue
		}
		a.prices.Set(source.Exchange, source.Symbol, ticker.Last, ticker.TimestampMs)
	}
}

// weightedMedian implements the exponentially time-decayed weighted median
// over samples: weight_i = exp(-lambda * (now - time_i)), normalized, then
// the value at which the cumulative weight (sorted by value) first reaches
// 0.5.
func weightedMedian(samples []priceSample, lambda float64) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].timeMs < samples[j].timeMs })
	now := time.Now().UnixMilli()

	weights := make([]float64, len(samples))
	var weightSum float64
	for i, s := range samples {
		w := math.Exp(-lambda * float64(now-s.timeMs))
		weights[i] = w
		weightSum += w
	}

	if weightSum == 0 {
		return samples[0].value, true
	}

	type weighted struct {
		value  float64
		weight float64
	}
	wp := make([]weighted, len(samples))
	for i, s := range samples {
		wp[i] = weighted{value: s.value, weight: weights[i] / weightSum}
	}
	sort.Slice(wp, func(i, j int) bool { return wp[i].value < wp[j].value })

	var cumulative float64
	for _, w := range wp {
		cumulative += w.weight
		if cumulative >= 0.5 {
			return w.value, true
		}
	}

	return 0, false
}
