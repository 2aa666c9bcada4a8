// Package ingestor drives one long-running trade-ingestion task per
// exchange, selecting among three strategies depending on the exchange
// adapter's declared capabilities and folding results into a PriceTable
// and a VolumeRing registry.
package ingestor

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/ftso-community/ccxt-value-provider-go/internal/exchange"
	"github.com/ftso-community/ccxt-value-provider-go/internal/logger"
	"github.com/ftso-community/ccxt-value-provider-go/internal/metrics"
	"github.com/ftso-community/ccxt-value-provider-go/internal/pricetable"
	"github.com/ftso-community/ccxt-value-provider-go/internal/volumering"
)

const (
	multiSymbolEmptySleep = 1000 * time.Millisecond
	multiSymbolErrorSleep = 10000 * time.Millisecond

	perSymbolEmptySleep = 1000 * time.Millisecond
	perSymbolErrorBase  = 5000 * time.Millisecond
	perSymbolErrorJitter = 10000 * time.Millisecond

	pollSweepSleep    = 1000 * time.Millisecond
	pollRetryMax      = 5
	pollRetryBaseWait = 2000 * time.Millisecond
	pollCooldown      = 300000 * time.Millisecond
)

// Run selects an ingestion strategy for exchangeName/adapter and blocks
// until ctx is cancelled, folding trades into pt and vr as they arrive.
// It never returns until ctx is done; callers run it in its own goroutine
// per exchange. For the per-symbol strategy Run starts one goroutine per
// symbol itself and returns only after all of them have exited.
func Run(ctx context.Context, adapter exchange.Adapter, exchangeName string, symbols []string, pt *pricetable.Table, vr *volumering.Registry) {
	caps := adapter.Capabilities()
	logger.Info("watching trades", "exchange", exchangeName, "symbols", symbols)

	switch {
	case caps.HasWatchForSymbols && !caps.ExcludeMultiSymbolWatch:
		watchTradesForSymbols(ctx, adapter, exchangeName, symbols, pt, vr)
	case caps.HasWatchPerSymbol:
		var wg sync.WaitGroup
		for _, symbol := range symbols {
			wg.Add(1)
			go func(symbol string) {
				defer wg.Done()
				watchTradesForSymbol(ctx, adapter, exchangeName, symbol, pt, vr)
			}(symbol)
		}
		wg.Wait()
	default:
		logger.Warn("exchange does not support watching trades, polling instead", "exchange", exchangeName)
		fetchTrades(ctx, adapter, exchangeName, symbols, pt, vr)
	}
}

func watchTradesForSymbols(ctx context.Context, adapter exchange.Adapter, exchangeName string, symbols []string, pt *pricetable.Table, vr *volumering.Registry) {
	sinceBySymbol := make(map[string]int64)
	for {
		if ctx.Err() != nil {
			return
		}

		trades, err := adapter.WatchTradesForSymbols(ctx, symbols)
		if err != nil {
			logger.Debug("failed to watch trades for symbols, will retry", "exchange", exchangeName, "error", err)
			metrics.RecordStreamError(exchangeName, "watch_for_symbols")
			if !sleepCtx(ctx, multiSymbolErrorSleep) {
				return
			}
			continue
		}

		var newTrades []exchange.Trade
		for _, t := range trades {
			if t.TimestampMs > sinceBySymbol[t.Symbol] {
				newTrades = append(newTrades, t)
			}
		}
		sort.Slice(newTrades, func(i, j int) bool { return newTrades[i].TimestampMs < newTrades[j].TimestampMs })

		if len(newTrades) == 0 {
			if !sleepCtx(ctx, multiSymbolEmptySleep) {
				return
			}
			continue
		}

		last := newTrades[len(newTrades)-1]
		pt.Set(exchangeName, last.Symbol, last.Price, last.TimestampMs)
		sinceBySymbol[last.Symbol] = last.TimestampMs
		processVolume(vr, exchangeName, newTrades)
		metrics.RecordTradesProcessed(exchangeName, last.Symbol, len(newTrades))
	}
}

func watchTradesForSymbol(ctx context.Context, adapter exchange.Adapter, exchangeName, symbol string, pt *pricetable.Table, vr *volumering.Registry) {
	var since int64
	for {
		if ctx.Err() != nil {
			return
		}

		trades, err := adapter.WatchTrades(ctx, symbol, since)
		if err != nil {
			logger.Debug("failed to watch trades, will retry", "exchange", exchangeName, "symbol", symbol, "error", err)
			metrics.RecordStreamError(exchangeName, "watch_per_symbol")
			jitter := time.Duration(rand.Int63n(int64(perSymbolErrorJitter)))
			if !sleepCtx(ctx, perSymbolErrorBase+jitter) {
				return
			}
			continue
		}

		if len(trades) == 0 {
			if !sleepCtx(ctx, perSymbolEmptySleep) {
				return
			}
			continue
		}

		sort.Slice(trades, func(i, j int) bool { return trades[i].TimestampMs < trades[j].TimestampMs })
		last := trades[len(trades)-1]
		pt.Set(exchangeName, last.Symbol, last.Price, last.TimestampMs)
		since = last.TimestampMs + 1
		processVolume(vr, exchangeName, trades)
		metrics.RecordTradesProcessed(exchangeName, symbol, len(trades))
	}
}

func fetchTrades(ctx context.Context, adapter exchange.Adapter, exchangeName string, symbols []string, pt *pricetable.Table, vr *volumering.Registry) {
	for {
		if ctx.Err() != nil {
			return
		}

		err := retrySweep(ctx, pollRetryMax, pollRetryBaseWait, func() error {
			for _, symbol := range symbols {
				trades, err := adapter.FetchTrades(ctx, symbol)
				if err != nil {
					return err
				}
				if len(trades) == 0 {
					logger.Warn("no trades found", "exchange", exchangeName, "symbol", symbol)
					continue
				}
				sort.Slice(trades, func(i, j int) bool { return trades[i].TimestampMs > trades[j].TimestampMs })
				latest := trades[0]
				if existing, ok := pt.Get(latest.Symbol, exchangeName); !ok || latest.TimestampMs > existing.TimeMs {
					pt.Set(exchangeName, latest.Symbol, latest.Price, latest.TimestampMs)
				}
			}
			return nil
		})

		if err != nil {
			logger.Debug("failed to fetch trades after multiple retries, will attempt again later", "exchange", exchangeName, "symbols", symbols, "error", err)
			metrics.RecordStreamError(exchangeName, "poll")
			if !sleepCtx(ctx, pollCooldown) {
				return
			}
			continue
		}

		if !sleepCtx(ctx, pollSweepSleep) {
			return
		}
	}
}

func processVolume(vr *volumering.Registry, exchangeName string, trades []exchange.Trade) {
	bySymbol := make(map[string][]volumering.Trade)
	for _, t := range trades {
		bySymbol[t.Symbol] = append(bySymbol[t.Symbol], volumering.Trade{
			TimestampMs: t.TimestampMs,
			Price:       t.Price,
			Amount:      t.Amount,
		})
	}
	for symbol, vts := range bySymbol {
		ring := vr.GetOrCreate(symbol, exchangeName)
		ring.ProcessTrades(vts)
	}
}

// retrySweep retries fn up to maxRetries times with a constant backoff,
// returning the last error if every attempt fails.
func retrySweep(ctx context.Context, maxRetries int, wait time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if attempt < maxRetries {
			if !sleepCtx(ctx, wait) {
				return lastErr
			}
		}
	}
	return lastErr
}

// sleepCtx sleeps for d or returns false early if ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
