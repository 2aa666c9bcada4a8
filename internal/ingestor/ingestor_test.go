package ingestor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftso-community/ccxt-value-provider-go/internal/exchange"
	"github.com/ftso-community/ccxt-value-provider-go/internal/pricetable"
	"github.com/ftso-community/ccxt-value-provider-go/internal/volumering"
)

// fakeAdapter is a minimal, scriptable exchange.Adapter for ingestor tests.
// watchForSymbols/watchPerSymbol/fetch are called with increasing call
// counts so a test can return one batch of trades then block or fail.
type fakeAdapter struct {
	caps exchange.Capabilities

	mu              sync.Mutex
	watchForCalls   int
	watchForSymbols func(call int) ([]exchange.Trade, error)
	watchPerCalls   int
	watchPerSymbol  func(call int) ([]exchange.Trade, error)
	fetchCalls      int
	fetchTrades     func(call int) ([]exchange.Trade, error)
}

func (a *fakeAdapter) ID() string                       { return "fake" }
func (a *fakeAdapter) Capabilities() exchange.Capabilities { return a.caps }
func (a *fakeAdapter) LoadMarkets(ctx context.Context) error { return nil }
func (a *fakeAdapter) Market(symbol string) (exchange.Market, bool) {
	return exchange.Market{ID: symbol, Symbol: symbol}, true
}
func (a *fakeAdapter) Close() error { return nil }

func (a *fakeAdapter) WatchTradesForSymbols(ctx context.Context, symbols []string) ([]exchange.Trade, error) {
	a.mu.Lock()
	call := a.watchForCalls
	a.watchForCalls++
	a.mu.Unlock()
	return a.watchForSymbols(call)
}

func (a *fakeAdapter) WatchTrades(ctx context.Context, symbol string, sinceMs int64) ([]exchange.Trade, error) {
	a.mu.Lock()
	call := a.watchPerCalls
	a.watchPerCalls++
	a.mu.Unlock()
	return a.watchPerSymbol(call)
}

func (a *fakeAdapter) FetchTrades(ctx context.Context, symbol string) ([]exchange.Trade, error) {
	a.mu.Lock()
	call := a.fetchCalls
	a.fetchCalls++
	a.mu.Unlock()
	return a.fetchTrades(call)
}

func (a *fakeAdapter) FetchTicker(ctx context.Context, marketID string) (exchange.Ticker, error) {
	return exchange.Ticker{}, errors.New("not implemented")
}

// blockForever lets a strategy loop's later calls stall so Run can be
// cancelled without spinning the test CPU.
func blockForever(call int) ([]exchange.Trade, error) {
	time.Sleep(time.Hour)
	return nil, nil
}

// TestRun_WatchTradesForSymbols_UpdatesPriceAndVolume exercises the
// multi-symbol-watch strategy: the price table reflects only the batch's
// last trade, but the volume ring sees every trade in the batch.
func TestRun_WatchTradesForSymbols_UpdatesPriceAndVolume(t *testing.T) {
	now := time.Now().UnixMilli()
	adapter := &fakeAdapter{
		caps: exchange.Capabilities{HasWatchForSymbols: true},
		watchForSymbols: func(call int) ([]exchange.Trade, error) {
			if call == 0 {
				// The two trades land two seconds apart so the volume
				// assertion below can distinguish the (included) earlier
				// second from the (excluded) last-trade second.
				return []exchange.Trade{
					{Symbol: "BTC/USD", Price: 100, Amount: 1, TimestampMs: now - 2000},
					{Symbol: "BTC/USD", Price: 101, Amount: 2, TimestampMs: now},
				}, nil
			}
			return blockForever(call)
		},
	}

	pt := pricetable.New()
	vr := volumering.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Run(ctx, adapter, "fake", []string{"BTC/USD"}, pt, vr)

	require.Eventually(t, func() bool {
		_, ok := pt.Get("BTC/USD", "fake")
		return ok
	}, time.Second, time.Millisecond)

	sample, ok := pt.Get("BTC/USD", "fake")
	require.True(t, ok)
	assert.Equal(t, 101.0, sample.Value) // price tracks only the last trade in the batch

	ring, ok := vr.Get("BTC/USD", "fake")
	require.True(t, ok)
	v, err := ring.GetVolume(volumering.HistorySec)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v) // volume folds in every trade in the batch (100*1), the last trade's own second excluded
}

// TestRun_PerSymbolWatch_OneSymbolErrorDoesNotBlockAnother mirrors S6:
// an exchange with multiple per-symbol watchers must not let one stream's
// failure starve another's progress.
func TestRun_PerSymbolWatch_OneSymbolErrorDoesNotBlockAnother(t *testing.T) {
	now := time.Now().UnixMilli()

	// Each symbol gets its own adapter so per-call counters don't interleave;
	// Run spawns one goroutine per symbol regardless of how many distinct
	// adapter instances back a real multi-symbol deployment.
	btcAdapter := &fakeAdapter{
		caps: exchange.Capabilities{HasWatchPerSymbol: true},
		watchPerSymbol: func(call int) ([]exchange.Trade, error) {
			return nil, errors.New("transient failure")
		},
	}
	ethAdapter := &fakeAdapter{
		caps: exchange.Capabilities{HasWatchPerSymbol: true},
		watchPerSymbol: func(call int) ([]exchange.Trade, error) {
			if call == 0 {
				return []exchange.Trade{{Symbol: "ETH/USD", Price: 50, Amount: 1, TimestampMs: now}}, nil
			}
			return blockForever(call)
		},
	}

	pt := pricetable.New()
	vr := volumering.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watchTradesForSymbol(ctx, btcAdapter, "fake", "BTC/USD", pt, vr)
	go watchTradesForSymbol(ctx, ethAdapter, "fake", "ETH/USD", pt, vr)

	require.Eventually(t, func() bool {
		_, ok := pt.Get("ETH/USD", "fake")
		return ok
	}, time.Second, time.Millisecond)

	_, ok := pt.Get("BTC/USD", "fake")
	assert.False(t, ok, "a persistently erroring symbol must not produce a price")

	sample, ok := pt.Get("ETH/USD", "fake")
	require.True(t, ok)
	assert.Equal(t, 50.0, sample.Value)
}

// TestRun_Fetch_UsedWhenNoWatchCapability exercises the polled-fetch
// strategy fallback.
func TestRun_Fetch_UsedWhenNoWatchCapability(t *testing.T) {
	now := time.Now().UnixMilli()
	adapter := &fakeAdapter{
		caps: exchange.Capabilities{},
		fetchTrades: func(call int) ([]exchange.Trade, error) {
			return []exchange.Trade{{Symbol: "XRP/USD", Price: 2, Amount: 1, TimestampMs: now}}, nil
		},
	}

	pt := pricetable.New()
	vr := volumering.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Run(ctx, adapter, "fake", []string{"XRP/USD"}, pt, vr)

	require.Eventually(t, func() bool {
		_, ok := pt.Get("XRP/USD", "fake")
		return ok
	}, time.Second, time.Millisecond)

	sample, _ := pt.Get("XRP/USD", "fake")
	assert.Equal(t, 2.0, sample.Value)
}
