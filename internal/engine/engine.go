// Package engine owns the process-wide aggregation state and drives its
// lifecycle: catalog load, exchange adapter construction, bounded-retry
// market loading, and ingestor startup.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/ftso-community/ccxt-value-provider-go/internal/aggregator"
	"github.com/ftso-community/ccxt-value-provider-go/internal/config"
	"github.com/ftso-community/ccxt-value-provider-go/internal/exchange"
	"github.com/ftso-community/ccxt-value-provider-go/internal/feed"
	"github.com/ftso-community/ccxt-value-provider-go/internal/ingestor"
	"github.com/ftso-community/ccxt-value-provider-go/internal/logger"
	"github.com/ftso-community/ccxt-value-provider-go/internal/metrics"
	"github.com/ftso-community/ccxt-value-provider-go/internal/pricetable"
	"github.com/ftso-community/ccxt-value-provider-go/internal/volumering"
)

const loadMarketsMaxRetries = 2

// Engine is the live, multi-exchange value provider. It implements the
// same DataFeed surface as the fixed/random stub feeds so main can select
// among them by configuration alone.
type Engine struct {
	cfg      *config.Config
	registry *feed.Registry
	prices   *pricetable.Table
	volumes  *volumering.Registry
	agg      *aggregator.Aggregator

	sysMetrics *metrics.SystemMetricsCollector

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs an Engine from cfg without starting it. Call Start to load
// the catalog and begin ingestion.
func New(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Start loads the feed catalog, instantiates an adapter per exchange the
// catalog references, loads markets with bounded retry (dropping exchanges
// that fail), and spawns one ingestor per surviving exchange. It returns an
// error only for fatal catalog problems; individual exchange failures are
// logged and excluded rather than propagated.
func (e *Engine) Start(ctx context.Context) error {
	catalogPath := filepath.Join(e.cfg.FeedCatalogDir, e.cfg.CatalogFilename())
	registry, err := feed.LoadRegistry(catalogPath)
	if err != nil {
		return fmt.Errorf("loading feed catalog: %w", err)
	}
	e.registry = registry

	exchangeToSymbols := registry.ExchangeSymbols()
	names := make([]string, 0, len(exchangeToSymbols))
	for name := range exchangeToSymbols {
		names = append(names, name)
	}
	logger.Info("connecting to exchanges", "exchanges", names)
	logger.Info("initializing exchanges", "trade_limit", e.cfg.TradesHistorySize)

	adapters := make(map[string]exchange.Adapter, len(exchangeToSymbols))
	for name := range exchangeToSymbols {
		entry, ok := exchange.BuiltinCatalog[name]
		if !ok {
			logger.Warn("exchange not in built-in catalog, ignoring", "exchange", name)
			delete(exchangeToSymbols, name)
			continue
		}
		adapters[name] = exchange.New(entry, loadMarketsMaxRetries)
	}

	e.loadMarketsConcurrently(ctx, adapters, exchangeToSymbols)

	e.prices = pricetable.New()
	e.volumes = volumering.NewRegistry()
	e.agg = aggregator.New(e.registry, e.prices, e.volumes, adapters, e.cfg.MedianDecay)

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	for name, symbolSet := range exchangeToSymbols {
		symbols := make([]string, 0, len(symbolSet))
		for s := range symbolSet {
			symbols = append(symbols, s)
		}
		adapter := adapters[name]
		metrics.ExchangeAdaptersActive.Inc()

		e.wg.Add(1)
		go func(name string, adapter exchange.Adapter, symbols []string) {
			defer e.wg.Done()
			ingestor.Run(runCtx, adapter, name, symbols, e.prices, e.volumes)
		}(name, adapter, symbols)
	}

	e.sysMetrics = metrics.NewSystemMetricsCollector()
	e.sysMetrics.Start()

	logger.Info("initialization done, watching trades")
	return nil
}

// loadMarketsConcurrently calls LoadMarkets on every adapter concurrently
// with bounded retry, removing from exchangeToSymbols any exchange whose
// markets fail to load.
func (e *Engine) loadMarketsConcurrently(ctx context.Context, adapters map[string]exchange.Adapter, exchangeToSymbols map[string]map[string]struct{}) {
	type result struct {
		name string
		err  error
	}
	results := make(chan result, len(adapters))

	var wg sync.WaitGroup
	for name, adapter := range adapters {
		wg.Add(1)
		go func(name string, adapter exchange.Adapter) {
			defer wg.Done()
			err := loadMarketsWithRetry(ctx, adapter, loadMarketsMaxRetries)
			results <- result{name: name, err: err}
		}(name, adapter)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.err != nil {
			logger.Warn("failed to load markets, dropping exchange", "exchange", res.name, "error", res.err)
			delete(exchangeToSymbols, res.name)
			delete(adapters, res.name)
			continue
		}
		logger.Info("exchange initialized successfully", "exchange", res.name)
	}
}

func loadMarketsWithRetry(ctx context.Context, adapter exchange.Adapter, maxRetries int) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := adapter.LoadMarkets(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if attempt < maxRetries {
			time.Sleep(10 * time.Second)
		}
	}
	return lastErr
}

// Stop cancels all ingestor goroutines and waits for them to exit.
func (e *Engine) Stop() {
	if e.sysMetrics != nil {
		e.sysMetrics.Stop()
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
}

// GetValue satisfies datafeed.Feed.
func (e *Engine) GetValue(ctx context.Context, id feed.ID) (*float64, error) {
	v, ok := e.agg.GetValue(ctx, id)
	if !ok {
		return nil, nil
	}
	return &v, nil
}

// GetValues satisfies datafeed.Feed.
func (e *Engine) GetValues(ctx context.Context, ids []feed.ID) ([]feed.Value, error) {
	return e.agg.GetValues(ctx, ids), nil
}

// GetVolumes satisfies datafeed.Feed.
func (e *Engine) GetVolumes(ctx context.Context, ids []feed.ID, windowSec int) ([]feed.VolumeData, error) {
	return e.agg.GetVolumes(ctx, ids, windowSec)
}
