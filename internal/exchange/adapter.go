// Package exchange provides the capability-typed abstraction over a single
// cryptocurrency exchange: market metadata, trade streaming, and REST
// ticker/trade fetches.
package exchange

import "context"

// Trade is one executed trade reported by an exchange.
type Trade struct {
	Symbol      string
	Price       float64
	Amount      float64
	TimestampMs int64
}

// Ticker is a snapshot last-price quote used for cold-start backfill.
type Ticker struct {
	Symbol      string
	Last        float64
	HasLast     bool
	TimestampMs int64
}

// Market is one symbol's metadata as reported by the exchange.
type Market struct {
	ID     string
	Symbol string
}

// Capabilities describes what trade-ingestion strategies an exchange
// supports. These are catalog data, not hardcoded per spec.md §9 — the
// bybit multi-symbol-watch exclusion is expressed by setting
// ExcludeMultiSymbolWatch on that exchange's capability entry rather than
// special-casing the exchange id in code.
type Capabilities struct {
	HasWatchForSymbols      bool
	HasWatchPerSymbol       bool
	ExcludeMultiSymbolWatch bool
}

// Adapter is the capability-typed handle over a single exchange.
type Adapter interface {
	// ID is the exchange identifier, e.g. "binance".
	ID() string

	// Capabilities reports which ingestion strategies this adapter supports.
	Capabilities() Capabilities

	// LoadMarkets populates the adapter's market catalog. Called with
	// bounded retry at startup.
	LoadMarkets(ctx context.Context) error

	// Market looks up a previously-loaded market by exchange-native symbol.
	Market(symbol string) (Market, bool)

	// WatchTradesForSymbols returns the trades currently available across the
	// given symbols without waiting for new ones; the result may be empty.
	// The streaming adapter returns the trades buffered since the previous
	// call; the REST adapter returns the latest fetched trades, which can
	// repeat trades already returned.
	WatchTradesForSymbols(ctx context.Context, symbols []string) ([]Trade, error)

	// WatchTrades returns the currently available trades for symbol with
	// timestamp greater than or equal to sinceMs, without waiting for new
	// ones; the result may be empty.
	WatchTrades(ctx context.Context, symbol string, sinceMs int64) ([]Trade, error)

	// FetchTrades performs a one-shot REST fetch of recent trades for symbol.
	FetchTrades(ctx context.Context, symbol string) ([]Trade, error)

	// FetchTicker performs a one-shot REST fetch of the latest ticker for a
	// market id (as reported by LoadMarkets).
	FetchTicker(ctx context.Context, marketID string) (Ticker, error)

	// Close releases any open connections.
	Close() error
}
