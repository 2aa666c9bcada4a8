package exchange

// EndpointSet holds the REST endpoint templates for one exchange. %s is
// replaced with the exchange-native market symbol/id.
type EndpointSet struct {
	TradesURL string // trades for a symbol, e.g. "https://api.binance.com/api/v3/trades?symbol=%s&limit=50"
	TickerURL string // last-price ticker for a symbol
	MarketsURL string // static markets/instruments listing, no %s
}

// CatalogEntry is the static, built-in description of one supported
// exchange: its capabilities, REST endpoints and response shapes. The
// engine never special-cases an exchange id in ingestion logic; every
// exchange-specific difference lives here.
type CatalogEntry struct {
	ID           string
	Capabilities Capabilities
	Endpoints    EndpointSet
	TradeShape   ResponseShape
	TickerShape  ResponseShape
	WSURL        string
}

// BuiltinCatalog is the set of exchanges this deployment knows how to talk
// to. Additional exchanges can be added here without touching ingestion or
// aggregation code.
var BuiltinCatalog = map[string]CatalogEntry{
	"binance": {
		ID: "binance",
		Capabilities: Capabilities{
			HasWatchForSymbols: true,
			HasWatchPerSymbol:  true,
		},
		Endpoints: EndpointSet{
			TradesURL:  "https://api.binance.com/api/v3/trades?symbol=%s&limit=50",
			TickerURL:  "https://api.binance.com/api/v3/ticker/price?symbol=%s",
			MarketsURL: "https://api.binance.com/api/v3/exchangeInfo",
		},
		TradeShape: ResponseShape{
			PricePath:     "price",
			AmountPath:    "qty",
			TimestampPath: "time",
			TimestampUnit: TimestampMillis,
		},
		TickerShape: ResponseShape{TickerLastPath: "price"},
		WSURL:       "wss://stream.binance.com:9443/stream",
	},
	"bybit": {
		ID: "bybit",
		Capabilities: Capabilities{
			HasWatchForSymbols:      false,
			HasWatchPerSymbol:       true,
			ExcludeMultiSymbolWatch: true,
		},
		Endpoints: EndpointSet{
			TradesURL:  "https://api.bybit.com/v5/market/recent-trade?category=spot&symbol=%s&limit=50",
			TickerURL:  "https://api.bybit.com/v5/market/tickers?category=spot&symbol=%s",
			MarketsURL: "https://api.bybit.com/v5/market/instruments-info?category=spot",
		},
		TradeShape: ResponseShape{
			TradesResultsPath: "result.list",
			PricePath:         "price",
			AmountPath:        "size",
			TimestampPath:     "time",
			TimestampUnit:     TimestampMillis,
		},
		TickerShape: ResponseShape{
			TickerResultsPath: "result.list",
			TickerLastPath:    "lastPrice",
		},
		WSURL: "wss://stream.bybit.com/v5/public/spot",
	},
	"coinbase": {
		ID: "coinbase",
		Capabilities: Capabilities{
			HasWatchForSymbols: true,
		},
		Endpoints: EndpointSet{
			TradesURL:  "https://api.exchange.coinbase.com/products/%s/trades?limit=50",
			TickerURL:  "https://api.exchange.coinbase.com/products/%s/ticker",
			MarketsURL: "https://api.exchange.coinbase.com/products",
		},
		TradeShape: ResponseShape{
			PricePath:     "price",
			AmountPath:    "size",
			TimestampPath: "time",
			TimestampUnit: TimestampMillis,
		},
		TickerShape: ResponseShape{TickerLastPath: "price"},
		WSURL:       "wss://ws-feed.exchange.coinbase.com",
	},
	"cryptocom": {
		ID: "cryptocom",
		Capabilities: Capabilities{
			HasWatchPerSymbol: true,
		},
		Endpoints: EndpointSet{
			TradesURL:  "https://api.crypto.com/v2/public/get-trades?instrument_name=%s",
			TickerURL:  "https://api.crypto.com/v2/public/get-ticker?instrument_name=%s",
			MarketsURL: "https://api.crypto.com/v2/public/get-instruments",
		},
		TradeShape: ResponseShape{
			TradesResultsPath: "result.data",
			PricePath:         "p",
			AmountPath:        "q",
			TimestampPath:     "t",
			TimestampUnit:     TimestampMillis,
		},
		TickerShape: ResponseShape{
			TickerResultsPath: "result.data",
			TickerLastPath:    "a",
		},
	},
	"xt": {
		ID: "xt",
		Capabilities: Capabilities{
			HasWatchPerSymbol: true,
		},
		Endpoints: EndpointSet{
			TradesURL:  "https://sapi.xt.com/v4/public/trade/recent?symbol=%s",
			TickerURL:  "https://sapi.xt.com/v4/public/ticker/price?symbol=%s",
			MarketsURL: "https://sapi.xt.com/v4/public/symbol",
		},
		TradeShape: ResponseShape{
			TradesResultsPath: "result",
			PricePath:         "p",
			AmountPath:        "a",
			TimestampPath:     "t",
			TimestampUnit:     TimestampMillis,
		},
		TickerShape: ResponseShape{
			TickerResultsPath: "result.0",
			TickerLastPath:    "p",
		},
	},
	"gate": {
		ID: "gate",
		Capabilities: Capabilities{
			HasWatchPerSymbol: true,
		},
		Endpoints: EndpointSet{
			TradesURL:  "https://api.gateio.ws/api/v4/spot/trades?currency_pair=%s&limit=50",
			TickerURL:  "https://api.gateio.ws/api/v4/spot/tickers?currency_pair=%s",
			MarketsURL: "https://api.gateio.ws/api/v4/spot/currency_pairs",
		},
		TradeShape: ResponseShape{
			PricePath:     "price",
			AmountPath:    "amount",
			TimestampPath: "create_time",
			TimestampUnit: TimestampSeconds,
		},
		TickerShape: ResponseShape{
			TickerResultsPath: "0",
			TickerLastPath:    "last",
		},
	},
	"mexc": {
		ID: "mexc",
		Capabilities: Capabilities{
			HasWatchForSymbols: true,
		},
		Endpoints: EndpointSet{
			TradesURL:  "https://api.mexc.com/api/v3/trades?symbol=%s&limit=50",
			TickerURL:  "https://api.mexc.com/api/v3/ticker/price?symbol=%s",
			MarketsURL: "https://api.mexc.com/api/v3/exchangeInfo",
		},
		TradeShape: ResponseShape{
			PricePath:     "price",
			AmountPath:    "qty",
			TimestampPath: "time",
			TimestampUnit: TimestampMillis,
		},
		TickerShape: ResponseShape{TickerLastPath: "price"},
		WSURL:       "wss://wbs.mexc.com/ws",
	},
	"kraken": {
		ID: "kraken",
		Capabilities: Capabilities{
			HasWatchPerSymbol: true,
		},
		Endpoints: EndpointSet{
			TradesURL:  "https://api.kraken.com/0/public/Trades?pair=%s",
			TickerURL:  "https://api.kraken.com/0/public/Ticker?pair=%s",
			MarketsURL: "https://api.kraken.com/0/public/AssetPairs",
		},
		// Kraken nests trades under result.<pair-name>, an object keyed by
		// the exchange's own (sometimes renamed) pair id rather than the
		// requested symbol. "result.@values.0" takes the first value of
		// that object in JSON key order, which is the pair's trade array
		// (the "last" cursor field Kraken also returns sorts after it).
		TradeShape: ResponseShape{
			TradesResultsPath: "result.@values.0",
			PricePath:         "0",
			AmountPath:        "1",
			TimestampPath:     "2",
			TimestampUnit:     TimestampSeconds,
		},
		TickerShape: ResponseShape{TickerLastPath: "c.0"},
	},
	"gemini": {
		ID: "gemini",
		Capabilities: Capabilities{
			HasWatchPerSymbol: true,
		},
		Endpoints: EndpointSet{
			TradesURL:  "https://api.gemini.com/v1/trades/%s?limit_trades=50",
			TickerURL:  "https://api.gemini.com/v1/pubticker/%s",
			MarketsURL: "https://api.gemini.com/v1/symbols",
		},
		TradeShape: ResponseShape{
			PricePath:     "price",
			AmountPath:    "amount",
			TimestampPath: "timestampms",
			TimestampUnit: TimestampMillis,
		},
		TickerShape: ResponseShape{TickerLastPath: "last"},
	},
}
