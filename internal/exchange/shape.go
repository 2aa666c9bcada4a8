package exchange

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// ResponseShape describes where to find the fields this engine needs inside
// one exchange's REST JSON responses, as gjson path expressions. A single
// data-driven descriptor per exchange replaces a hand-written response
// struct per exchange; most exchanges differ only in path shape, not in
// the fields themselves.
//
// TradesResultsPath points at the array of individual trades
// returned by the recent-trades endpoint. Within each trade element,
// PricePath/AmountPath/TimestampPath locate the fields, relative to that
// element. TimestampUnit says whether TimestampPath yields milliseconds or
// seconds.
//
// TickerLastPath locates the last-trade price inside the ticker endpoint's
// response, relative to the response root (after TickerResultsPath, if set,
// is applied first — used by exchanges such as Bybit, which wraps the
// ticker in a nested "result" object, and Gate, which returns a top-level
// array; when the path yields an array its first element is used).
type ResponseShape struct {
	TradesResultsPath string // "" means the response root is already the array
	PricePath         string
	AmountPath        string
	TimestampPath     string
	TimestampUnit     TimestampUnit

	TickerResultsPath string // "" means the response root holds the ticker fields
	TickerLastPath    string
}

// TimestampUnit is the unit a ResponseShape's TimestampPath is expressed in.
type TimestampUnit int

const (
	TimestampMillis TimestampUnit = iota
	TimestampSeconds
)

// ParseTrades extracts trades from a raw REST response body using shape.
func ParseTrades(shape ResponseShape, symbol string, body []byte) []Trade {
	root := gjson.ParseBytes(body)
	arr := root
	if shape.TradesResultsPath != "" {
		arr = root.Get(shape.TradesResultsPath)
	}
	if !arr.IsArray() {
		return nil
	}

	var trades []Trade
	arr.ForEach(func(_, el gjson.Result) bool {
		price := numberAt(el, shape.PricePath)
		amount := numberAt(el, shape.AmountPath)
		if price <= 0 || amount <= 0 {
			return true
		}
		ts := numberAt(el, shape.TimestampPath)
		tsMs := int64(ts)
		if shape.TimestampUnit == TimestampSeconds {
			tsMs *= 1000
		}
		trades = append(trades, Trade{
			Symbol:      symbol,
			Price:       price,
			Amount:      amount,
			TimestampMs: tsMs,
		})
		return true
	})
	return trades
}

// ParseTicker extracts the last-trade price from a raw REST ticker response
// using shape. ok is false if the last-price field was absent or unparsable.
func ParseTicker(shape ResponseShape, symbol string, body []byte) (Ticker, bool) {
	root := gjson.ParseBytes(body)
	base := root
	if shape.TickerResultsPath != "" {
		base = root.Get(shape.TickerResultsPath)
		if base.IsArray() && len(base.Array()) > 0 {
			base = base.Array()[0]
		}
	}
	last := numberAt(base, shape.TickerLastPath)
	if last <= 0 {
		return Ticker{}, false
	}
	return Ticker{Symbol: symbol, Last: last, HasLast: true}, true
}

// numberAt reads a numeric field at path, tolerating exchanges (Binance,
// Bybit, Coinbase, Kraken among them) that quote numbers as JSON strings.
func numberAt(root gjson.Result, path string) float64 {
	if path == "" {
		return 0
	}
	v := root.Get(path)
	switch v.Type {
	case gjson.Number:
		return v.Num
	case gjson.String:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
