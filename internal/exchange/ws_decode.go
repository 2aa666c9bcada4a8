package exchange

import (
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DecodeBinanceStream decodes one message from Binance's combined-stream
// websocket ("wss://stream.binance.com:9443/stream"), which wraps each
// trade event in a {"stream":..., "data":{...}} envelope.
func DecodeBinanceStream(raw []byte) []Trade {
	root := gjson.ParseBytes(raw)
	data := root.Get("data")
	if !data.Exists() {
		data = root
	}
	if data.Get("e").String() != "trade" {
		return nil
	}
	price := parseNumeric(data.Get("p"))
	qty := parseNumeric(data.Get("q"))
	if price <= 0 || qty <= 0 {
		return nil
	}
	return []Trade{{
		Symbol:      strings.ToUpper(data.Get("s").String()),
		Price:       price,
		Amount:      qty,
		TimestampMs: data.Get("T").Int(),
	}}
}

// DecodeCoinbaseStream decodes one "match" message from Coinbase's full
// websocket feed.
func DecodeCoinbaseStream(raw []byte) []Trade {
	root := gjson.ParseBytes(raw)
	if t := root.Get("type").String(); t != "match" && t != "last_match" {
		return nil
	}
	price := parseNumeric(root.Get("price"))
	size := parseNumeric(root.Get("size"))
	if price <= 0 || size <= 0 {
		return nil
	}
	return []Trade{{
		Symbol:      root.Get("product_id").String(),
		Price:       price,
		Amount:      size,
		TimestampMs: parseRFC3339Millis(root.Get("time").String()),
	}}
}

// DecodeMEXCStream decodes MEXC's protobuf-free JSON trade push message.
func DecodeMEXCStream(raw []byte) []Trade {
	root := gjson.ParseBytes(raw)
	deals := root.Get("d.deals")
	if !deals.IsArray() {
		return nil
	}
	symbol := root.Get("s").String()
	var trades []Trade
	deals.ForEach(func(_, el gjson.Result) bool {
		price := parseNumeric(el.Get("p"))
		qty := parseNumeric(el.Get("v"))
		if price <= 0 || qty <= 0 {
			return true
		}
		trades = append(trades, Trade{
			Symbol:      symbol,
			Price:       price,
			Amount:      qty,
			TimestampMs: el.Get("t").Int(),
		})
		return true
	})
	return trades
}

func parseNumeric(v gjson.Result) float64 {
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

func parseRFC3339Millis(s string) int64 {
	if s == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
