package exchange

// streamDecoders maps an exchange id to its websocket trade decoder, for
// the exchanges this deployment streams rather than polls.
var streamDecoders = map[string]func([]byte) []Trade{
	"binance": DecodeBinanceStream,
	"coinbase": DecodeCoinbaseStream,
	"mexc":      DecodeMEXCStream,
}

// New builds the Adapter for a catalog entry: a streaming wsAdapter if the
// entry has both a WSURL and a registered decoder, otherwise a
// REST-polling httpAdapter.
func New(entry CatalogEntry, maxRetries int) Adapter {
	if entry.WSURL != "" {
		if decode, ok := streamDecoders[entry.ID]; ok {
			return NewWSAdapter(entry, maxRetries, decode)
		}
	}
	return NewHTTPAdapter(entry, maxRetries)
}
