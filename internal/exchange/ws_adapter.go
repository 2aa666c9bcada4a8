package exchange

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ftso-community/ccxt-value-provider-go/internal/logger"
)

// wsAdapter streams trades over a persistent websocket connection,
// buffering decoded trades per symbol until a watch call drains them.
// It embeds httpAdapter for LoadMarkets/FetchTrades/FetchTicker, which
// remain REST-backed even for streaming exchanges (used for market
// validation and lazy backfill).
type wsAdapter struct {
	*httpAdapter
	url    string
	decode func(raw []byte) []Trade

	mu      sync.Mutex
	conn    *websocket.Conn
	buf     map[string][]Trade
	connErr error
}

// NewWSAdapter builds a streaming Adapter for the given catalog entry.
// decode turns one raw websocket message into zero or more trades; the
// shape of exchange stream payloads varies too much for a single
// ResponseShape descriptor, so each streaming exchange supplies its own
// decode function built on gjson (see DecodeBinanceStream et al.).
func NewWSAdapter(entry CatalogEntry, maxRetries int, decode func([]byte) []Trade) Adapter {
	return &wsAdapter{
		httpAdapter: NewHTTPAdapter(entry, maxRetries).(*httpAdapter),
		url:         entry.WSURL,
		decode:      decode,
		buf:         make(map[string][]Trade),
	}
}

func (a *wsAdapter) Capabilities() Capabilities {
	caps := a.httpAdapter.Capabilities()
	caps.HasWatchForSymbols = caps.HasWatchForSymbols || true
	caps.HasWatchPerSymbol = caps.HasWatchPerSymbol || true
	return caps
}

func (a *wsAdapter) connect(ctx context.Context) error {
	a.mu.Lock()
	if a.conn != nil {
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second
	conn, _, err := dialer.DialContext(ctx, a.url, nil)
	if err != nil {
		return err
	}
	conn.SetReadLimit(1 << 20)

	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()

	go a.readLoop(conn)
	return nil
}

func (a *wsAdapter) readLoop(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Warn("websocket read error, dropping connection", "exchange", a.ID(), "error", err)
			a.mu.Lock()
			if a.conn == conn {
				a.conn = nil
				a.connErr = err
			}
			a.mu.Unlock()
			return
		}
		trades := a.decode(msg)
		if len(trades) == 0 {
			continue
		}
		a.mu.Lock()
		for _, t := range trades {
			a.buf[t.Symbol] = append(a.buf[t.Symbol], t)
		}
		a.mu.Unlock()
	}
}

func (a *wsAdapter) WatchTradesForSymbols(ctx context.Context, symbols []string) ([]Trade, error) {
	if err := a.connect(ctx); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Trade
	for _, s := range symbols {
		if t, ok := a.buf[s]; ok && len(t) > 0 {
			out = append(out, t...)
			delete(a.buf, s)
		}
	}
	return out, nil
}

func (a *wsAdapter) WatchTrades(ctx context.Context, symbol string, sinceMs int64) ([]Trade, error) {
	if err := a.connect(ctx); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.buf[symbol]
	if !ok || len(t) == 0 {
		return nil, nil
	}
	var fresh []Trade
	for _, tr := range t {
		if tr.TimestampMs >= sinceMs {
			fresh = append(fresh, tr)
		}
	}
	delete(a.buf, symbol)
	return fresh, nil
}

func (a *wsAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn != nil {
		err := a.conn.Close()
		a.conn = nil
		return err
	}
	return nil
}
