package volumering

import "sync"

// Registry owns one Ring per (symbol, exchange) pair, created lazily the
// first time an ingestor processes a trade for that pair.
type Registry struct {
	mu  sync.RWMutex
	rows map[string]map[string]*Ring
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rows: make(map[string]map[string]*Ring)}
}

// GetOrCreate returns the Ring for (symbol, exchange), creating it on first
// use.
func (r *Registry) GetOrCreate(symbol, exchange string) *Ring {
	r.mu.Lock()
	defer r.mu.Unlock()
	byExchange, ok := r.rows[symbol]
	if !ok {
		byExchange = make(map[string]*Ring)
		r.rows[symbol] = byExchange
	}
	ring, ok := byExchange[exchange]
	if !ok {
		ring = New()
		byExchange[exchange] = ring
	}
	return ring
}

// Get returns the Ring for (symbol, exchange) if it has been created.
func (r *Registry) Get(symbol, exchange string) (*Ring, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byExchange, ok := r.rows[symbol]
	if !ok {
		return nil, false
	}
	ring, ok := byExchange[exchange]
	return ring, ok
}

// ExchangesFor returns the exchanges that have recorded volume for symbol.
func (r *Registry) ExchangesFor(symbol string) map[string]*Ring {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*Ring, len(r.rows[symbol]))
	for exchange, ring := range r.rows[symbol] {
		out[exchange] = ring
	}
	return out
}
