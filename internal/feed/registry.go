package feed

import (
	"encoding/json"
	"fmt"
	"os"
)

// Registry is the immutable, once-loaded mapping of FeedId to FeedConfig.
type Registry struct {
	byKey map[string]Config
	order []ID
}

// LoadRegistry reads the catalog JSON file at path and builds a Registry.
// It fails fast if the file is missing, malformed, or lacks a USDT/USD entry.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feed catalog %s: %w", path, err)
	}

	var configs []Config
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("parsing feed catalog %s: %w", path, err)
	}

	reg := &Registry{byKey: make(map[string]Config, len(configs))}
	hasUSDT := false
	for _, cfg := range configs {
		if len(cfg.Sources) == 0 {
			return nil, fmt.Errorf("feed %s has no sources", cfg.Feed)
		}
		reg.byKey[cfg.Feed.Key()] = cfg
		reg.order = append(reg.order, cfg.Feed)
		if cfg.Feed.Equal(USDTUSD) {
			hasUSDT = true
		}
	}

	if !hasUSDT {
		return nil, fmt.Errorf("feed catalog %s is missing the required %s entry", path, USDTUSD)
	}

	return reg, nil
}

// Get looks up a feed's config by id.
func (r *Registry) Get(id ID) (Config, bool) {
	cfg, ok := r.byKey[id.Key()]
	return cfg, ok
}

// Feeds returns every configured feed id, catalog order.
func (r *Registry) Feeds() []ID {
	out := make([]ID, len(r.order))
	copy(out, r.order)
	return out
}

// ExchangeSymbols merges every source across the catalog into
// exchange -> set of exchange-native symbols it must track.
func (r *Registry) ExchangeSymbols() map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	for _, cfg := range r.byKey {
		for _, src := range cfg.Sources {
			symbols, ok := out[src.Exchange]
			if !ok {
				symbols = make(map[string]struct{})
				out[src.Exchange] = symbols
			}
			symbols[src.Symbol] = struct{}{}
		}
	}
	return out
}
