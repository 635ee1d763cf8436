// Package geo annotates an IP with its city and network operator.
package geo

import (
	"context"
	"regexp"

	"github.com/gagliardetto/solana-latency/internal/config"
	"github.com/gagliardetto/solana-latency/internal/models"
)

// Location is always well formed: unresolved fields hold models.Unknown.
type Location struct {
	City     string
	Operator string
}

func UnknownLocation() Location {
	return Location{City: models.Unknown, Operator: models.Unknown}
}

// Resolver never fails; lookups that go wrong return UnknownLocation().
type Resolver interface {
	Resolve(ctx context.Context, ip string) Location
}

var asnPattern = regexp.MustCompile(`^\s*(?i:AS)?(\d+)`)

// ParseASN turns an "as" field such as "AS15169 Google LLC" into "AS15169".
func ParseASN(as string) string {
	m := asnPattern.FindStringSubmatch(as)
	if m == nil {
		return models.Unknown
	}

	return "AS" + m[1]
}

// New builds the resolver selected by cfg.Provider, memoized per IP.
func New(cfg config.GeoConfig) (Resolver, error) {
	var next Resolver
	switch cfg.Provider {
	case config.GeoProviderCymru:
		cymru, err := NewCymru()
		if err != nil {
			return nil, err
		}
		next = cymru
	default:
		next = NewIPAPI(cfg)
	}
	if cfg.CacheTTL <= 0 {
		return next, nil
	}

	return NewCached("geo/"+cfg.Provider, next, cfg.CacheTTL), nil
}
