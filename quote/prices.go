package quote

import (
	"context"
	"strings"
	"time"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
)

// DefaultPriceTTL is how long a price is reused before asking the source again.
const DefaultPriceTTL = 30 * time.Second

type priceKey struct {
	symbol string
	on     date.Date
}

// CachedPrices is a networth.PriceSource that remembers the prices returned by
// another source. Failed lookups are not remembered.
type CachedPrices struct {
	src   networth.PriceSource
	cache *Cache[priceKey, float64]
}

// NewCachedPrices wraps src. A ttl <= 0 uses DefaultPriceTTL, a nil now uses time.Now.
func NewCachedPrices(src networth.PriceSource, ttl time.Duration, now func() time.Time) *CachedPrices {
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	return &CachedPrices{src: src, cache: NewCache[priceKey, float64](ttl, now)}
}

// Price implements networth.PriceSource.
func (c *CachedPrices) Price(ctx context.Context, symbol string, on date.Date) (float64, error) {
	key := priceKey{strings.ToUpper(symbol), on}
	if p, ok := c.cache.Get(key); ok {
		return p, nil
	}
	p, err := c.src.Price(ctx, symbol, on)
	if err != nil {
		return 0, err
	}
	c.cache.Put(key, p)
	return p, nil
}
