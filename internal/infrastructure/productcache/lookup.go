// Package productcache keeps recently fetched products in a bounded,
// expiring in-memory cache in front of a ports.ProductLookup.
package productcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/ports"
)

// Lookup decorates another lookup with an LRU cache. Only successful lookups
// are cached, so unknown barcodes are retried on the next scan.
type Lookup struct {
	next    ports.ProductLookup
	cache   *expirable.LRU[string, domain.Product]
	metrics ports.Metrics
}

// New wraps next. A size <= 0 disables caching and returns next unchanged.
func New(next ports.ProductLookup, size int, ttl time.Duration, metrics ports.Metrics) ports.ProductLookup {
	if size <= 0 {
		return next
	}
	return &Lookup{
		next:    next,
		cache:   expirable.NewLRU[string, domain.Product](size, nil, ttl),
		metrics: metrics,
	}
}

// Lookup implements ports.ProductLookup.
func (l *Lookup) Lookup(ctx context.Context, code string) (domain.Product, error) {
	if product, ok := l.cache.Get(code); ok {
		l.observe(true)
		return product, nil
	}
	l.observe(false)

	product, err := l.next.Lookup(ctx, code)
	if err != nil {
		return domain.Product{}, err
	}
	l.cache.Add(code, product)
	return product, nil
}

// Len reports the number of cached products.
func (l *Lookup) Len() int {
	return l.cache.Len()
}

// Purge drops every cached product.
func (l *Lookup) Purge() {
	l.cache.Purge()
}

func (l *Lookup) observe(hit bool) {
	if l.metrics != nil {
		l.metrics.CacheResult(hit)
	}
}

var _ ports.ProductLookup = (*Lookup)(nil)
