package pricing

import (
	"context"
	"sync"

	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

// Memo caches successful lookups of an underlying Catalog. A Memo is meant
// to live for exactly one calculation: prices are not assumed to be stable
// beyond that. Failed lookups are not cached.
type Memo struct {
	next Catalog

	mu     sync.Mutex
	prices map[string]float64
	hits   int
	misses int
}

// NewMemo wraps next.
func NewMemo(next Catalog) *Memo {
	return &Memo{
		next:   next,
		prices: make(map[string]float64),
	}
}

// UnitPrice implements Catalog.
func (m *Memo) UnitPrice(
	ctx context.Context,
	class storageclass.StorageClass,
	op storageclass.Operation,
	region string,
) (float64, error) {
	key := "class/" + string(class) + "/" + string(op) + "/" + region
	return m.get(key, func() (float64, error) {
		return m.next.UnitPrice(ctx, class, op, region)
	})
}

// TierPrice implements Catalog.
func (m *Memo) TierPrice(ctx context.Context, tier storageclass.AccessTier, region string) (float64, error) {
	key := "tier/" + string(tier) + "/" + region
	return m.get(key, func() (float64, error) {
		return m.next.TierPrice(ctx, tier, region)
	})
}

// Stats returns the number of lookups answered from the memo and the number
// forwarded to the underlying catalog.
func (m *Memo) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

func (m *Memo) get(key string, fetch func() (float64, error)) (float64, error) {
	m.mu.Lock()
	if price, ok := m.prices[key]; ok {
		m.hits++
		m.mu.Unlock()
		return price, nil
	}
	m.misses++
	m.mu.Unlock()

	price, err := fetch()
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	m.prices[key] = price
	m.mu.Unlock()
	return price, nil
}
