package fitness

import (
	"strconv"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/parcelopt/parcelopt/pkg/subdivision/layout"
)

// CachedFinancial wraps a financial oracle with a genome-keyed score cache.
// Decoding is pure, so a genome hash fully determines the layout and the
// score; hits are valid across generations and across runs against the
// same scenario. This is the synchronous adapter that absorbs oracles
// backed by network I/O.
type CachedFinancial struct {
	Oracle FinancialOracle
	store  *gocache.Cache

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedFinancial builds the adapter. Entries never expire during a
// run; the janitor sweeps at twice the TTL.
func NewCachedFinancial(oracle FinancialOracle, ttl time.Duration) *CachedFinancial {
	return &CachedFinancial{
		Oracle: oracle,
		store:  gocache.New(ttl, 2*ttl),
	}
}

// ScoreKeyed returns the cached score for the genome key or consults the
// wrapped oracle. Errors are not cached: a transient oracle failure should
// not poison the key for the rest of the run.
func (c *CachedFinancial) ScoreKeyed(key uint64, l *layout.Layout) (FinancialScore, error) {
	k := strconv.FormatUint(key, 16)
	if v, ok := c.store.Get(k); ok {
		c.hits.Add(1)
		return v.(FinancialScore), nil
	}
	score, err := c.Oracle.Score(l)
	if err != nil {
		return FinancialScore{}, err
	}
	c.misses.Add(1)
	c.store.Set(k, score, gocache.DefaultExpiration)
	return score, nil
}

// Stats reports cache hits and misses for run diagnostics.
func (c *CachedFinancial) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Score implements FinancialOracle for callers without a genome key.
func (c *CachedFinancial) Score(l *layout.Layout) (FinancialScore, error) {
	return c.Oracle.Score(l)
}
