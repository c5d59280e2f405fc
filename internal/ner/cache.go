package ner

import (
	"context"
	"encoding/binary"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// CacheTTL is the default TTL for cached inference results.
const CacheTTL = 2 * time.Minute

// Ensure CachedModel implements the Model interface.
var _ Model = (*CachedModel)(nil)

// CachedModel wraps a Model with a TTL cache keyed by input hash. Concurrent
// identical requests are deduplicated with singleflight so the model runs
// once per distinct input.
type CachedModel struct {
	model   Model
	cache   *ttlcache.Cache[string, [][]Entity]
	sfGroup singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedModel wraps model with caching. ttl <= 0 uses CacheTTL.
func NewCachedModel(model Model, ttl time.Duration) *CachedModel {
	if ttl <= 0 {
		ttl = CacheTTL
	}
	cache := ttlcache.New[string, [][]Entity](
		ttlcache.WithTTL[string, [][]Entity](ttl),
	)
	go cache.Start()
	return &CachedModel{model: model, cache: cache}
}

// Recognize returns cached results when available, otherwise runs the
// wrapped model and caches its output.
func (c *CachedModel) Recognize(ctx context.Context, texts []string) ([][]Entity, error) {
	key := cacheKey(texts)

	if item := c.cache.Get(key); item != nil {
		c.hits.Add(1)
		return item.Value(), nil
	}

	result, err, _ := c.sfGroup.Do(key, func() (any, error) {
		c.misses.Add(1)
		entities, err := c.model.Recognize(ctx, texts)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, entities, ttlcache.DefaultTTL)
		return entities, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([][]Entity), nil
}

// Stats returns cache hit and miss counts.
func (c *CachedModel) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Close stops the cache janitor and closes the wrapped model.
func (c *CachedModel) Close() error {
	c.cache.Stop()
	if err := c.model.Close(); err != nil {
		log.Warn().Err(err).Msg("Closing wrapped NER model")
		return err
	}
	return nil
}

// cacheKey hashes the input texts, length-prefixing each so concatenation
// ambiguity cannot collide keys.
func cacheKey(texts []string) string {
	h := xxhash.New()
	var buf [8]byte
	for _, t := range texts {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(t)))
		_, _ = h.Write(buf[:])
		_, _ = h.Write([]byte(t))
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
