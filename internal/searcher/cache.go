package searcher

import (
	"crypto/sha256"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/gohistory-mcp/pkg/types"
)

const (
	responseCacheSize = 256
	responseCacheTTL  = 2 * time.Minute
)

// responseCache memoizes whole query responses for a short window. Unlike
// the record cache it is a plain LRU: responses go stale as the corpus
// changes, so recency is the right eviction signal here.
type responseCache struct {
	mu    sync.Mutex
	cache *lru.Cache[[32]byte, *cachedResponse]
	now   func() time.Time
}

type cachedResponse struct {
	response  *types.SearchResponse
	expiresAt time.Time
}

func newResponseCache() *responseCache {
	cache, err := lru.New[[32]byte, *cachedResponse](responseCacheSize)
	if err != nil {
		// Only possible with a non-positive size.
		panic(err)
	}
	return &responseCache{cache: cache, now: time.Now}
}

// key derives a stable cache key from the operation name and its
// normalized parameters.
func (c *responseCache) key(op string, parts ...any) [32]byte {
	var b strings.Builder
	b.WriteString(op)
	for _, p := range parts {
		b.WriteByte(0)
		switch v := p.(type) {
		case string:
			b.WriteString(strings.ToLower(strings.TrimSpace(v)))
		case int:
			b.WriteString(strconv.Itoa(v))
		}
	}
	return sha256.Sum256([]byte(b.String()))
}

func (c *responseCache) get(op string, parts ...any) (*types.SearchResponse, bool) {
	k := c.key(op, parts...)
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache.Get(k)
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.cache.Remove(k)
		return nil, false
	}
	return entry.response, true
}

func (c *responseCache) put(resp *types.SearchResponse, op string, parts ...any) {
	if resp == nil || len(resp.Results) == 0 {
		return
	}
	k := c.key(op, parts...)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(k, &cachedResponse{
		response:  resp,
		expiresAt: c.now().Add(responseCacheTTL),
	})
}
