package corpus

import (
	"sync"

	"github.com/dshills/gohistory-mcp/pkg/types"
)

// HighValueThreshold is the base relevance score above which a file is
// considered worth fighting for a cache slot.
const HighValueThreshold = 8.0

// RecordCache is the process-wide bounded cache of parsed transcript files,
// keyed by file identity (path + mtime + size).
//
// Eviction is value-biased, not LRU: when the cache is full, a new entry is
// admitted only if it contains at least one record that scored above
// HighValueThreshold, and it evicts the existing entry with the lowest
// average record score. Recency of access plays no part. The intent looks
// superficially like LRU (keep the useful stuff) but the signal is query
// relevance, not access order: a file full of boilerplate read five minutes
// ago loses its slot to a file of high-scoring records read once.
//
// Values are immutable once stored and keys are deterministic, so
// concurrent redundant inserts are harmless (last write wins).
type RecordCache struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string]*cacheEntry
}

type cacheEntry struct {
	records  []types.Record
	avgScore float64
	maxScore float64
}

// NewRecordCache creates a cache bounded to the given number of files.
func NewRecordCache(capacity int) *RecordCache {
	if capacity < 1 {
		capacity = 1
	}
	return &RecordCache{
		capacity: capacity,
		entries:  make(map[string]*cacheEntry, capacity),
	}
}

// Get returns the cached records for a file identity.
func (c *RecordCache) Get(key string) ([]types.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.records, true
}

// Add stores a parsed file along with the relevance scores its records
// earned in the query that parsed it. When full, admission is value-biased:
// see the type comment.
func (c *RecordCache) Add(key string, records []types.Record, scores []float64) {
	avg, maxSc := summarizeScores(scores)

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		// Refresh the value estimate; later queries may score the same
		// file differently.
		existing.avgScore = avg
		existing.maxScore = maxSc
		return
	}

	if len(c.entries) >= c.capacity {
		if maxSc < HighValueThreshold {
			// Not valuable enough to displace anything.
			return
		}
		c.evictLowestValue()
	}

	c.entries[key] = &cacheEntry{records: records, avgScore: avg, maxScore: maxSc}
}

// Len returns the current number of cached files.
func (c *RecordCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictLowestValue removes the single entry with the lowest average record
// score. Caller holds the write lock.
func (c *RecordCache) evictLowestValue() {
	var victim string
	lowest := -1.0
	for key, e := range c.entries {
		if lowest < 0 || e.avgScore < lowest {
			lowest = e.avgScore
			victim = key
		}
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}

func summarizeScores(scores []float64) (avg, max float64) {
	if len(scores) == 0 {
		return 0, 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
		if s > max {
			max = s
		}
	}
	return sum / float64(len(scores)), max
}
