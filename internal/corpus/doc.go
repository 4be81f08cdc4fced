// Package corpus reads the on-disk conversation corpus: encoded project
// directories (partitions), line-delimited JSON transcript files, and the
// auxiliary prompt-history file.
//
// There is no index. Every query re-reads whatever files it needs, bounded
// by recency caps, with a process-wide record cache in front of the parse
// step. The cache uses value-biased eviction, not LRU: see RecordCache.
package corpus
