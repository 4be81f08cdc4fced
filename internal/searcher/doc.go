// Package searcher orchestrates queries over the conversation corpus:
// candidate gathering with bounded-recency fan-out, re-ranking with
// intent-aware boosts, near-duplicate suppression, and the public query
// operations exposed through the MCP layer.
//
// There is no index. Each query selects the most recently modified
// partitions and files, scans them concurrently, and scores records on the
// fly. A failure reading any one source contributes zero candidates and
// never fails the query; the final ordering depends only on scores and
// timestamps, never on which scan finished first.
package searcher
