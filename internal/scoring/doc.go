// Package scoring implements the relevance pipeline's pure stages: the
// word-boundary term matcher with its casing gate, the two relevance
// scorer variants, and the query intent classifier.
//
// The stages are deliberately separate functions rather than one inlined
// scorer so the hard-veto contract (a strict-core miss, or a zero base
// score on a multi-term query, can never be recovered by later boosts) is
// testable on its own.
package scoring
