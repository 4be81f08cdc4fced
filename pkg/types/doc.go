// Package types defines the shared domain model: conversation records,
// scored results, query intents, session aggregates, and the response
// envelopes returned by every public operation.
package types
