package types

import "errors"

// Domain errors. Corpus-level failures are logged and converted to empty
// contributions long before they reach a caller; these sentinels exist for
// the internal boundaries.
var (
	ErrCorpusNotFound   = errors.New("corpus root does not exist")
	ErrInvalidTimeframe = errors.New("invalid timeframe")
)
