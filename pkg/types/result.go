package types

import "time"

// SearchResponse is the envelope every public operation returns. Failures
// never surface to the caller as faults: an empty response tagged with the
// attempted query and elapsed time stands in for both "no results" and
// "something went wrong".
type SearchResponse struct {
	Query        string
	Results      []ScoredRecord
	TotalResults int
	Duration     time.Duration
}

// EmptyResponse builds the well-formed zero-result payload used for query
// precondition failures and swallowed internal errors.
func EmptyResponse(query string, elapsed time.Duration) *SearchResponse {
	return &SearchResponse{
		Query:        query,
		Results:      []ScoredRecord{},
		TotalResults: 0,
		Duration:     elapsed,
	}
}

// Timeframe bounds a search to a recency window.
type Timeframe string

const (
	TimeframeAll       Timeframe = ""
	TimeframeToday     Timeframe = "today"
	TimeframeYesterday Timeframe = "yesterday"
	TimeframeWeek      Timeframe = "week"
	TimeframeMonth     Timeframe = "month"
)

// Cutoff returns the earliest timestamp admitted by the timeframe, relative
// to now. The zero time means unbounded.
func (tf Timeframe) Cutoff(now time.Time) time.Time {
	switch tf {
	case TimeframeToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case TimeframeYesterday:
		return now.Add(-48 * time.Hour)
	case TimeframeWeek:
		return now.AddDate(0, 0, -7)
	case TimeframeMonth:
		return now.AddDate(0, 0, -30)
	default:
		return time.Time{}
	}
}

// Valid reports whether the timeframe is one of the recognized windows.
func (tf Timeframe) Valid() bool {
	switch tf {
	case TimeframeAll, TimeframeToday, TimeframeYesterday, TimeframeWeek, TimeframeMonth:
		return true
	}
	return false
}
