package model

import "time"

// PatternUse pairs a chosen pattern with how many sheets are cut from it.
type PatternUse struct {
	Pattern Pattern
	Use     int
}

// Solution is a ranked candidate cutting plan assembled from the patterns
// one strategy run selected.
type Solution struct {
	Patterns    []PatternUse
	Utilization float64        // usage-weighted mean utilization across all sheets cut
	Sheets      int            // total sheets required (sum of usage counts)
	Covered     map[string]int // item code -> total quantity produced
	Rank        int            // 1-based, assigned after ranking
	Elapsed     time.Duration  // total processing time of the whole request
	Strategy    Strategy
}

// Empty reports whether the solution carries no pattern at all, the marker
// for total infeasibility.
func (s Solution) Empty() bool {
	return len(s.Patterns) == 0
}
