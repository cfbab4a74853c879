package model

import "slices"

// DefaultNodeBudget caps how many nodes the multiplicity search may visit in
// one run. The search space is exponential in the sheet-width/item-length
// ratio, so an explicit budget turns pathological inputs into a truncation
// signal instead of an unbounded solve.
const DefaultNodeBudget = 5_000_000

// PatternGenerator enumerates every valid cutting pattern for a sheet.
type PatternGenerator struct {
	sheet          Sheet
	minUtilization float64
	nodeBudget     int
}

func NewPatternGenerator(sheet Sheet, minUtilization float64) *PatternGenerator {
	return &PatternGenerator{
		sheet:          sheet,
		minUtilization: minUtilization,
		nodeBudget:     DefaultNodeBudget,
	}
}

// SetNodeBudget overrides the search-node budget. Values below one disable
// the search entirely.
func (g *PatternGenerator) SetNodeBudget(budget int) {
	g.nodeBudget = budget
}

// Generate produces every pattern over combinations of 1, 2 or 3 distinct
// items whose piece lengths sum exactly to the sheet width and whose
// utilization meets the configured floor. An empty result is a legitimate
// outcome meaning no combination tiles the sheet. The boolean reports
// whether the search was truncated by the node budget; patterns found up to
// that point are still returned and remain individually valid.
func (g *PatternGenerator) Generate(items []Item) ([]Pattern, bool) {
	var patterns []Pattern
	budget := g.nodeBudget
	truncated := false

	for size := 1; size <= 3; size++ {
		for _, combination := range combinations(items, size) {
			found := g.distributions(combination, &budget, &truncated)
			for _, pattern := range found {
				if pattern.valid(g.sheet, g.minUtilization) {
					patterns = append(patterns, pattern)
				}
			}
			if truncated {
				return patterns, true
			}
		}
	}

	return patterns, false
}

// distributions finds every multiplicity assignment over the fixed item
// tuple that sums exactly to the sheet width, by depth-first backtracking.
func (g *PatternGenerator) distributions(items []Item, budget *int, truncated *bool) []Pattern {
	var patterns []Pattern
	counts := make([]int, len(items))
	target := g.sheet.Width

	var search func(index, sum int)
	search = func(index, sum int) {
		if *truncated {
			return
		}
		if *budget <= 0 {
			*truncated = true
			return
		}
		*budget--

		if index == len(items) {
			if sum == target {
				patterns = append(patterns, Pattern{
					Items:  slices.Clone(items),
					Counts: slices.Clone(counts),
					Sheet:  g.sheet,
				})
			}
			return
		}
		if sum > target {
			return
		}

		max := (target - sum) / items[index].Length
		for quantity := 0; quantity <= max; quantity++ {
			counts[index] = quantity
			search(index+1, sum+quantity*items[index].Length)
		}
		counts[index] = 0
	}

	search(0, 0)
	return patterns
}

// combinations returns every subset of the given size, preserving input
// order. Items are never deduplicated by length: equal lengths under
// different codes stay distinct.
func combinations(items []Item, size int) [][]Item {
	var result [][]Item
	combination := make([]Item, 0, size)

	var build func(start int)
	build = func(start int) {
		if len(combination) == size {
			result = append(result, slices.Clone(combination))
			return
		}
		for i := start; i <= len(items)-(size-len(combination)); i++ {
			combination = append(combination, items[i])
			build(i + 1)
			combination = combination[:len(combination)-1]
		}
	}

	build(0)
	return result
}
