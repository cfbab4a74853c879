package model

// Pattern is an ordered list of (item, count) pairs cut from a single sheet.
// Valid patterns consume the sheet width exactly and use at most three
// distinct item codes. Patterns are value objects: two patterns are the same
// only when their (item, count) sequences match, so distinct search paths
// yield distinct instances even when their cutting semantics coincide.
type Pattern struct {
	Items  []Item
	Counts []int
	Sheet  Sheet
}

// Width is the total length consumed by the pattern's pieces.
func (p Pattern) Width() int {
	total := 0
	for i, item := range p.Items {
		total += item.Length * p.Counts[i]
	}
	return total
}

// DistinctCount is the number of unique item codes present.
func (p Pattern) DistinctCount() int {
	codes := make(map[string]struct{}, len(p.Items))
	for _, item := range p.Items {
		codes[item.Code] = struct{}{}
	}
	return len(codes)
}

// Utilization is the fraction of the sheet width consumed by the pattern.
func (p Pattern) Utilization() float64 {
	if p.Sheet.Width == 0 {
		return 0
	}
	return float64(p.Width()) / float64(p.Sheet.Width)
}

// CountOf returns how many pieces of the given code the pattern cuts.
func (p Pattern) CountOf(code string) int {
	total := 0
	for i, item := range p.Items {
		if item.Code == code {
			total += p.Counts[i]
		}
	}
	return total
}

// valid reports whether the pattern satisfies all acceptance constraints for
// the given sheet and utilization floor.
func (p Pattern) valid(sheet Sheet, minUtilization float64) bool {
	if p.Width() > sheet.Width {
		return false
	}
	if p.DistinctCount() > 3 {
		return false
	}
	if p.Utilization() < minUtilization {
		return false
	}
	for _, count := range p.Counts {
		if count < 0 {
			return false
		}
	}
	return true
}
