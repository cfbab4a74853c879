package model

// Sheet is the fixed-width stock material being cut. One instance covers an
// optimization run; every pattern is generated against its width.
type Sheet struct {
	Width     int
	Length    int
	Thickness int
	Material  string
}
