package mip

// Solver solves a bounded-integer linear program. A Result carrying
// StatusInfeasible or StatusTimeout is a valid output where error shall be
// nil; errors are reserved for failures of the solving machinery itself.
type Solver interface {
	Solve(Program) (Result, error)
}
