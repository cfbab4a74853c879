package model

import (
	"time"

	"cutplan/internal/mip"

	"github.com/rs/zerolog"
)

// Strategy selects the objective used for one optimization run.
type Strategy byte

const (
	// StrategyMaxUtilization minimizes the negated per-pattern utilization.
	StrategyMaxUtilization = Strategy(iota)
	// StrategyMinSheets minimizes the total number of sheets cut.
	StrategyMinSheets
	// StrategyBalanced blends the two objectives with a fixed weight.
	StrategyBalanced
)

func (s Strategy) String() string {
	switch s {
	case StrategyMaxUtilization:
		return "maximize-utilization"
	case StrategyMinSheets:
		return "minimize-sheets"
	case StrategyBalanced:
		return "balanced"
	}
	return "unknown"
}

// Optimizer computes ranked cutting plans for a single sheet definition.
// Order demand is always met exactly; stock usage is optional and bounded by
// availability. Each run is synchronous and self-contained: nothing is
// cached or shared across calls.
type Optimizer interface {
	Optimize(orderItems, stockItems []Item, maxSolutions int) ([]Solution, error)
	// SetTimeLimit replaces the default per-strategy deadline; zero
	// removes the limit entirely.
	SetTimeLimit(limit time.Duration)
}

func NewOptimizer(sheet Sheet, minUtilization float64, solver mip.Solver, log zerolog.Logger) Optimizer {
	return newMipOptimizer(sheet, minUtilization, solver, log)
}
