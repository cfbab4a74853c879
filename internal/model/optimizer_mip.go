package model

import (
	"fmt"
	"math"
	"slices"
	"time"

	"cutplan/internal/mip"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// utilizationScale turns fractional utilizations into the integer objective
// coefficients the solver contract requires.
const utilizationScale = 10_000

// balancedWeight is the share of the utilization objective in the balanced
// strategy; the remainder weighs the sheet count.
const balancedWeight = 0.7

// patternUseCap is the generic upper bound on a pattern's usage variable. It
// is additionally tightened per pattern so the binary encodings stay small.
const patternUseCap = 1000

// DefaultTimeLimit bounds each strategy's solve unless the caller overrides
// it. One diverging strategy must never block the whole request; it times
// out, is skipped, and the remaining strategies still produce the ranking.
const DefaultTimeLimit = 30 * time.Second

// strategyOrder is fixed; at most maxSolutions strategies are attempted.
var strategyOrder = []Strategy{StrategyMaxUtilization, StrategyMinSheets, StrategyBalanced}

type mipOptimizer struct {
	sheet          Sheet
	minUtilization float64
	solver         mip.Solver
	timeLimit      time.Duration
	log            zerolog.Logger
}

func newMipOptimizer(sheet Sheet, minUtilization float64, solver mip.Solver, log zerolog.Logger) *mipOptimizer {
	return &mipOptimizer{
		sheet:          sheet,
		minUtilization: minUtilization,
		solver:         solver,
		timeLimit:      DefaultTimeLimit,
		log:            log,
	}
}

// SetTimeLimit replaces the default per-strategy deadline. Exceeding it
// skips the strategy instead of blocking the request; zero removes the
// limit entirely.
func (o *mipOptimizer) SetTimeLimit(limit time.Duration) {
	o.timeLimit = limit
}

func (o *mipOptimizer) Optimize(orderItems, stockItems []Item, maxSolutions int) ([]Solution, error) {
	start := time.Now()

	items := make([]Item, 0, len(orderItems)+len(stockItems))
	items = append(items, orderItems...)
	items = append(items, stockItems...)

	generator := NewPatternGenerator(o.sheet, o.minUtilization)
	patterns, truncated := generator.Generate(items)
	if truncated {
		o.log.Warn().Int("patterns", len(patterns)).Msg("pattern search truncated by node budget")
	}

	// Without candidate patterns, or with an order item no pattern can
	// produce, no model is solvable: report total infeasibility through a
	// single empty placeholder.
	if len(patterns) == 0 || !coversAllOrders(patterns, orderItems) {
		return []Solution{{Covered: map[string]int{}, Elapsed: time.Since(start)}}, nil
	}

	attempts := strategyOrder
	if maxSolutions < len(attempts) {
		attempts = attempts[:maxSolutions]
	}

	var solutions []Solution
	for _, strategy := range attempts {
		chosen, err := o.solveStrategy(patterns, orderItems, stockItems, strategy)
		if err != nil {
			return nil, err
		}
		if chosen == nil {
			continue
		}
		solutions = append(solutions, assemble(chosen, strategy))
	}

	return rank(solutions, maxSolutions, time.Since(start)), nil
}

// solveStrategy builds the integer program for one strategy, submits it to
// the solver and decodes the chosen patterns. A nil result means the
// strategy yielded no solution; that is local to the strategy, not fatal.
func (o *mipOptimizer) solveStrategy(patterns []Pattern, orderItems, stockItems []Item, strategy Strategy) ([]PatternUse, error) {
	program := o.buildProgram(patterns, orderItems, stockItems, strategy)

	result, err := o.solver.Solve(program)
	if err != nil {
		return nil, fmt.Errorf("%v strategy: %w", strategy, err)
	}

	switch result.Status {
	case mip.StatusOptimal, mip.StatusFeasible:
	case mip.StatusTimeout:
		o.log.Warn().Stringer("strategy", strategy).Msg("solver timed out")
		return nil, nil
	default:
		o.log.Info().Stringer("strategy", strategy).Stringer("status", result.Status).Msg("strategy yielded no solution")
		return nil, nil
	}

	var chosen []PatternUse
	for i, value := range result.Values {
		if value > 0 {
			chosen = append(chosen, PatternUse{Pattern: patterns[i], Use: int(value)})
		}
	}
	return chosen, nil
}

// buildProgram formulates the selection problem: one bounded usage variable
// per candidate pattern and one range constraint per item code. Order items
// pin the produced quantity to the demand exactly; stock items bound it by
// availability.
func (o *mipOptimizer) buildProgram(patterns []Pattern, orderItems, stockItems []Item, strategy Strategy) mip.Program {
	limits := make(map[string]int, len(orderItems)+len(stockItems))
	for _, item := range orderItems {
		limits[item.Code] = item.Quantity
	}
	for _, item := range stockItems {
		limits[item.Code] = item.Quantity
	}

	variables := make([]mip.Variable, len(patterns))
	for i, pattern := range patterns {
		variables[i] = mip.Variable{
			Name: fmt.Sprintf("pattern_%d", i),
			High: usageBound(pattern, limits),
		}
	}

	constraints := make([]mip.Constraint, 0, len(limits))
	addConstraint := func(item Item, low int64) {
		constraint := mip.Constraint{
			Name: "item_" + item.Code,
			Low:  low,
			High: int64(item.Quantity),
		}
		for i, pattern := range patterns {
			if quantity := pattern.CountOf(item.Code); quantity > 0 {
				constraint.Terms = append(constraint.Terms, mip.Term{Var: i, Coef: int64(quantity)})
			}
		}
		constraints = append(constraints, constraint)
	}
	for _, item := range orderItems {
		addConstraint(item, int64(item.Quantity))
	}
	for _, item := range stockItems {
		addConstraint(item, 0)
	}

	objective := make([]mip.Term, 0, len(patterns))
	for i, pattern := range patterns {
		var coef int64
		switch strategy {
		case StrategyMinSheets:
			coef = 1
		case StrategyMaxUtilization:
			coef = -int64(math.Round(pattern.Utilization() * utilizationScale))
		case StrategyBalanced:
			blended := (1-balancedWeight)*utilizationScale - balancedWeight*pattern.Utilization()*utilizationScale
			coef = int64(math.Round(blended))
		}
		objective = append(objective, mip.Term{Var: i, Coef: coef})
	}
	normalizeObjective(objective)

	return mip.Program{
		Variables:   variables,
		Constraints: constraints,
		Objective:   objective,
		TimeLimit:   o.timeLimit,
	}
}

// normalizeObjective divides all coefficients by their greatest common
// divisor, leaving the optimum assignment unchanged. Exact-width patterns
// all share one utilization, which would otherwise scale into large uniform
// coefficients and inflate the cost range the pseudo-Boolean backend has to
// search through.
func normalizeObjective(objective []mip.Term) {
	var divisor int64
	for _, term := range objective {
		divisor = gcd(divisor, term.Coef)
	}
	if divisor <= 1 {
		return
	}
	for i := range objective {
		objective[i].Coef /= divisor
	}
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// usageBound tightens a pattern's usage cap: cutting it more often than any
// of its items' own limits allow already violates that item's constraint, so
// the tightening never removes a feasible assignment.
func usageBound(pattern Pattern, limits map[string]int) int64 {
	bound := patternUseCap
	for i, item := range pattern.Items {
		if pattern.Counts[i] == 0 {
			continue
		}
		if limit := limits[item.Code] / pattern.Counts[i]; limit < bound {
			bound = limit
		}
	}
	return int64(bound)
}

// coversAllOrders reports whether every order code appears in at least one
// candidate pattern.
func coversAllOrders(patterns []Pattern, orderItems []Item) bool {
	return lo.EveryBy(orderItems, func(item Item) bool {
		return lo.SomeBy(patterns, func(pattern Pattern) bool {
			return pattern.CountOf(item.Code) > 0
		})
	})
}

// assemble aggregates the chosen patterns into a coherent plan: covered
// quantities and utilization are scaled by usage counts, and the sheet count
// is the total number of sheets cut.
func assemble(chosen []PatternUse, strategy Strategy) Solution {
	covered := make(map[string]int)
	weighted := 0.0
	sheets := 0

	for _, use := range chosen {
		for i, item := range use.Pattern.Items {
			covered[item.Code] += use.Pattern.Counts[i] * use.Use
		}
		weighted += use.Pattern.Utilization() * float64(use.Use)
		sheets += use.Use
	}

	utilization := 0.0
	if sheets > 0 {
		utilization = weighted / float64(sheets)
	}

	return Solution{
		Patterns:    chosen,
		Utilization: utilization,
		Sheets:      sheets,
		Covered:     covered,
		Strategy:    strategy,
	}
}

// rank keeps the non-empty solutions, sorts them by utilization descending
// (stable on the fixed strategy order for determinism), assigns contiguous
// 1-based ranks, truncates to the requested maximum and stamps the elapsed
// time of the whole request.
func rank(solutions []Solution, maxSolutions int, elapsed time.Duration) []Solution {
	solutions = lo.Filter(solutions, func(solution Solution, _ int) bool {
		return !solution.Empty()
	})

	slices.SortStableFunc(solutions, func(a, b Solution) int {
		switch {
		case a.Utilization > b.Utilization:
			return -1
		case a.Utilization < b.Utilization:
			return 1
		}
		return 0
	})

	if len(solutions) > maxSolutions {
		solutions = solutions[:maxSolutions]
	}
	for i := range solutions {
		solutions[i].Rank = i + 1
		solutions[i].Elapsed = elapsed
	}
	return solutions
}
