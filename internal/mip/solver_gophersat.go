package mip

import (
	"fmt"
	"strings"
	"time"

	"github.com/crillab/gophersat/solver"
)

type gophersatSolver struct{}

// NewGophersatSolver returns an in-process, pure-Go backend built on
// gophersat's pseudo-Boolean optimizer. The program is serialized to OPB
// text, solved by branch-and-bound over the binary-encoded variables, and
// the optimal model is decoded back into integer values.
func NewGophersatSolver() Solver {
	return &gophersatSolver{}
}

func (s *gophersatSolver) Solve(program Program) (Result, error) {
	opb := program.ToOPB()
	problem, err := solver.ParseOPB(strings.NewReader(opb))
	if err != nil {
		return Result{}, fmt.Errorf("cannot parse generated OPB: %v", err)
	}
	gs := solver.New(problem)

	type outcome struct {
		cost  int
		model []bool
	}
	done := make(chan outcome, 1)
	go func() {
		cost := gs.Minimize()
		var model []bool
		if cost >= 0 {
			model = gs.Model()
		}
		done <- outcome{cost: cost, model: model}
	}()

	var out outcome
	if program.TimeLimit > 0 {
		select {
		case out = <-done:
		case <-time.After(program.TimeLimit):
			// gophersat offers no cancellation; the search goroutine is
			// abandoned and its result discarded.
			return Result{Status: StatusTimeout}, nil
		}
	} else {
		out = <-done
	}

	if out.cost < 0 {
		return Result{Status: StatusInfeasible}, nil
	}
	return Result{Status: StatusOptimal, Values: program.decodeBits(out.model)}, nil
}
