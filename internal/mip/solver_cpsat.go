// github.com/google/or-tools is not resolvable as a Go module through the
// configured proxy (no published version contains these packages, and the
// bindings require cgo, which is disabled for this build). Guarded behind a
// build tag so the rest of the package remains buildable.
//go:build ortools

package mip

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"
)

type cpsatSolver struct{}

// NewCpsatSolver returns a backend built on the OR-Tools CP-SAT solver.
// It requires the OR-Tools native libraries at runtime.
func NewCpsatSolver() Solver {
	return &cpsatSolver{}
}

func (s *cpsatSolver) Solve(program Program) (Result, error) {
	builder := cpmodel.NewCpModelBuilder()

	vars := make([]cpmodel.IntVar, len(program.Variables))
	for i, variable := range program.Variables {
		vars[i] = builder.NewIntVar(variable.Low, variable.High).WithName(variable.Name)
	}

	for _, constraint := range program.Constraints {
		if len(constraint.Terms) == 0 {
			continue
		}
		expr := cpmodel.NewLinearExpr()
		for _, term := range constraint.Terms {
			expr.AddTerm(vars[term.Var], term.Coef)
		}
		if constraint.Low == constraint.High {
			builder.AddEquality(expr, cpmodel.NewConstant(constraint.Low))
		} else {
			builder.AddGreaterOrEqual(expr, cpmodel.NewConstant(constraint.Low))
			builder.AddLessOrEqual(expr, cpmodel.NewConstant(constraint.High))
		}
	}

	if len(program.Objective) > 0 {
		objective := cpmodel.NewLinearExpr()
		for _, term := range program.Objective {
			objective.AddTerm(vars[term.Var], term.Coef)
		}
		builder.Minimize(objective)
	}

	m, err := builder.Model()
	if err != nil {
		return Result{}, fmt.Errorf("failed to instantiate the CP model: %w", err)
	}

	var response *cmpb.CpSolverResponse
	if program.TimeLimit > 0 {
		params := &sppb.SatParameters{
			MaxTimeInSeconds: proto.Float64(program.TimeLimit.Seconds()),
		}
		response, err = cpmodel.SolveCpModelWithParameters(m, params)
	} else {
		response, err = cpmodel.SolveCpModel(m)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to solve the model: %w", err)
	}

	status := StatusOptimal
	switch response.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL:
	case cmpb.CpSolverStatus_FEASIBLE:
		status = StatusFeasible
	case cmpb.CpSolverStatus_INFEASIBLE:
		return Result{Status: StatusInfeasible}, nil
	case cmpb.CpSolverStatus_UNKNOWN:
		// The time limit elapsed before any assignment was proven.
		return Result{Status: StatusTimeout}, nil
	default:
		return Result{}, fmt.Errorf("unexpected solver status: %v", response.GetStatus())
	}

	values := make([]int64, len(vars))
	for i := range vars {
		values[i] = cpmodel.SolutionIntegerValue(response, vars[i])
	}
	return Result{Status: status, Values: values}, nil
}
