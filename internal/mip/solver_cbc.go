package mip

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const cbcPath = "cbc"

type cbcSolver struct{}

// NewCbcSolver returns a backend that shells out to the COIN-OR cbc binary,
// feeding it the program in LP text format and parsing its solution file.
func NewCbcSolver() Solver {
	return &cbcSolver{}
}

func (s *cbcSolver) Solve(program Program) (Result, error) {
	dir, err := os.MkdirTemp("", "cutplan-cbc")
	if err != nil {
		return Result{}, fmt.Errorf("cannot create scratch directory: %v", err)
	}
	defer os.RemoveAll(dir)

	modelPath := filepath.Join(dir, "model.lp")
	solutionPath := filepath.Join(dir, "solution.txt")
	if err := os.WriteFile(modelPath, []byte(program.ToLP()), 0o644); err != nil {
		return Result{}, fmt.Errorf("cannot write LP file: %v", err)
	}

	args := []string{modelPath}
	if program.TimeLimit > 0 {
		args = append(args, "sec", strconv.Itoa(int(math.Ceil(program.TimeLimit.Seconds()))))
	}
	args = append(args, "solve", "solu", solutionPath)

	cmd := exec.Command(cbcPath, args...)
	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Result{}, fmt.Errorf("an error occurred during cbc execution: %v : %v", err, stderr.String())
	}

	content, err := os.ReadFile(solutionPath)
	if err != nil {
		return Result{}, fmt.Errorf("cannot read cbc solution file: %v", err)
	}

	return parseCbcSolution(string(content), program)
}

// parseCbcSolution decodes the solution file written by "cbc ... solu". The
// first line carries the termination status; the remaining lines list every
// nonzero variable as "index name value cost".
func parseCbcSolution(out string, program Program) (Result, error) {
	lines := strings.Split(out, "\n")
	if len(lines) == 0 {
		return Result{}, fmt.Errorf("empty cbc solution file")
	}

	header := strings.TrimSpace(lines[0])
	var status Status
	switch {
	case strings.HasPrefix(header, "Optimal"):
		status = StatusOptimal
	case strings.HasPrefix(header, "Stopped on time") && strings.Contains(header, "objective value"):
		status = StatusFeasible
	case strings.HasPrefix(header, "Stopped"):
		return Result{Status: StatusTimeout}, nil
	case strings.HasPrefix(header, "Infeasible") || strings.HasPrefix(header, "Integer infeasible"):
		return Result{Status: StatusInfeasible}, nil
	case strings.HasPrefix(header, "Unbounded"):
		return Result{Status: StatusInfeasible}, nil
	default:
		return Result{}, fmt.Errorf("unrecognized cbc status line: %q", header)
	}

	values := make([]int64, len(program.Variables))
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 3 || !strings.HasPrefix(fields[1], "x") {
			continue
		}
		index, err := strconv.Atoi(fields[1][1:])
		if err != nil || index < 0 || index >= len(values) {
			continue
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Result{}, fmt.Errorf("invalid value in cbc solution: %v", err)
		}
		values[index] = int64(math.Round(value))
	}
	return Result{Status: status, Values: values}, nil
}
