package mip

import (
	"fmt"
	"strings"
	"time"
)

// Status is the outcome reported by a solver for a single program.
type Status byte

const (
	// StatusOptimal means an assignment was found and proven optimal.
	StatusOptimal = Status(iota)
	// StatusFeasible means an assignment was found but optimality was not proven.
	StatusFeasible
	// StatusInfeasible means no assignment satisfies the constraints.
	StatusInfeasible
	// StatusTimeout means the time limit elapsed before any assignment was found.
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusTimeout:
		return "TIMEOUT"
	}
	return "UNKNOWN"
}

// Term is a single linear coefficient applied to a variable, referenced by
// its index in Program.Variables.
type Term struct {
	Var  int
	Coef int64
}

// Variable is a bounded integer decision variable.
type Variable struct {
	Name string
	Low  int64
	High int64
}

// Constraint bounds a linear combination of variables to [Low, High].
type Constraint struct {
	Name  string
	Low   int64
	High  int64
	Terms []Term
}

// Program is a bounded-integer linear program. The objective is always
// minimized; fractional coefficients must be scaled to integers by the
// caller. A zero TimeLimit means the solve may run unbounded.
type Program struct {
	Variables   []Variable
	Constraints []Constraint
	Objective   []Term
	TimeLimit   time.Duration
}

// Result is a solved assignment. Values holds one integer per program
// variable and is nil unless Status is StatusOptimal or StatusFeasible.
type Result struct {
	Status Status
	Values []int64
}

// bitWidth returns how many bits are needed to hold the values 0..high.
func bitWidth(high int64) int {
	width := 0
	for v := high; v > 0; v >>= 1 {
		width++
	}
	if width == 0 {
		width = 1
	}
	return width
}

// bitOffsets assigns every variable a contiguous run of 1-based
// pseudo-Boolean literals, one per bit of its binary encoding.
func (p Program) bitOffsets() []int {
	offsets := make([]int, len(p.Variables))
	next := 1
	for i, variable := range p.Variables {
		offsets[i] = next
		next += bitWidth(variable.High)
	}
	return offsets
}

// maxSum is the largest value the constraint's linear combination can reach
// within the variables' bounds.
func (p Program) maxSum(constraint Constraint) int64 {
	var sum int64
	for _, term := range constraint.Terms {
		if term.Coef > 0 {
			sum += term.Coef * p.Variables[term.Var].High
		} else {
			sum += term.Coef * p.Variables[term.Var].Low
		}
	}
	return sum
}

// minSum is the smallest value the constraint's linear combination can reach
// within the variables' bounds.
func (p Program) minSum(constraint Constraint) int64 {
	var sum int64
	for _, term := range constraint.Terms {
		if term.Coef > 0 {
			sum += term.Coef * p.Variables[term.Var].Low
		} else {
			sum += term.Coef * p.Variables[term.Var].High
		}
	}
	return sum
}

// ToOPB transforms the program into the OPB pseudo-Boolean text format, with
// every integer variable binary-encoded into weighted Boolean literals.
// Negative objective coefficients are rewritten as positive weights on
// negated literals, which shifts the objective by a constant and leaves the
// optimum assignment unchanged.
func (p Program) ToOPB() string {
	offsets := p.bitOffsets()
	totalBits := 0
	for _, variable := range p.Variables {
		totalBits += bitWidth(variable.High)
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "* #variable= %d #constraint= %d\n", totalBits, len(p.Constraints))

	if len(p.Objective) > 0 {
		builder.WriteString("min:")
		for _, term := range p.Objective {
			if term.Coef == 0 {
				continue
			}
			width := bitWidth(p.Variables[term.Var].High)
			for bit := 0; bit < width; bit++ {
				weight := term.Coef * (1 << bit)
				if weight > 0 {
					fmt.Fprintf(&builder, " %d x%d", weight, offsets[term.Var]+bit)
				} else {
					fmt.Fprintf(&builder, " %d ~x%d", -weight, offsets[term.Var]+bit)
				}
			}
		}
		builder.WriteString(" ;\n")
	}

	// Encoding bounds: whenever a variable's encoding can exceed its upper
	// bound, or its lower bound is above zero, pin the bits down.
	for i, variable := range p.Variables {
		width := bitWidth(variable.High)
		if encodingMax := int64(1)<<width - 1; variable.High < encodingMax {
			for bit := 0; bit < width; bit++ {
				fmt.Fprintf(&builder, "%d x%d ", -int64(1<<bit), offsets[i]+bit)
			}
			fmt.Fprintf(&builder, ">= %d ;\n", -variable.High)
		}
		if variable.Low > 0 {
			for bit := 0; bit < width; bit++ {
				fmt.Fprintf(&builder, "%d x%d ", int64(1<<bit), offsets[i]+bit)
			}
			fmt.Fprintf(&builder, ">= %d ;\n", variable.Low)
		}
	}

	for _, constraint := range p.Constraints {
		if len(constraint.Terms) == 0 {
			continue
		}
		writeTerms := func(negate bool) {
			for _, term := range constraint.Terms {
				width := bitWidth(p.Variables[term.Var].High)
				for bit := 0; bit < width; bit++ {
					weight := term.Coef * (1 << bit)
					if negate {
						weight = -weight
					}
					fmt.Fprintf(&builder, "%d x%d ", weight, offsets[term.Var]+bit)
				}
			}
		}
		if constraint.Low == constraint.High {
			writeTerms(false)
			fmt.Fprintf(&builder, "= %d ;\n", constraint.Low)
			continue
		}
		if constraint.Low > p.minSum(constraint) {
			writeTerms(false)
			fmt.Fprintf(&builder, ">= %d ;\n", constraint.Low)
		}
		if constraint.High < p.maxSum(constraint) {
			writeTerms(true)
			fmt.Fprintf(&builder, ">= %d ;\n", -constraint.High)
		}
	}

	return builder.String()
}

// decodeBits recomposes the integer value of every variable from a
// pseudo-Boolean model. Literals the solver never saw default to false.
func (p Program) decodeBits(model []bool) []int64 {
	offsets := p.bitOffsets()
	values := make([]int64, len(p.Variables))
	for i, variable := range p.Variables {
		width := bitWidth(variable.High)
		var value int64
		for bit := 0; bit < width; bit++ {
			index := offsets[i] + bit - 1
			if index < len(model) && model[index] {
				value |= 1 << bit
			}
		}
		values[i] = value
	}
	return values
}

// ToLP transforms the program into the CPLEX LP text format understood by
// the cbc binary. Range constraints become a pair of rows.
func (p Program) ToLP() string {
	var builder strings.Builder
	builder.WriteString("Minimize\n obj:")
	if len(p.Objective) == 0 {
		fmt.Fprintf(&builder, " 0 x0")
	}
	for _, term := range p.Objective {
		if term.Coef >= 0 {
			fmt.Fprintf(&builder, " + %d x%d", term.Coef, term.Var)
		} else {
			fmt.Fprintf(&builder, " - %d x%d", -term.Coef, term.Var)
		}
	}
	builder.WriteString("\nSubject To\n")
	for i, constraint := range p.Constraints {
		if len(constraint.Terms) == 0 {
			continue
		}
		row := func(suffix, operator string, bound int64) {
			fmt.Fprintf(&builder, " c%d%s:", i, suffix)
			for _, term := range constraint.Terms {
				if term.Coef >= 0 {
					fmt.Fprintf(&builder, " + %d x%d", term.Coef, term.Var)
				} else {
					fmt.Fprintf(&builder, " - %d x%d", -term.Coef, term.Var)
				}
			}
			fmt.Fprintf(&builder, " %s %d\n", operator, bound)
		}
		if constraint.Low == constraint.High {
			row("", "=", constraint.Low)
			continue
		}
		row("_lb", ">=", constraint.Low)
		row("_ub", "<=", constraint.High)
	}
	builder.WriteString("Bounds\n")
	for i, variable := range p.Variables {
		fmt.Fprintf(&builder, " %d <= x%d <= %d\n", variable.Low, i, variable.High)
	}
	builder.WriteString("General\n")
	for i := range p.Variables {
		fmt.Fprintf(&builder, " x%d", i)
	}
	builder.WriteString("\nEnd\n")
	return builder.String()
}
