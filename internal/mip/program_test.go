package mip

import (
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

func TestBitWidth(t *testing.T) {
	g := NewWithT(t)

	g.Expect(bitWidth(0)).To(Equal(1))
	g.Expect(bitWidth(1)).To(Equal(1))
	g.Expect(bitWidth(2)).To(Equal(2))
	g.Expect(bitWidth(7)).To(Equal(3))
	g.Expect(bitWidth(8)).To(Equal(4))
	g.Expect(bitWidth(1000)).To(Equal(10))
}

func TestBitOffsets(t *testing.T) {
	g := NewWithT(t)

	program := Program{Variables: []Variable{
		{Name: "a", High: 7},  // 3 bits
		{Name: "b", High: 1},  // 1 bit
		{Name: "c", High: 10}, // 4 bits
	}}

	g.Expect(program.bitOffsets()).To(Equal([]int{1, 4, 5}))
}

func TestToOPB(t *testing.T) {
	g := NewWithT(t)

	program := Program{
		Variables: []Variable{
			{Name: "x", High: 3},
			{Name: "y", High: 3},
		},
		Constraints: []Constraint{
			{Name: "sum", Low: 3, High: 3, Terms: []Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}}},
		},
		Objective: []Term{{Var: 0, Coef: 1}, {Var: 1, Coef: -2}},
	}

	opb := program.ToOPB()

	// Positive coefficients expand into plain weighted bits, negative ones
	// into negated literals with positive weights.
	g.Expect(opb).To(ContainSubstring("min: 1 x1 2 x2 2 ~x3 4 ~x4 ;"))
	g.Expect(opb).To(ContainSubstring("1 x1 2 x2 1 x3 2 x4 = 3 ;"))

	lines := strings.Split(strings.TrimSpace(opb), "\n")
	for _, line := range lines[1:] {
		g.Expect(strings.HasSuffix(line, ";")).To(BeTrue(), "line %q must end with a semicolon", line)
	}
}

func TestToOPBBoundsEncoding(t *testing.T) {
	g := NewWithT(t)

	// High 10 needs 4 bits (0..15), so the encoding must pin the excess down.
	program := Program{Variables: []Variable{{Name: "x", Low: 2, High: 10}}}
	opb := program.ToOPB()

	g.Expect(opb).To(ContainSubstring("-1 x1 -2 x2 -4 x3 -8 x4 >= -10 ;"))
	g.Expect(opb).To(ContainSubstring("1 x1 2 x2 4 x3 8 x4 >= 2 ;"))
}

func TestToOPBLowerBoundWithNegativeCoefficient(t *testing.T) {
	g := NewWithT(t)

	// x - y ranges over [-3, 3], so a lower bound of zero is not implied by
	// the encoding and needs its own row.
	program := Program{
		Variables: []Variable{
			{Name: "x", High: 3},
			{Name: "y", High: 3},
		},
		Constraints: []Constraint{
			{Name: "diff", Low: 0, High: 3, Terms: []Term{{Var: 0, Coef: 1}, {Var: 1, Coef: -1}}},
		},
	}

	opb := program.ToOPB()

	g.Expect(opb).To(ContainSubstring("1 x1 2 x2 -1 x3 -2 x4 >= 0 ;"))
}

func TestDecodeBits(t *testing.T) {
	g := NewWithT(t)

	program := Program{Variables: []Variable{
		{Name: "a", High: 7},
		{Name: "b", High: 3},
	}}

	// a = 101b = 5, b = 10b = 2
	model := []bool{true, false, true, false, true}
	g.Expect(program.decodeBits(model)).To(Equal([]int64{5, 2}))

	// A short model leaves the missing bits at zero.
	g.Expect(program.decodeBits([]bool{true})).To(Equal([]int64{1, 0}))
}

func TestToLP(t *testing.T) {
	g := NewWithT(t)

	program := Program{
		Variables: []Variable{
			{Name: "x", High: 1000},
			{Name: "y", High: 50},
		},
		Constraints: []Constraint{
			{Name: "demand", Low: 5, High: 5, Terms: []Term{{Var: 0, Coef: 3}}},
			{Name: "cap", Low: 0, High: 42, Terms: []Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 2}}},
		},
		Objective: []Term{{Var: 0, Coef: 1}, {Var: 1, Coef: -9500}},
	}

	lp := program.ToLP()

	g.Expect(lp).To(HavePrefix("Minimize\n"))
	g.Expect(lp).To(ContainSubstring("obj: + 1 x0 - 9500 x1"))
	g.Expect(lp).To(ContainSubstring("c0: + 3 x0 = 5"))
	g.Expect(lp).To(ContainSubstring("c1_lb: + 1 x0 + 2 x1 >= 0"))
	g.Expect(lp).To(ContainSubstring("c1_ub: + 1 x0 + 2 x1 <= 42"))
	g.Expect(lp).To(ContainSubstring("0 <= x0 <= 1000"))
	g.Expect(lp).To(ContainSubstring("General\n x0 x1"))
	g.Expect(lp).To(HaveSuffix("End\n"))
}

func TestParseCbcSolution(t *testing.T) {
	g := NewWithT(t)

	program := Program{Variables: []Variable{{High: 10}, {High: 10}, {High: 10}}}

	out := "Optimal - objective value 7.00000000\n" +
		"      0 x0                      3                       1\n" +
		"      2 x2                      4                       1\n"
	result, err := parseCbcSolution(out, program)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Status).To(Equal(StatusOptimal))
	g.Expect(result.Values).To(Equal([]int64{3, 0, 4}))

	result, err = parseCbcSolution("Infeasible - objective value 0.00000000\n", program)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Status).To(Equal(StatusInfeasible))
}
