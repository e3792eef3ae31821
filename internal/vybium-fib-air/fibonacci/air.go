package fibonacci

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/protocols"
)

// Constraint names, in declaration order.
const (
	ConstraintRegister0Step = "register_0_step"
	ConstraintRegister1Step = "register_1_step"

	AssertStart0  = "start_0"
	AssertStart1  = "start_1"
	AssertResult0 = "result_0"
	AssertResult1 = "result_1"
)

// BuildAIR builds the Fibonacci AIR for a trace of traceLength rows, using
// the default constraint degree bound.
func BuildAIR(traceLength int, pub PublicInputs) (*protocols.AIRConstraints, error) {
	return BuildAIRWithDegreeBound(traceLength, pub, protocols.DefaultSTARKParameters().MaxConstraintDegree)
}

// BuildAIRWithDegreeBound builds the AIR and fails with
// protocols.ErrConstraintDegreeExceeded if a constraint is declared above
// maxDegree. The result depends only on its arguments.
func BuildAIRWithDegreeBound(traceLength int, pub PublicInputs, maxDegree int) (*protocols.AIRConstraints, error) {
	if err := checkLength(traceLength); err != nil {
		return nil, err
	}

	air, err := protocols.NewAIRConstraints(TraceWidth, traceLength, pub.Elements())
	if err != nil {
		return nil, fmt.Errorf("failed to create AIR: %w", err)
	}

	// a' = a + b
	air.AddTransitionConstraint(ConstraintRegister0Step, 1, func(cur, next []field.Element) field.Element {
		return next[0].Sub(cur[0].Add(cur[1]))
	})
	// b' = a' + b
	air.AddTransitionConstraint(ConstraintRegister1Step, 1, func(cur, next []field.Element) field.Element {
		return next[1].Sub(next[0].Add(cur[1]))
	})

	last := traceLength - 1
	assertions := []struct {
		name   string
		column int
		step   int
		value  field.Element
	}{
		{AssertStart0, 0, 0, pub.Start0},
		{AssertStart1, 1, 0, pub.Start1},
		{AssertResult0, 0, last, pub.Result0},
		{AssertResult1, 1, last, pub.Result1},
	}
	for _, a := range assertions {
		if err := air.AddBoundaryConstraint(a.name, a.column, a.step, a.value); err != nil {
			return nil, err
		}
	}

	if err := air.CheckDegree(maxDegree); err != nil {
		return nil, err
	}
	return air, nil
}
