package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// composition evaluates the random linear combination of constraint
// quotients at a single point of the LDE domain:
//
//	H(x) = sum_j alpha_j * C_j(T(x), T(g*x)) * (x - g^(n-1)) / (x^n - 1)
//	     + sum_k alpha_k * (T_c(x) - v_k) / (x - g^(r_k))
//
// Alphas are indexed transitions first, then boundary constraints.
type composition struct {
	air            *AIRConstraints
	alphas         []field.Element
	lastRow        field.Element
	boundaryPoints []field.Element
}

func newComposition(air *AIRConstraints, traceDomain *ArithmeticDomain, alphas []field.Element) (*composition, error) {
	if len(alphas) != air.NumConstraints() {
		return nil, fmt.Errorf("expected %d composition coefficients, got %d", air.NumConstraints(), len(alphas))
	}

	points := make([]field.Element, len(air.boundaryConstraints))
	for i, b := range air.boundaryConstraints {
		points[i] = traceDomain.Element(b.Step)
	}

	return &composition{
		air:            air,
		alphas:         alphas,
		lastRow:        traceDomain.Element(traceDomain.Length - 1),
		boundaryPoints: points,
	}, nil
}

func (c *composition) evaluate(x field.Element, current, next []field.Element) (field.Element, error) {
	acc := field.Zero
	n := c.air.traceLength
	numTransitions := len(c.air.transitionConstraints)

	// a single-row trace has no transitions to enforce
	if n > 1 && numTransitions > 0 {
		zerofier := x.ModPow(uint64(n)).Sub(field.One)
		if zerofier.IsZero() {
			return field.Zero, fmt.Errorf("point %s lies on the trace domain", x.String())
		}
		factor := x.Sub(c.lastRow).Mul(zerofier.Inverse())

		for j, tc := range c.air.transitionConstraints {
			v := tc.Evaluator(current, next)
			acc = acc.Add(c.alphas[j].Mul(v).Mul(factor))
		}
	}

	for k, b := range c.air.boundaryConstraints {
		denom := x.Sub(c.boundaryPoints[k])
		if denom.IsZero() {
			return field.Zero, fmt.Errorf("point %s lies on the trace domain", x.String())
		}
		quotient := current[b.Column].Sub(b.Value).Mul(denom.Inverse())
		acc = acc.Add(c.alphas[numTransitions+k].Mul(quotient))
	}

	return acc, nil
}
