package protocols

import (
	"encoding/binary"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/core"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/utils"
)

// AIRConstraints is the backend-agnostic description of an AIR.
//
// Constraints come in two kinds:
// 1. Transition: polynomials over two consecutive rows, which must vanish on
//    every row except the last
// 2. Boundary: assertions that a register holds a value at one specific row
//
// The public inputs are carried along so the backend can bind them into the
// Fiat-Shamir transcript. Once built, an AIRConstraints is never mutated by
// the backend.
type AIRConstraints struct {
	traceWidth  int
	traceLength int

	publicInputs []field.Element

	transitionConstraints []*TransitionConstraintPolynomial
	boundaryConstraints   []*BoundaryConstraint
}

// TransitionConstraintPolynomial represents a constraint over two consecutive rows
type TransitionConstraintPolynomial struct {
	// Name for debugging
	Name string

	// Degree of this constraint polynomial in the trace registers
	Degree int

	// Evaluator takes current and next rows and returns the constraint value.
	// The constraint is satisfied if this evaluates to zero.
	Evaluator func(currentRow, nextRow []field.Element) field.Element
}

// BoundaryConstraint pins register Column at row Step to Value.
type BoundaryConstraint struct {
	Name   string
	Column int
	Step   int
	Value  field.Element
}

// NewAIRConstraints creates an empty AIR for a trace of the given shape.
func NewAIRConstraints(traceWidth, traceLength int, publicInputs []field.Element) (*AIRConstraints, error) {
	if traceWidth < 1 {
		return nil, fmt.Errorf("trace width must be at least 1, got %d", traceWidth)
	}
	if !utils.IsPowerOfTwo(traceLength) {
		return nil, fmt.Errorf("trace length must be a power of 2, got %d", traceLength)
	}

	return &AIRConstraints{
		traceWidth:            traceWidth,
		traceLength:           traceLength,
		publicInputs:          append([]field.Element(nil), publicInputs...),
		transitionConstraints: make([]*TransitionConstraintPolynomial, 0),
		boundaryConstraints:   make([]*BoundaryConstraint, 0),
	}, nil
}

// AddTransitionConstraint adds a transition constraint
func (air *AIRConstraints) AddTransitionConstraint(name string, degree int,
	eval func(currentRow, nextRow []field.Element) field.Element,
) {
	air.transitionConstraints = append(air.transitionConstraints, &TransitionConstraintPolynomial{
		Name:      name,
		Degree:    degree,
		Evaluator: eval,
	})
}

// AddBoundaryConstraint asserts that register column holds value at row step.
func (air *AIRConstraints) AddBoundaryConstraint(name string, column, step int, value field.Element) error {
	if column < 0 || column >= air.traceWidth {
		return fmt.Errorf("boundary constraint %s: column %d out of range [0, %d)", name, column, air.traceWidth)
	}
	if step < 0 || step >= air.traceLength {
		return fmt.Errorf("boundary constraint %s: step %d out of range [0, %d)", name, step, air.traceLength)
	}

	air.boundaryConstraints = append(air.boundaryConstraints, &BoundaryConstraint{
		Name:   name,
		Column: column,
		Step:   step,
		Value:  value,
	})
	return nil
}

// TraceWidth returns the number of registers.
func (air *AIRConstraints) TraceWidth() int {
	return air.traceWidth
}

// TraceLength returns the number of rows.
func (air *AIRConstraints) TraceLength() int {
	return air.traceLength
}

// PublicInputs returns a copy of the public input elements.
func (air *AIRConstraints) PublicInputs() []field.Element {
	return append([]field.Element(nil), air.publicInputs...)
}

// TransitionConstraints returns the transition constraints in declaration order.
func (air *AIRConstraints) TransitionConstraints() []*TransitionConstraintPolynomial {
	return air.transitionConstraints
}

// BoundaryConstraints returns the boundary constraints in declaration order.
func (air *AIRConstraints) BoundaryConstraints() []*BoundaryConstraint {
	return air.boundaryConstraints
}

// MaxDegree returns the maximum degree of all transition constraints
func (air *AIRConstraints) MaxDegree() int {
	maxDeg := 0
	for _, c := range air.transitionConstraints {
		if c.Degree > maxDeg {
			maxDeg = c.Degree
		}
	}
	return maxDeg
}

// NumConstraints returns the total number of constraints
func (air *AIRConstraints) NumConstraints() int {
	return len(air.transitionConstraints) + len(air.boundaryConstraints)
}

// CheckDegree fails with ErrConstraintDegreeExceeded if any transition
// constraint is declared above bound.
func (air *AIRConstraints) CheckDegree(bound int) error {
	for _, c := range air.transitionConstraints {
		if c.Degree > bound {
			return fmt.Errorf("%w: %s has degree %d, bound is %d", ErrConstraintDegreeExceeded, c.Name, c.Degree, bound)
		}
	}
	return nil
}

// CheckTrace evaluates every constraint directly on a column-major trace and
// reports the first one that does not vanish.
func (air *AIRConstraints) CheckTrace(columns [][]field.Element) error {
	if err := air.checkShape(columns); err != nil {
		return err
	}

	for _, b := range air.boundaryConstraints {
		if got := columns[b.Column][b.Step]; !got.Equal(b.Value) {
			return fmt.Errorf("boundary constraint %s fails at row %d: got %s, want %s",
				b.Name, b.Step, got.String(), b.Value.String())
		}
	}

	for row := 0; row+1 < air.traceLength; row++ {
		current := extractRow(columns, row)
		next := extractRow(columns, row+1)
		for _, c := range air.transitionConstraints {
			if v := c.Evaluator(current, next); !v.IsZero() {
				return fmt.Errorf("transition constraint %s fails at row %d", c.Name, row)
			}
		}
	}

	return nil
}

func (air *AIRConstraints) checkShape(columns [][]field.Element) error {
	if len(columns) != air.traceWidth {
		return fmt.Errorf("%w: expected %d columns, got %d", ErrInvalidTrace, air.traceWidth, len(columns))
	}
	for i, col := range columns {
		if len(col) != air.traceLength {
			return fmt.Errorf("%w: column %d has %d rows, expected %d", ErrInvalidTrace, i, len(col), air.traceLength)
		}
	}
	return nil
}

// Seed returns a canonical encoding of everything the verifier knows about
// the statement. It is the first message absorbed by the transcript.
func (air *AIRConstraints) Seed() []byte {
	seed := make([]byte, 0, 64)
	seed = binary.LittleEndian.AppendUint32(seed, uint32(air.traceWidth))
	seed = binary.LittleEndian.AppendUint64(seed, uint64(air.traceLength))

	seed = binary.LittleEndian.AppendUint32(seed, uint32(len(air.transitionConstraints)))
	for _, c := range air.transitionConstraints {
		seed = appendString(seed, c.Name)
		seed = binary.LittleEndian.AppendUint32(seed, uint32(c.Degree))
	}

	seed = binary.LittleEndian.AppendUint32(seed, uint32(len(air.boundaryConstraints)))
	for _, b := range air.boundaryConstraints {
		seed = appendString(seed, b.Name)
		seed = binary.LittleEndian.AppendUint32(seed, uint32(b.Column))
		seed = binary.LittleEndian.AppendUint64(seed, uint64(b.Step))
		seed = core.AppendElement(seed, b.Value)
	}

	seed = binary.LittleEndian.AppendUint32(seed, uint32(len(air.publicInputs)))
	return append(seed, core.ElementsToBytes(air.publicInputs)...)
}

func appendString(dst []byte, s string) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...)
}

// extractRow extracts a single row from a column-major table
func extractRow(table [][]field.Element, rowIdx int) []field.Element {
	row := make([]field.Element, len(table))
	for col := range table {
		row[col] = table[col][rowIdx]
	}
	return row
}
