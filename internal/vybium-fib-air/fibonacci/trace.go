// Package fibonacci defines the AIR proving that a two-register trace encodes
// a segment of the Fibonacci sequence.
//
// Row k of the trace holds (s_{2k}, s_{2k+1}) of the flattened sequence
// s_0 = s_1 = 1, s_i = s_{i-1} + s_{i-2}, so every row advances the sequence
// by two terms.
package fibonacci

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/utils"
)

// TraceWidth is the number of registers.
const TraceWidth = 2

var (
	// ErrInvalidLength is returned for trace lengths that are zero, negative
	// or not a power of two.
	ErrInvalidLength = errors.New("invalid trace length")

	// ErrTraceMismatch is returned when a trace's first or last row
	// disagrees with the public inputs.
	ErrTraceMismatch = errors.New("trace does not match public inputs")
)

// Trace is an immutable two-register execution trace.
type Trace struct {
	columns [TraceWidth][]field.Element
}

func checkLength(n int) error {
	if !utils.IsPowerOfTwo(n) {
		return fmt.Errorf("%w: %d is not a positive power of 2", ErrInvalidLength, n)
	}
	return nil
}

// BuildTrace builds n rows starting from the default seed (1, 1).
func BuildTrace(n int) (*Trace, error) {
	return BuildTraceFrom(n, field.New(DefaultStart0), field.New(DefaultStart1))
}

// BuildTraceFrom builds n rows starting from (start0, start1).
func BuildTraceFrom(n int, start0, start1 field.Element) (*Trace, error) {
	if err := checkLength(n); err != nil {
		return nil, err
	}

	r0 := make([]field.Element, n)
	r1 := make([]field.Element, n)
	r0[0], r1[0] = start0, start1
	for k := 1; k < n; k++ {
		r0[k] = r0[k-1].Add(r1[k-1])
		r1[k] = r0[k].Add(r1[k-1])
	}

	return &Trace{columns: [TraceWidth][]field.Element{r0, r1}}, nil
}

// NewTrace wraps caller-supplied columns. Both columns must have the same
// power-of-two length; nothing else is checked.
func NewTrace(register0, register1 []field.Element) (*Trace, error) {
	if len(register0) != len(register1) {
		return nil, fmt.Errorf("%w: columns have %d and %d rows", ErrInvalidLength, len(register0), len(register1))
	}
	if err := checkLength(len(register0)); err != nil {
		return nil, err
	}
	return &Trace{columns: [TraceWidth][]field.Element{
		append([]field.Element(nil), register0...),
		append([]field.Element(nil), register1...),
	}}, nil
}

// Length returns the number of rows.
func (t *Trace) Length() int {
	return len(t.columns[0])
}

// Width returns the number of registers.
func (t *Trace) Width() int {
	return TraceWidth
}

// Get returns register col at row.
func (t *Trace) Get(col, row int) field.Element {
	return t.columns[col][row]
}

// Row returns a copy of row k.
func (t *Trace) Row(k int) []field.Element {
	return []field.Element{t.columns[0][k], t.columns[1][k]}
}

// Columns returns a column-major copy of the trace.
func (t *Trace) Columns() [][]field.Element {
	out := make([][]field.Element, TraceWidth)
	for i, col := range t.columns {
		out[i] = append([]field.Element(nil), col...)
	}
	return out
}

// Equal reports whether two traces hold identical values.
func (t *Trace) Equal(other *Trace) bool {
	if t.Length() != other.Length() {
		return false
	}
	for c := range t.columns {
		for r := range t.columns[c] {
			if !t.columns[c][r].Equal(other.columns[c][r]) {
				return false
			}
		}
	}
	return true
}

// Term returns s_i of the flattened sequence starting 1, 1, 2, 3, 5.
// It uses fast doubling, so it does not need a trace.
func Term(i uint64) field.Element {
	// s_i = F(i+1) with F(0) = 0, F(1) = 1
	f, _ := fibPair(i + 1)
	return f
}

// fibPair returns (F(k), F(k+1)).
func fibPair(k uint64) (field.Element, field.Element) {
	if k == 0 {
		return field.Zero, field.One
	}
	a, b := fibPair(k / 2)
	two := field.New(2)
	c := a.Mul(b.Mul(two).Sub(a)) // F(2m)
	d := a.Mul(a).Add(b.Mul(b))   // F(2m+1)
	if k%2 == 0 {
		return c, d
	}
	return d, c.Add(d)
}
