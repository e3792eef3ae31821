package fibonacci

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/core"
)

// Seed of the sequence, fib(0) = fib(1) = 1.
const (
	DefaultStart0 uint64 = 1
	DefaultStart1 uint64 = 1
)

// PublicInputsSize is the length of the binary encoding.
const PublicInputsSize = 4 * core.ElementSize

// PublicInputs is everything the verifier knows about the claim: the first
// row and the claimed last row.
type PublicInputs struct {
	Start0  field.Element
	Start1  field.Element
	Result0 field.Element
	Result1 field.Element
}

// NewPublicInputs claims (result0, result1) as the last row of a sequence
// starting from the default seed.
func NewPublicInputs(result0, result1 field.Element) PublicInputs {
	return PublicInputs{
		Start0:  field.New(DefaultStart0),
		Start1:  field.New(DefaultStart1),
		Result0: result0,
		Result1: result1,
	}
}

// PublicInputsFromTrace reads the honest public inputs off a trace.
func PublicInputsFromTrace(t *Trace) PublicInputs {
	last := t.Length() - 1
	return PublicInputs{
		Start0:  t.Get(0, 0),
		Start1:  t.Get(1, 0),
		Result0: t.Get(0, last),
		Result1: t.Get(1, last),
	}
}

// Elements returns the inputs in canonical order: start_0, start_1, result_0, result_1.
func (p PublicInputs) Elements() []field.Element {
	return []field.Element{p.Start0, p.Start1, p.Result0, p.Result1}
}

// Equal reports whether both sides hold the same four values.
func (p PublicInputs) Equal(other PublicInputs) bool {
	return p.Start0.Equal(other.Start0) &&
		p.Start1.Equal(other.Start1) &&
		p.Result0.Equal(other.Result0) &&
		p.Result1.Equal(other.Result1)
}

// CheckTrace fails with ErrTraceMismatch if the trace's first or last row
// differs from p.
func (p PublicInputs) CheckTrace(t *Trace) error {
	actual := PublicInputsFromTrace(t)
	if !p.Start0.Equal(actual.Start0) || !p.Start1.Equal(actual.Start1) {
		return fmt.Errorf("%w: row 0 is (%s, %s), public inputs claim (%s, %s)", ErrTraceMismatch,
			actual.Start0.String(), actual.Start1.String(), p.Start0.String(), p.Start1.String())
	}
	if !p.Result0.Equal(actual.Result0) || !p.Result1.Equal(actual.Result1) {
		return fmt.Errorf("%w: row %d is (%s, %s), public inputs claim (%s, %s)", ErrTraceMismatch,
			t.Length()-1, actual.Result0.String(), actual.Result1.String(), p.Result0.String(), p.Result1.String())
	}
	return nil
}

// MarshalBinary encodes the inputs as four little-endian uint64 values in canonical order.
func (p PublicInputs) MarshalBinary() ([]byte, error) {
	return core.ElementsToBytes(p.Elements()), nil
}

// UnmarshalBinary decodes the encoding produced by MarshalBinary.
func (p *PublicInputs) UnmarshalBinary(data []byte) error {
	if len(data) != PublicInputsSize {
		return fmt.Errorf("public inputs must be %d bytes, got %d", PublicInputsSize, len(data))
	}
	elems, err := core.ElementsFromBytes(data)
	if err != nil {
		return fmt.Errorf("invalid public inputs: %w", err)
	}
	p.Start0, p.Start1, p.Result0, p.Result1 = elems[0], elems[1], elems[2], elems[3]
	return nil
}

type publicInputsJSON struct {
	Start0  uint64 `json:"start_0"`
	Start1  uint64 `json:"start_1"`
	Result0 uint64 `json:"result_0"`
	Result1 uint64 `json:"result_1"`
}

// MarshalJSON writes the inputs as canonical integers.
func (p PublicInputs) MarshalJSON() ([]byte, error) {
	return json.Marshal(publicInputsJSON{
		Start0:  p.Start0.Value(),
		Start1:  p.Start1.Value(),
		Result0: p.Result0.Value(),
		Result1: p.Result1.Value(),
	})
}

// UnmarshalJSON reads inputs written by MarshalJSON. Missing start values
// default to the sequence seed.
func (p *PublicInputs) UnmarshalJSON(data []byte) error {
	w := publicInputsJSON{Start0: DefaultStart0, Start1: DefaultStart1}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	values := []uint64{w.Start0, w.Start1, w.Result0, w.Result1}
	buf := make([]byte, 0, PublicInputsSize)
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}
	return p.UnmarshalBinary(buf)
}

// String returns a human-readable representation
func (p PublicInputs) String() string {
	return fmt.Sprintf("PublicInputs{start: (%s, %s), result: (%s, %s)}",
		p.Start0.String(), p.Start1.String(), p.Result0.String(), p.Result1.String())
}
