package protocols

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/core"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/utils"
)

// Proof is a non-interactive STARK proof that a trace satisfies an AIR.
//
// Messages appear in the order the prover sent them to the channel:
// trace root, composition root, FRI layer roots, final layer, grinding
// nonce. The query openings are derived from the transcript afterwards.
type Proof struct {
	// TraceLength is the number of trace rows the proof was generated for
	TraceLength int

	// TraceRoot commits to the rows of the low-degree extended trace
	TraceRoot []byte

	// CompositionRoot commits to the composition polynomial over the LDE domain
	CompositionRoot []byte

	// FRIRoots commits to each intermediate FRI layer
	FRIRoots [][]byte

	// FinalLayer is the last FRI codeword, sent in the clear
	FinalLayer []field.Element

	// Nonce is the proof-of-work solution
	Nonce uint64

	Queries []QueryProof
}

// QueryProof holds every opening for one query position.
type QueryProof struct {
	// TraceRows opens the trace at x, g*x, -x and -g*x
	TraceRows []RowOpening

	// Composition opens the composition codeword at x and -x
	Composition []ValueOpening

	// FRILayers opens each committed FRI layer at a symmetric pair
	FRILayers [][]ValueOpening
}

// RowOpening is an authenticated trace row.
type RowOpening struct {
	Index  int
	Values []field.Element
	Path   [][]byte
}

// ValueOpening is an authenticated single codeword entry.
type ValueOpening struct {
	Index int
	Value field.Element
	Path  [][]byte
}

// Validate performs structural checks that do not need the transcript.
func (p *Proof) Validate() error {
	if p == nil {
		return fmt.Errorf("proof is nil")
	}
	if !utils.IsPowerOfTwo(p.TraceLength) {
		return fmt.Errorf("trace length must be a power of 2, got %d", p.TraceLength)
	}
	if len(p.TraceRoot) != core.DigestSize {
		return fmt.Errorf("trace root has %d bytes, expected %d", len(p.TraceRoot), core.DigestSize)
	}
	if len(p.CompositionRoot) != core.DigestSize {
		return fmt.Errorf("composition root has %d bytes, expected %d", len(p.CompositionRoot), core.DigestSize)
	}
	for i, root := range p.FRIRoots {
		if len(root) != core.DigestSize {
			return fmt.Errorf("FRI root %d has %d bytes, expected %d", i, len(root), core.DigestSize)
		}
	}
	if len(p.FinalLayer) == 0 {
		return fmt.Errorf("final FRI layer is empty")
	}
	if len(p.Queries) == 0 {
		return fmt.Errorf("proof has no queries")
	}
	return nil
}

// Size returns the approximate proof size in bytes.
func (p *Proof) Size() int {
	size := 8 + len(p.TraceRoot) + len(p.CompositionRoot) + 8
	for _, root := range p.FRIRoots {
		size += len(root)
	}
	size += len(p.FinalLayer) * core.ElementSize

	for _, q := range p.Queries {
		for _, row := range q.TraceRows {
			size += len(row.Values)*core.ElementSize + len(row.Path)*core.DigestSize
		}
		for _, v := range q.Composition {
			size += core.ElementSize + len(v.Path)*core.DigestSize
		}
		for _, layer := range q.FRILayers {
			for _, v := range layer {
				size += core.ElementSize + len(v.Path)*core.DigestSize
			}
		}
	}
	return size
}

// String returns a human-readable representation
func (p *Proof) String() string {
	return fmt.Sprintf("Proof{rows: %d, fri_layers: %d, final: %d, queries: %d, size: %d bytes}",
		p.TraceLength, len(p.FRIRoots), len(p.FinalLayer), len(p.Queries), p.Size())
}

// wire types: field elements travel as canonical uint64 values

type proofWire struct {
	TraceLength     uint64      `cbor:"1,keyasint"`
	TraceRoot       []byte      `cbor:"2,keyasint"`
	CompositionRoot []byte      `cbor:"3,keyasint"`
	FRIRoots        [][]byte    `cbor:"4,keyasint"`
	FinalLayer      []uint64    `cbor:"5,keyasint"`
	Nonce           uint64      `cbor:"6,keyasint"`
	Queries         []queryWire `cbor:"7,keyasint"`
}

type queryWire struct {
	TraceRows   []rowWire     `cbor:"1,keyasint"`
	Composition []valueWire   `cbor:"2,keyasint"`
	FRILayers   [][]valueWire `cbor:"3,keyasint"`
}

type rowWire struct {
	Index  uint64   `cbor:"1,keyasint"`
	Values []uint64 `cbor:"2,keyasint"`
	Path   [][]byte `cbor:"3,keyasint"`
}

type valueWire struct {
	Index uint64   `cbor:"1,keyasint"`
	Value uint64   `cbor:"2,keyasint"`
	Path  [][]byte `cbor:"3,keyasint"`
}

var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// MarshalBinary encodes the proof as deterministic CBOR.
func (p *Proof) MarshalBinary() ([]byte, error) {
	w := proofWire{
		TraceLength:     uint64(p.TraceLength),
		TraceRoot:       p.TraceRoot,
		CompositionRoot: p.CompositionRoot,
		FRIRoots:        p.FRIRoots,
		FinalLayer:      elementsToWire(p.FinalLayer),
		Nonce:           p.Nonce,
		Queries:         make([]queryWire, len(p.Queries)),
	}

	for i, q := range p.Queries {
		qw := queryWire{
			TraceRows:   make([]rowWire, len(q.TraceRows)),
			Composition: valuesToWire(q.Composition),
			FRILayers:   make([][]valueWire, len(q.FRILayers)),
		}
		for j, row := range q.TraceRows {
			qw.TraceRows[j] = rowWire{Index: uint64(row.Index), Values: elementsToWire(row.Values), Path: row.Path}
		}
		for j, layer := range q.FRILayers {
			qw.FRILayers[j] = valuesToWire(layer)
		}
		w.Queries[i] = qw
	}

	data, err := encMode.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("failed to encode proof: %w", err)
	}
	return data, nil
}

// UnmarshalProof decodes a proof produced by MarshalBinary. Field elements
// must be canonical.
func UnmarshalProof(data []byte) (*Proof, error) {
	var w proofWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode proof: %w", err)
	}

	finalLayer, err := elementsFromWire(w.FinalLayer)
	if err != nil {
		return nil, fmt.Errorf("final layer: %w", err)
	}

	p := &Proof{
		TraceLength:     int(w.TraceLength),
		TraceRoot:       w.TraceRoot,
		CompositionRoot: w.CompositionRoot,
		FRIRoots:        w.FRIRoots,
		FinalLayer:      finalLayer,
		Nonce:           w.Nonce,
		Queries:         make([]QueryProof, len(w.Queries)),
	}

	for i, qw := range w.Queries {
		q := QueryProof{
			TraceRows: make([]RowOpening, len(qw.TraceRows)),
			FRILayers: make([][]ValueOpening, len(qw.FRILayers)),
		}
		for j, rw := range qw.TraceRows {
			values, err := elementsFromWire(rw.Values)
			if err != nil {
				return nil, fmt.Errorf("query %d trace row %d: %w", i, j, err)
			}
			q.TraceRows[j] = RowOpening{Index: int(rw.Index), Values: values, Path: rw.Path}
		}
		if q.Composition, err = valuesFromWire(qw.Composition); err != nil {
			return nil, fmt.Errorf("query %d composition: %w", i, err)
		}
		for j, layer := range qw.FRILayers {
			if q.FRILayers[j], err = valuesFromWire(layer); err != nil {
				return nil, fmt.Errorf("query %d FRI layer %d: %w", i, j, err)
			}
		}
		p.Queries[i] = q
	}

	return p, nil
}

func elementsToWire(elems []field.Element) []uint64 {
	out := make([]uint64, len(elems))
	for i, e := range elems {
		out[i] = e.Value()
	}
	return out
}

func elementsFromWire(values []uint64) ([]field.Element, error) {
	out := make([]field.Element, len(values))
	for i, v := range values {
		e, err := core.ElementFromCanonical(v)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func valuesToWire(openings []ValueOpening) []valueWire {
	out := make([]valueWire, len(openings))
	for i, o := range openings {
		out[i] = valueWire{Index: uint64(o.Index), Value: o.Value.Value(), Path: o.Path}
	}
	return out
}

func valuesFromWire(openings []valueWire) ([]ValueOpening, error) {
	out := make([]ValueOpening, len(openings))
	for i, o := range openings {
		e, err := core.ElementFromCanonical(o.Value)
		if err != nil {
			return nil, err
		}
		out[i] = ValueOpening{Index: int(o.Index), Value: e, Path: o.Path}
	}
	return out, nil
}
