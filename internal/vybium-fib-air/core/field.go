package core

import (
	"encoding/binary"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// ElementSize is the byte length of an encoded field element.
const ElementSize = 8

// ElementFromUint64 reduces v modulo the field prime.
func ElementFromUint64(v uint64) field.Element {
	return field.New(v % field.P)
}

// ElementFromCanonical decodes a value that must already be reduced.
func ElementFromCanonical(v uint64) (field.Element, error) {
	if v >= field.P {
		return field.Zero, fmt.Errorf("value %d is not a canonical field element", v)
	}
	return field.New(v), nil
}

// AppendElement appends the little-endian encoding of e to dst.
func AppendElement(dst []byte, e field.Element) []byte {
	return binary.LittleEndian.AppendUint64(dst, e.Value())
}

// ElementsToBytes encodes a slice of elements back to back.
func ElementsToBytes(elems []field.Element) []byte {
	out := make([]byte, 0, len(elems)*ElementSize)
	for _, e := range elems {
		out = AppendElement(out, e)
	}
	return out
}

// ElementsFromBytes decodes a buffer produced by ElementsToBytes.
func ElementsFromBytes(data []byte) ([]field.Element, error) {
	if len(data)%ElementSize != 0 {
		return nil, fmt.Errorf("buffer length %d is not a multiple of %d", len(data), ElementSize)
	}
	elems := make([]field.Element, len(data)/ElementSize)
	for i := range elems {
		e, err := ElementFromCanonical(binary.LittleEndian.Uint64(data[i*ElementSize:]))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = e
	}
	return elems, nil
}

// BatchInversion inverts every element with a single field inversion
// (Montgomery's trick). All inputs must be non-zero.
func BatchInversion(elems []field.Element) ([]field.Element, error) {
	n := len(elems)
	if n == 0 {
		return nil, nil
	}
	prefix := make([]field.Element, n)
	acc := field.One
	for i, e := range elems {
		if e.IsZero() {
			return nil, fmt.Errorf("cannot invert zero at index %d", i)
		}
		prefix[i] = acc
		acc = acc.Mul(e)
	}
	inv := acc.Inverse()
	out := make([]field.Element, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = inv.Mul(prefix[i])
		inv = inv.Mul(elems[i])
	}
	return out, nil
}
