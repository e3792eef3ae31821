package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/utils"
)

// ArithmeticDomain represents a domain for polynomial operations
// This is a coset of a multiplicative subgroup: {offset * generator^i : i = 0..length-1}
//
// All domains have power-of-2 lengths for efficient NTT operations.
type ArithmeticDomain struct {
	// Offset shifts the domain (field.One for no offset)
	Offset field.Element

	// Generator is a primitive n-th root of unity where n = length
	Generator field.Element

	// Length is the number of elements in the domain (must be power of 2)
	Length int
}

// NewArithmeticDomain creates a domain with the given length and no offset
func NewArithmeticDomain(length int) (*ArithmeticDomain, error) {
	if !utils.IsPowerOfTwo(length) {
		return nil, fmt.Errorf("domain length must be a power of 2, got %d", length)
	}

	generator, err := primitiveRoot(length)
	if err != nil {
		return nil, err
	}

	return &ArithmeticDomain{
		Offset:    field.One,
		Generator: generator,
		Length:    length,
	}, nil
}

// primitiveRoot returns a primitive length-th root of unity. The table in
// field.PrimitiveRoots holds canonical values, so they go through field.New.
func primitiveRoot(length int) (field.Element, error) {
	raw, ok := field.PrimitiveRoots[uint64(length)]
	if !ok {
		return field.Zero, fmt.Errorf("no primitive root of unity of order %d", length)
	}
	root := field.New(raw)
	if err := checkRootOrder(root, length); err != nil {
		return field.Zero, err
	}
	return root, nil
}

// checkRootOrder ensures root has multiplicative order exactly length.
func checkRootOrder(root field.Element, length int) error {
	if !root.ModPow(uint64(length)).Equal(field.One) {
		return fmt.Errorf("generator %s is not a %d-th root of unity", root.String(), length)
	}
	if length > 1 && root.ModPow(uint64(length/2)).Equal(field.One) {
		return fmt.Errorf("generator %s is not a primitive %d-th root of unity", root.String(), length)
	}
	return nil
}

// WithOffset returns a new domain with the given offset
func (d *ArithmeticDomain) WithOffset(offset field.Element) *ArithmeticDomain {
	return &ArithmeticDomain{
		Offset:    offset,
		Generator: d.Generator,
		Length:    d.Length,
	}
}

// Subgroup returns the unshifted subgroup generated by Generator^factor.
// The trace domain is derived from the LDE domain this way so that stepping
// one trace row equals stepping factor LDE rows.
func (d *ArithmeticDomain) Subgroup(factor int) (*ArithmeticDomain, error) {
	if factor < 1 || !utils.IsPowerOfTwo(factor) || factor > d.Length {
		return nil, fmt.Errorf("subgroup factor must be a power of 2 in [1, %d], got %d", d.Length, factor)
	}
	return &ArithmeticDomain{
		Offset:    field.One,
		Generator: d.Generator.ModPow(uint64(factor)),
		Length:    d.Length / factor,
	}, nil
}

// Halve returns a domain with half the length
// Both offset and generator are squared (not halved)
func (d *ArithmeticDomain) Halve() (*ArithmeticDomain, error) {
	if d.Length < 2 {
		return nil, fmt.Errorf("cannot halve domain of length %d", d.Length)
	}

	return &ArithmeticDomain{
		Offset:    d.Offset.Mul(d.Offset),
		Generator: d.Generator.Mul(d.Generator),
		Length:    d.Length / 2,
	}, nil
}

// Element returns offset * generator^i
func (d *ArithmeticDomain) Element(i int) field.Element {
	return d.Offset.Mul(d.Generator.ModPow(uint64(i)))
}

// Elements returns all elements in the domain: {offset * generator^i : i = 0..length-1}
func (d *ArithmeticDomain) Elements() []field.Element {
	elements := make([]field.Element, d.Length)
	current := d.Offset
	for i := 0; i < d.Length; i++ {
		elements[i] = current
		current = current.Mul(d.Generator)
	}
	return elements
}

// Interpolate returns the unique polynomial of degree < Length that takes
// values[i] at Element(i).
func (d *ArithmeticDomain) Interpolate(values []field.Element) (*polynomial.Polynomial, error) {
	if len(values) != d.Length {
		return nil, fmt.Errorf("expected %d values, got %d", d.Length, len(values))
	}

	coeffs := append([]field.Element(nil), values...)
	ntt(coeffs, d.Generator.Inverse())

	nInv := field.New(uint64(d.Length)).Inverse()
	offsetInv := d.Offset.Inverse()
	scale := nInv
	for i := range coeffs {
		coeffs[i] = coeffs[i].Mul(scale)
		scale = scale.Mul(offsetInv)
	}
	return polynomial.New(coeffs), nil
}

// Evaluate evaluates a polynomial (in coefficient form) over the entire domain
func (d *ArithmeticDomain) Evaluate(poly *polynomial.Polynomial) ([]field.Element, error) {
	coeffs := poly.Coefficients()
	if len(coeffs) > d.Length {
		return nil, fmt.Errorf("polynomial of degree %d does not fit a domain of length %d", poly.Degree(), d.Length)
	}

	values := make([]field.Element, d.Length)
	scale := field.One
	for i := 0; i < d.Length; i++ {
		if i < len(coeffs) {
			values[i] = coeffs[i].Mul(scale)
		} else {
			values[i] = field.Zero
		}
		scale = scale.Mul(d.Offset)
	}
	ntt(values, d.Generator)
	return values, nil
}

// String returns a human-readable representation
func (d *ArithmeticDomain) String() string {
	return fmt.Sprintf("Domain{length: %d, offset: %v, generator: %v}",
		d.Length, d.Offset.String(), d.Generator.String())
}

// ntt runs an in-place radix-2 number theoretic transform. root must be a
// primitive len(values)-th root of unity.
func ntt(values []field.Element, root field.Element) {
	n := len(values)
	if n <= 1 {
		return
	}

	// bit-reversal permutation
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			values[i], values[j] = values[j], values[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		wStep := root.ModPow(uint64(n / size))
		half := size / 2
		for start := 0; start < n; start += size {
			w := field.One
			for k := 0; k < half; k++ {
				u := values[start+k]
				v := values[start+k+half].Mul(w)
				values[start+k] = u.Add(v)
				values[start+k+half] = u.Sub(v)
				w = w.Mul(wStep)
			}
		}
	}
}
