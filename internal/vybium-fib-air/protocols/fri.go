package protocols

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/core"
)

var twoInv = field.New(2).Inverse()

// friLayer is one committed FRI codeword together with its domain.
type friLayer struct {
	domain   *ArithmeticDomain
	codeword []field.Element
	tree     *core.MerkleTree
}

func commitValues(h core.HashFunction, values []field.Element) (*core.MerkleTree, error) {
	leaves := make([][]byte, len(values))
	for i, v := range values {
		leaves[i] = core.AppendElement(nil, v)
	}
	return core.NewMerkleTree(h, leaves)
}

// foldPair combines f(y) = a and f(-y) = b into the value of
// f_even(y^2) + beta * f_odd(y^2).
func foldPair(a, b, beta, yInv field.Element) field.Element {
	sum := a.Add(b)
	diff := a.Sub(b).Mul(beta).Mul(yInv)
	return sum.Add(diff).Mul(twoInv)
}

// foldCodeword halves a codeword over domain using the challenge beta.
// The result lives on domain.Halve().
func foldCodeword(codeword []field.Element, domain *ArithmeticDomain, beta field.Element) ([]field.Element, error) {
	if len(codeword) != domain.Length {
		return nil, fmt.Errorf("codeword length %d does not match domain length %d", len(codeword), domain.Length)
	}
	half := domain.Length / 2
	if half == 0 {
		return nil, fmt.Errorf("cannot fold a codeword of length %d", len(codeword))
	}

	ys := domain.Elements()[:half]
	yInvs, err := core.BatchInversion(ys)
	if err != nil {
		return nil, fmt.Errorf("domain contains zero: %w", err)
	}

	next := make([]field.Element, half)
	for j := 0; j < half; j++ {
		next[j] = foldPair(codeword[j], codeword[j+half], beta, yInvs[j])
	}
	return next, nil
}

// isConstant reports whether every entry equals the first one.
func isConstant(values []field.Element) bool {
	for _, v := range values[1:] {
		if !v.Equal(values[0]) {
			return false
		}
	}
	return true
}

// grindingDigest hashes the transcript state with a candidate nonce.
func grindingDigest(h core.HashFunction, state []byte, nonce uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], nonce)
	return h.Sum(state, buf[:])
}

func leadingZeroBits(digest []byte) int {
	count := 0
	for _, b := range digest {
		if b == 0 {
			count += 8
			continue
		}
		return count + bits.LeadingZeros8(b)
	}
	return count
}

// checkGrinding reports whether nonce satisfies the proof-of-work target.
func checkGrinding(h core.HashFunction, state []byte, nonce uint64, target int) bool {
	return leadingZeroBits(grindingDigest(h, state, nonce)) >= target
}

// grind searches for the smallest nonce meeting the proof-of-work target.
func grind(h core.HashFunction, state []byte, target int) uint64 {
	for nonce := uint64(0); ; nonce++ {
		if checkGrinding(h, state, nonce, target) {
			return nonce
		}
	}
}

func encodeNonce(nonce uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, nonce)
}
