package utils

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/core"
)

// Channel is a Fiat-Shamir transcript. Prover and verifier feed it the same
// messages in the same order and draw identical challenges from it.
type Channel struct {
	state    []byte
	hashFunc core.HashFunction
}

// NewChannel creates a channel seeded with a fixed domain separator.
func NewChannel(hashFunc core.HashFunction) *Channel {
	if hashFunc == "" {
		hashFunc = core.HashSHA3
	}
	return &Channel{
		state:    hashFunc.Sum([]byte("vybium-fib-air/v1")),
		hashFunc: hashFunc,
	}
}

// Send absorbs data into the channel state.
func (c *Channel) Send(data []byte) {
	c.state = c.hashFunc.Sum(c.state, data)
}

// SendElements absorbs field elements in their canonical byte encoding.
func (c *Channel) SendElements(elems []field.Element) {
	c.Send(core.ElementsToBytes(elems))
}

// ReceiveRandomInt returns an integer in [lo, hi]. It panics if lo > hi.
func (c *Channel) ReceiveRandomInt(lo, hi int) int {
	if lo > hi {
		panic(fmt.Sprintf("invalid range [%d, %d]", lo, hi))
	}
	rangeSize := uint64(hi-lo) + 1
	return lo + int(c.next()%rangeSize)
}

// ReceiveRandomFieldElement returns a field element derived from the channel state.
func (c *Channel) ReceiveRandomFieldElement() field.Element {
	return core.ElementFromUint64(c.next())
}

// ReceiveRandomFieldElements draws n field elements.
func (c *Channel) ReceiveRandomFieldElements(n int) []field.Element {
	elems := make([]field.Element, n)
	for i := range elems {
		elems[i] = c.ReceiveRandomFieldElement()
	}
	return elems
}

// next reads 64 bits from the state and ratchets it forward.
func (c *Channel) next() uint64 {
	v := binary.LittleEndian.Uint64(c.state[:8])
	c.state = c.hashFunc.Sum(c.state)
	return v
}

// HashFunction returns the hash the channel was created with.
func (c *Channel) HashFunction() core.HashFunction {
	return c.hashFunc
}

// State returns a copy of the current channel state.
func (c *Channel) State() []byte {
	return append([]byte(nil), c.state...)
}

// String returns the hash function and the current state in hex.
func (c *Channel) String() string {
	return fmt.Sprintf("Channel{%s: %s}", c.hashFunc, hex.EncodeToString(c.state))
}
