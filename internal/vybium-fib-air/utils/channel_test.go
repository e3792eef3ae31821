package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/core"
)

func TestNewChannel(t *testing.T) {
	tests := []struct {
		name     string
		hashFunc core.HashFunction
		expected core.HashFunction
	}{
		{"default (empty string)", "", core.HashSHA3},
		{"sha3", core.HashSHA3, core.HashSHA3},
		{"blake2s", core.HashBlake2s, core.HashBlake2s},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := NewChannel(tt.hashFunc)
			require.NotNil(t, ch)
			assert.Equal(t, tt.expected, ch.HashFunction())
			assert.Len(t, ch.State(), core.DigestSize)
			assert.Contains(t, ch.String(), string(tt.expected))
		})
	}
}

func TestChannelSend(t *testing.T) {
	ch := NewChannel(core.HashSHA3)
	initial := ch.State()

	ch.Send([]byte("test data"))

	assert.NotEqual(t, initial, ch.State(), "state should change after Send")

	// draws ratchet the state too
	afterSend := ch.State()
	ch.ReceiveRandomInt(0, 10)
	assert.NotEqual(t, afterSend, ch.State())
}

func TestChannelDeterminism(t *testing.T) {
	for _, h := range []core.HashFunction{core.HashSHA3, core.HashBlake2s} {
		t.Run(string(h), func(t *testing.T) {
			a, b := NewChannel(h), NewChannel(h)
			for _, ch := range []*Channel{a, b} {
				ch.Send([]byte("root"))
				ch.SendElements([]field.Element{field.New(1), field.New(2)})
			}

			assert.Equal(t, a.State(), b.State())
			for i := 0; i < 8; i++ {
				assert.True(t, a.ReceiveRandomFieldElement().Equal(b.ReceiveRandomFieldElement()))
				assert.Equal(t, a.ReceiveRandomInt(0, 100), b.ReceiveRandomInt(0, 100))
			}
			assert.Equal(t, a.String(), b.String())
		})
	}

	t.Run("different messages diverge", func(t *testing.T) {
		a, b := NewChannel(core.HashSHA3), NewChannel(core.HashSHA3)
		a.Send([]byte{1})
		b.Send([]byte{2})
		assert.False(t, a.ReceiveRandomFieldElement().Equal(b.ReceiveRandomFieldElement()))
	})

	t.Run("hash functions diverge", func(t *testing.T) {
		a, b := NewChannel(core.HashSHA3), NewChannel(core.HashBlake2s)
		assert.NotEqual(t, a.State(), b.State())
	})
}

func TestReceiveRandomInt(t *testing.T) {
	ch := NewChannel(core.HashSHA3)
	for i := 0; i < 200; i++ {
		v := ch.ReceiveRandomInt(3, 9)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 9)
	}

	assert.Equal(t, 5, ch.ReceiveRandomInt(5, 5))
	assert.Panics(t, func() { ch.ReceiveRandomInt(2, 1) })
}

func TestReceiveRandomFieldElements(t *testing.T) {
	ch := NewChannel(core.HashSHA3)
	elems := ch.ReceiveRandomFieldElements(4)
	require.Len(t, elems, 4)
	for _, e := range elems {
		assert.Less(t, e.Value(), field.P)
	}
	assert.False(t, elems[0].Equal(elems[1]))
}
