package core

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

func TestElementCodec(t *testing.T) {
	elems := []field.Element{field.Zero, field.One, field.New(42), field.New(field.P - 1)}

	data := ElementsToBytes(elems)
	require.Len(t, data, len(elems)*ElementSize)

	decoded, err := ElementsFromBytes(data)
	require.NoError(t, err)
	require.Len(t, decoded, len(elems))
	for i := range elems {
		assert.True(t, elems[i].Equal(decoded[i]), "element %d", i)
	}

	t.Run("rejects ragged buffer", func(t *testing.T) {
		_, err := ElementsFromBytes(data[:len(data)-1])
		assert.Error(t, err)
	})

	t.Run("rejects non-canonical value", func(t *testing.T) {
		buf := binary.LittleEndian.AppendUint64(nil, field.P)
		_, err := ElementsFromBytes(buf)
		assert.Error(t, err)
	})
}

func TestElementFromUint64(t *testing.T) {
	assert.True(t, ElementFromUint64(field.P).IsZero())
	assert.True(t, ElementFromUint64(field.P+5).Equal(field.New(5)))

	_, err := ElementFromCanonical(field.P)
	assert.Error(t, err)
	e, err := ElementFromCanonical(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), e.Value())
}

func TestBatchInversion(t *testing.T) {
	elems := []field.Element{field.New(1), field.New(2), field.New(3), field.New(field.P - 1), field.New(123456789)}

	inverses, err := BatchInversion(elems)
	require.NoError(t, err)
	require.Len(t, inverses, len(elems))
	for i, e := range elems {
		assert.True(t, e.Mul(inverses[i]).Equal(field.One), "element %d", i)
		assert.True(t, e.Inverse().Equal(inverses[i]), "element %d", i)
	}

	t.Run("empty", func(t *testing.T) {
		out, err := BatchInversion(nil)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("zero", func(t *testing.T) {
		_, err := BatchInversion([]field.Element{field.One, field.Zero})
		assert.Error(t, err)
	})
}
