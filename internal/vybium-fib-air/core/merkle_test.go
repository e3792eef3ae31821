package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaves(n int) [][]byte {
	data := make([][]byte, n)
	for i := range data {
		data[i] = []byte(fmt.Sprintf("leaf-%d", i))
	}
	return data
}

func TestNewMerkleTree(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := NewMerkleTree(HashSHA3, nil)
		assert.Error(t, err)
	})

	t.Run("not power of 2", func(t *testing.T) {
		_, err := NewMerkleTree(HashSHA3, leaves(3))
		assert.Error(t, err)
	})

	t.Run("single leaf", func(t *testing.T) {
		tree, err := NewMerkleTree(HashSHA3, leaves(1))
		require.NoError(t, err)
		path, err := tree.Proof(0)
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.True(t, VerifyProof(HashSHA3, tree.Root(), []byte("leaf-0"), 0, 1, path))
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := NewMerkleTree(HashBlake2s, leaves(8))
		require.NoError(t, err)
		b, err := NewMerkleTree(HashBlake2s, leaves(8))
		require.NoError(t, err)
		assert.Equal(t, a.Root(), b.Root())
		assert.Equal(t, 8, a.NumLeaves())
	})
}

func TestMerkleProof(t *testing.T) {
	for _, h := range []HashFunction{HashSHA3, HashBlake2s} {
		t.Run(string(h), func(t *testing.T) {
			data := leaves(16)
			tree, err := NewMerkleTree(h, data)
			require.NoError(t, err)
			root := tree.Root()

			for i := range data {
				path, err := tree.Proof(i)
				require.NoError(t, err)
				assert.Len(t, path, 4)
				assert.True(t, VerifyProof(h, root, data[i], i, len(data), path), "leaf %d", i)
			}

			path, err := tree.Proof(5)
			require.NoError(t, err)

			assert.False(t, VerifyProof(h, root, []byte("tampered"), 5, 16, path), "tampered leaf")
			assert.False(t, VerifyProof(h, root, data[5], 6, 16, path), "wrong index")
			assert.False(t, VerifyProof(h, root, data[5], 5, 32, path), "wrong depth")
			assert.False(t, VerifyProof(h, root, data[5], 16, 16, path), "index out of range")

			bad := append([][]byte(nil), path...)
			bad[2] = h.Sum([]byte("x"))
			assert.False(t, VerifyProof(h, root, data[5], 5, 16, bad), "tampered path")
		})
	}

	t.Run("out of range", func(t *testing.T) {
		tree, err := NewMerkleTree(HashSHA3, leaves(4))
		require.NoError(t, err)
		_, err = tree.Proof(4)
		assert.Error(t, err)
		_, err = tree.Proof(-1)
		assert.Error(t, err)
	})
}

func TestMerkleRootIsCopy(t *testing.T) {
	tree, err := NewMerkleTree(HashSHA3, leaves(2))
	require.NoError(t, err)
	root := tree.Root()
	root[0] ^= 0xff
	assert.NotEqual(t, root, tree.Root())
}
