package core

import (
	"bytes"
	"fmt"
)

var (
	leafPrefix = []byte{0x00}
	nodePrefix = []byte{0x01}
)

// MerkleTree is a binary Merkle tree over a power-of-two number of leaves.
// Leaves and inner nodes are hashed with distinct prefixes.
type MerkleTree struct {
	hash   HashFunction
	levels [][][]byte // levels[0] holds the leaf digests, the last level the root
}

// NewMerkleTree commits to data, one leaf per entry.
func NewMerkleTree(h HashFunction, data [][]byte) (*MerkleTree, error) {
	n := len(data)
	if n == 0 {
		return nil, fmt.Errorf("cannot create Merkle tree with empty data")
	}
	if n&(n-1) != 0 {
		return nil, fmt.Errorf("number of leaves must be a power of 2, got %d", n)
	}

	leaves := make([][]byte, n)
	for i, item := range data {
		leaves[i] = h.Sum(leafPrefix, item)
	}

	levels := [][][]byte{leaves}
	current := leaves
	for len(current) > 1 {
		next := make([][]byte, len(current)/2)
		for i := range next {
			next[i] = h.Sum(nodePrefix, current[2*i], current[2*i+1])
		}
		levels = append(levels, next)
		current = next
	}

	return &MerkleTree{hash: h, levels: levels}, nil
}

// Root returns the Merkle root.
func (mt *MerkleTree) Root() []byte {
	return append([]byte(nil), mt.levels[len(mt.levels)-1][0]...)
}

// NumLeaves returns the number of committed leaves.
func (mt *MerkleTree) NumLeaves() int {
	return len(mt.levels[0])
}

// Proof returns the sibling digests from the leaf level up to (excluding) the root.
func (mt *MerkleTree) Proof(index int) ([][]byte, error) {
	if index < 0 || index >= mt.NumLeaves() {
		return nil, fmt.Errorf("index %d out of range [0, %d)", index, mt.NumLeaves())
	}

	path := make([][]byte, 0, len(mt.levels)-1)
	for level := 0; level < len(mt.levels)-1; level++ {
		sibling := mt.levels[level][index^1]
		path = append(path, append([]byte(nil), sibling...))
		index >>= 1
	}
	return path, nil
}

// VerifyProof checks that leaf sits at index in a tree of numLeaves leaves with the given root.
func VerifyProof(h HashFunction, root, leaf []byte, index, numLeaves int, path [][]byte) bool {
	if numLeaves <= 0 || numLeaves&(numLeaves-1) != 0 || index < 0 || index >= numLeaves {
		return false
	}
	depth := 0
	for n := numLeaves; n > 1; n >>= 1 {
		depth++
	}
	if len(path) != depth {
		return false
	}

	digest := h.Sum(leafPrefix, leaf)
	for _, sibling := range path {
		if index&1 == 0 {
			digest = h.Sum(nodePrefix, digest, sibling)
		} else {
			digest = h.Sum(nodePrefix, sibling, digest)
		}
		index >>= 1
	}
	return bytes.Equal(digest, root)
}
