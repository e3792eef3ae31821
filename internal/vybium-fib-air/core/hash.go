package core

import (
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// DigestSize is the byte length of every digest produced by a HashFunction.
const DigestSize = 32

// HashFunction selects the byte-oriented hash used for commitments, the
// Fiat-Shamir transcript and grinding.
type HashFunction string

const (
	// HashSHA3 is SHA3-256.
	HashSHA3 HashFunction = "sha3"
	// HashBlake2s is BLAKE2s-256.
	HashBlake2s HashFunction = "blake2s"
)

// ParseHashFunction maps a configuration name onto a HashFunction.
// The empty string selects SHA3-256.
func ParseHashFunction(name string) (HashFunction, error) {
	switch HashFunction(name) {
	case "", HashSHA3:
		return HashSHA3, nil
	case HashBlake2s:
		return HashBlake2s, nil
	default:
		return "", fmt.Errorf("hash function must be '%s' or '%s', got '%s'", HashSHA3, HashBlake2s, name)
	}
}

// Validate checks that h names a supported hash function.
func (h HashFunction) Validate() error {
	_, err := ParseHashFunction(string(h))
	return err
}

// Sum hashes the concatenation of parts.
func (h HashFunction) Sum(parts ...[]byte) []byte {
	hasher := h.newHasher()
	for _, p := range parts {
		hasher.Write(p)
	}
	return hasher.Sum(nil)
}

func (h HashFunction) newHasher() hash.Hash {
	if h == HashBlake2s {
		// only fails for keys longer than 32 bytes
		hasher, err := blake2s.New256(nil)
		if err != nil {
			panic(err)
		}
		return hasher
	}
	return sha3.New256()
}
