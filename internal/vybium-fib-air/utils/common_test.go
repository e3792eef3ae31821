package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{-4, false},
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{64, true},
		{96, false},
		{1 << 20, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPowerOfTwo(tt.n), "IsPowerOfTwo(%d)", tt.n)
	}
}

func TestLog2(t *testing.T) {
	assert.Equal(t, 0, Log2(1))
	assert.Equal(t, 1, Log2(2))
	assert.Equal(t, 10, Log2(1024))
	assert.Equal(t, -1, Log2(0))
	assert.Equal(t, -1, Log2(12))
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := map[int]int{
		-3:   1,
		0:    1,
		1:    1,
		2:    2,
		3:    4,
		5:    8,
		64:   64,
		1000: 1024,
	}

	for n, want := range tests {
		assert.Equal(t, want, NextPowerOfTwo(n), "NextPowerOfTwo(%d)", n)
	}
}
