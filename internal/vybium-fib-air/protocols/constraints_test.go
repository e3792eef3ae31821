package protocols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// fibColumns builds the two-register Fibonacci trace used throughout these tests.
func fibColumns(n int) [][]field.Element {
	r0 := make([]field.Element, n)
	r1 := make([]field.Element, n)
	r0[0], r1[0] = field.One, field.One
	for k := 1; k < n; k++ {
		r0[k] = r0[k-1].Add(r1[k-1])
		r1[k] = r0[k].Add(r1[k-1])
	}
	return [][]field.Element{r0, r1}
}

// fibAIR constrains a two-register trace to the Fibonacci recurrence with the
// given last row.
func fibAIR(t *testing.T, n int, result0, result1 field.Element) *AIRConstraints {
	t.Helper()
	pub := []field.Element{field.One, field.One, result0, result1}
	air, err := NewAIRConstraints(2, n, pub)
	require.NoError(t, err)

	air.AddTransitionConstraint("r0", 1, func(cur, next []field.Element) field.Element {
		return next[0].Sub(cur[0].Add(cur[1]))
	})
	air.AddTransitionConstraint("r1", 1, func(cur, next []field.Element) field.Element {
		return next[1].Sub(next[0].Add(cur[1]))
	})
	require.NoError(t, air.AddBoundaryConstraint("start_0", 0, 0, field.One))
	require.NoError(t, air.AddBoundaryConstraint("start_1", 1, 0, field.One))
	require.NoError(t, air.AddBoundaryConstraint("result_0", 0, n-1, result0))
	require.NoError(t, air.AddBoundaryConstraint("result_1", 1, n-1, result1))
	return air
}

func honestAIR(t *testing.T, n int) (*AIRConstraints, [][]field.Element) {
	cols := fibColumns(n)
	return fibAIR(t, n, cols[0][n-1], cols[1][n-1]), cols
}

func TestNewAIRConstraints(t *testing.T) {
	_, err := NewAIRConstraints(0, 4, nil)
	assert.Error(t, err)
	_, err = NewAIRConstraints(2, 3, nil)
	assert.Error(t, err)

	air, err := NewAIRConstraints(2, 4, []field.Element{field.New(9)})
	require.NoError(t, err)
	assert.Equal(t, 2, air.TraceWidth())
	assert.Equal(t, 4, air.TraceLength())
	assert.Equal(t, 0, air.MaxDegree())
	assert.Equal(t, 0, air.NumConstraints())
	require.Len(t, air.PublicInputs(), 1)

	t.Run("boundary range checks", func(t *testing.T) {
		assert.Error(t, air.AddBoundaryConstraint("bad column", 2, 0, field.One))
		assert.Error(t, air.AddBoundaryConstraint("bad step", 0, 4, field.One))
		assert.Error(t, air.AddBoundaryConstraint("negative step", 0, -1, field.One))
		assert.Empty(t, air.BoundaryConstraints())
	})
}

func TestAIRDegree(t *testing.T) {
	air, _ := honestAIR(t, 8)
	assert.Equal(t, 1, air.MaxDegree())
	assert.Equal(t, 6, air.NumConstraints())
	assert.NoError(t, air.CheckDegree(1))

	air.AddTransitionConstraint("cubic", 3, func(cur, next []field.Element) field.Element {
		return cur[0].Mul(cur[0]).Mul(cur[0]).Sub(next[0])
	})
	assert.Equal(t, 3, air.MaxDegree())
	assert.ErrorIs(t, air.CheckDegree(2), ErrConstraintDegreeExceeded)
}

func TestCheckTrace(t *testing.T) {
	air, cols := honestAIR(t, 8)
	require.NoError(t, air.CheckTrace(cols))

	t.Run("interior row", func(t *testing.T) {
		bad := fibColumns(8)
		bad[1][3] = bad[1][3].Add(field.One)
		err := air.CheckTrace(bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "r1")
	})

	t.Run("boundary", func(t *testing.T) {
		wrong := fibAIR(t, 8, cols[0][7].Add(field.One), cols[1][7])
		err := wrong.CheckTrace(cols)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "result_0")
	})

	t.Run("shape", func(t *testing.T) {
		assert.ErrorIs(t, air.CheckTrace(cols[:1]), ErrInvalidTrace)
		assert.ErrorIs(t, air.CheckTrace(fibColumns(4)), ErrInvalidTrace)
	})

	t.Run("single row", func(t *testing.T) {
		one, cols := honestAIR(t, 1)
		assert.NoError(t, one.CheckTrace(cols))
	})
}

func TestAIRSeed(t *testing.T) {
	a, _ := honestAIR(t, 8)
	b, _ := honestAIR(t, 8)
	assert.Equal(t, a.Seed(), b.Seed(), "identical AIRs share a seed")

	c, _ := honestAIR(t, 16)
	assert.NotEqual(t, a.Seed(), c.Seed())

	cols := fibColumns(8)
	d := fibAIR(t, 8, cols[0][7], cols[1][7].Add(field.One))
	assert.NotEqual(t, a.Seed(), d.Seed())
}
