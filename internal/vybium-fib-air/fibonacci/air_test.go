package fibonacci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/protocols"
)

func honest(t *testing.T, n int) (*Trace, PublicInputs) {
	t.Helper()
	trace, err := BuildTrace(n)
	require.NoError(t, err)
	return trace, PublicInputsFromTrace(trace)
}

func TestBuildAIR(t *testing.T) {
	_, pub := honest(t, 8)
	air, err := BuildAIR(8, pub)
	require.NoError(t, err)

	assert.Equal(t, TraceWidth, air.TraceWidth())
	assert.Equal(t, 8, air.TraceLength())
	assert.Equal(t, 1, air.MaxDegree())

	transitions := air.TransitionConstraints()
	require.Len(t, transitions, 2)
	assert.Equal(t, ConstraintRegister0Step, transitions[0].Name)
	assert.Equal(t, ConstraintRegister1Step, transitions[1].Name)

	boundaries := air.BoundaryConstraints()
	require.Len(t, boundaries, 4)
	steps := []int{0, 0, 7, 7}
	for i, b := range boundaries {
		assert.Equal(t, steps[i], b.Step, b.Name)
		assert.True(t, b.Value.Equal(pub.Elements()[i]), b.Name)
	}

	pubElems := air.PublicInputs()
	require.Len(t, pubElems, 4)
	for i, e := range pub.Elements() {
		assert.True(t, e.Equal(pubElems[i]))
	}
}

func TestBuildAIRErrors(t *testing.T) {
	_, pub := honest(t, 4)

	for _, n := range []int{0, 3, 12} {
		_, err := BuildAIR(n, pub)
		assert.ErrorIs(t, err, ErrInvalidLength, "n=%d", n)
	}

	_, err := BuildAIRWithDegreeBound(4, pub, 0)
	assert.ErrorIs(t, err, protocols.ErrConstraintDegreeExceeded)
}

func TestAIRReconstruction(t *testing.T) {
	_, pub := honest(t, 32)
	a, err := BuildAIR(32, pub)
	require.NoError(t, err)
	b, err := BuildAIR(32, pub)
	require.NoError(t, err)
	assert.Equal(t, a.Seed(), b.Seed())
}

func TestAIRTransitions(t *testing.T) {
	trace, pub := honest(t, 16)
	air, err := BuildAIR(16, pub)
	require.NoError(t, err)
	require.NoError(t, air.CheckTrace(trace.Columns()))

	cur := []field.Element{field.New(5), field.New(8)}
	for _, tc := range air.TransitionConstraints() {
		assert.True(t, tc.Evaluator(cur, []field.Element{field.New(13), field.New(21)}).IsZero(), tc.Name)
	}
	r0 := air.TransitionConstraints()[0].Evaluator(cur, []field.Element{field.New(14), field.New(22)})
	assert.Equal(t, uint64(1), r0.Value())
	r1 := air.TransitionConstraints()[1].Evaluator(cur, []field.Element{field.New(13), field.New(22)})
	assert.Equal(t, uint64(1), r1.Value())

	t.Run("tampered interior row", func(t *testing.T) {
		cols := trace.Columns()
		cols[0][9] = cols[0][9].Add(field.One)
		assert.Error(t, air.CheckTrace(cols))
	})

	t.Run("single row", func(t *testing.T) {
		trace, pub := honest(t, 1)
		air, err := BuildAIR(1, pub)
		require.NoError(t, err)
		assert.NoError(t, air.CheckTrace(trace.Columns()))

		// result and start pin the same row
		for _, b := range air.BoundaryConstraints() {
			assert.Equal(t, 0, b.Step)
		}
	})
}

func TestAIRProveVerify(t *testing.T) {
	params := protocols.DefaultSTARKParameters()
	params.NumCollinearityChecks = 10
	params.GrindingBits = 2

	prover, err := protocols.NewProver(params)
	require.NoError(t, err)
	verifier, err := protocols.NewVerifier(params)
	require.NoError(t, err)

	for _, n := range []int{1, 4, 64} {
		trace, pub := honest(t, n)
		air, err := BuildAIR(n, pub)
		require.NoError(t, err)

		proof, err := prover.Prove(air, trace.Columns())
		require.NoError(t, err)
		assert.NoError(t, verifier.Verify(air, proof), "n=%d", n)

		wrong := pub
		wrong.Result0 = wrong.Result0.Add(field.One)
		wrongAIR, err := BuildAIR(n, wrong)
		require.NoError(t, err)
		assert.ErrorIs(t, verifier.Verify(wrongAIR, proof), protocols.ErrProofRejected, "n=%d", n)
	}
}
