package protocols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/core"
)

func testParams() STARKParameters {
	params := DefaultSTARKParameters()
	params.NumCollinearityChecks = 12
	params.GrindingBits = 4
	return params
}

func proveAndVerify(t *testing.T, params STARKParameters, air *AIRConstraints, cols [][]field.Element) (*Proof, error) {
	t.Helper()
	prover, err := NewProver(params)
	require.NoError(t, err)
	verifier, err := NewVerifier(params)
	require.NoError(t, err)

	proof, err := prover.Prove(air, cols)
	require.NoError(t, err)
	return proof, verifier.Verify(air, proof)
}

func TestSTARKParametersValidate(t *testing.T) {
	defaults := DefaultSTARKParameters()
	require.NoError(t, defaults.Validate())

	tests := []struct {
		name   string
		modify func(*STARKParameters)
	}{
		{"security", func(p *STARKParameters) { p.SecurityLevel = 0 }},
		{"expansion", func(p *STARKParameters) { p.FRIExpansionFactor = 3 }},
		{"queries", func(p *STARKParameters) { p.NumCollinearityChecks = 0 }},
		{"grinding", func(p *STARKParameters) { p.GrindingBits = 40 }},
		{"degree", func(p *STARKParameters) { p.MaxConstraintDegree = 0 }},
		{"expansion below degree", func(p *STARKParameters) { p.MaxConstraintDegree = 4 }},
		{"hash", func(p *STARKParameters) { p.HashFunction = "md5" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultSTARKParameters()
			tt.modify(&params)
			assert.Error(t, params.Validate())
		})
	}
}

func TestComputeSecurityLevel(t *testing.T) {
	params := DefaultSTARKParameters()

	// 40 queries at rate 1/4 plus 16 bits of grinding, capped by 64 - log2(256)
	assert.InDelta(t, 56.0, params.ComputeSecurityLevel(64, 1), 1e-9)

	params.NumCollinearityChecks = 10
	assert.InDelta(t, 36.0, params.ComputeSecurityLevel(64, 1), 1e-9)

	// degree 2 halves the rate
	assert.InDelta(t, 26.0, params.ComputeSecurityLevel(64, 2), 1e-9)

	assert.Equal(t, 64, CompositionDegreeBound(64, 1))
	assert.Equal(t, 128, CompositionDegreeBound(64, 2))
	assert.Equal(t, 6, NumFRIRounds(64, 1))
	assert.Equal(t, 0, NumFRIRounds(1, 1))
}

func TestProveVerifyRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 32} {
		air, cols := honestAIR(t, n)
		proof, err := proveAndVerify(t, testParams(), air, cols)
		assert.NoError(t, err, "n=%d", n)
		assert.Equal(t, n, proof.TraceLength)
		assert.Len(t, proof.Queries, 12)
		assert.True(t, isConstant(proof.FinalLayer))
	}

	t.Run("blake2s and blowup 8", func(t *testing.T) {
		params := testParams()
		params.HashFunction = core.HashBlake2s
		params.FRIExpansionFactor = 8
		air, cols := honestAIR(t, 16)
		_, err := proveAndVerify(t, params, air, cols)
		assert.NoError(t, err)
	})

	t.Run("deterministic", func(t *testing.T) {
		air, cols := honestAIR(t, 8)
		prover, err := NewProver(testParams())
		require.NoError(t, err)
		a, err := prover.Prove(air, cols)
		require.NoError(t, err)
		b, err := prover.Prove(air, cols)
		require.NoError(t, err)

		aBytes, err := a.MarshalBinary()
		require.NoError(t, err)
		bBytes, err := b.MarshalBinary()
		require.NoError(t, err)
		assert.Equal(t, aBytes, bBytes)
	})
}

func TestProveRejectsBadInput(t *testing.T) {
	prover, err := NewProver(testParams())
	require.NoError(t, err)

	t.Run("degree exceeded", func(t *testing.T) {
		air, cols := honestAIR(t, 8)
		air.AddTransitionConstraint("cubic", 3, func(cur, next []field.Element) field.Element {
			return cur[0].Mul(cur[0]).Mul(cur[0])
		})
		_, err := prover.Prove(air, cols)
		assert.ErrorIs(t, err, ErrConstraintDegreeExceeded)
	})

	t.Run("shape", func(t *testing.T) {
		air, _ := honestAIR(t, 8)
		_, err := prover.Prove(air, fibColumns(4))
		assert.ErrorIs(t, err, ErrInvalidTrace)
	})

	_, err = NewProver(STARKParameters{})
	assert.Error(t, err)
}

func TestVerifyRejects(t *testing.T) {
	const n = 16
	params := testParams()
	air, cols := honestAIR(t, n)

	prover, err := NewProver(params)
	require.NoError(t, err)
	verifier, err := NewVerifier(params)
	require.NoError(t, err)

	fresh := func() *Proof {
		proof, err := prover.Prove(air, cols)
		require.NoError(t, err)
		return proof
	}

	t.Run("invalid interior row", func(t *testing.T) {
		bad := fibColumns(n)
		bad[0][5] = bad[0][5].Add(field.One)
		proof, err := prover.Prove(air, bad)
		require.NoError(t, err, "the prover does not check the trace")
		assert.ErrorIs(t, verifier.Verify(air, proof), ErrProofRejected)
	})

	t.Run("wrong result", func(t *testing.T) {
		wrong := fibAIR(t, n, cols[0][n-1].Add(field.One), cols[1][n-1])
		assert.ErrorIs(t, verifier.Verify(wrong, fresh()), ErrProofRejected)
	})

	t.Run("wrong trace length", func(t *testing.T) {
		other, _ := honestAIR(t, 2*n)
		assert.ErrorIs(t, verifier.Verify(other, fresh()), ErrProofRejected)
	})

	tampers := []struct {
		name   string
		tamper func(*Proof)
	}{
		{"trace root", func(p *Proof) { p.TraceRoot[0] ^= 1 }},
		{"composition root", func(p *Proof) { p.CompositionRoot[3] ^= 1 }},
		{"fri root", func(p *Proof) { p.FRIRoots[0][0] ^= 1 }},
		{"final layer", func(p *Proof) { p.FinalLayer[1] = p.FinalLayer[1].Add(field.One) }},
		{"all final layer", func(p *Proof) {
			for i := range p.FinalLayer {
				p.FinalLayer[i] = p.FinalLayer[i].Add(field.One)
			}
		}},
		{"trace value", func(p *Proof) {
			row := &p.Queries[0].TraceRows[1]
			row.Values[0] = row.Values[0].Add(field.One)
		}},
		{"composition value", func(p *Proof) {
			v := &p.Queries[2].Composition[0]
			v.Value = v.Value.Add(field.One)
		}},
		{"fri value", func(p *Proof) {
			v := &p.Queries[1].FRILayers[0][1]
			v.Value = v.Value.Add(field.One)
		}},
		{"opening index", func(p *Proof) { p.Queries[0].TraceRows[0].Index++ }},
		{"merkle path", func(p *Proof) { p.Queries[0].Composition[1].Path[0][0] ^= 1 }},
		{"missing query", func(p *Proof) { p.Queries = p.Queries[1:] }},
		{"missing fri layer", func(p *Proof) { p.Queries[0].FRILayers = p.Queries[0].FRILayers[1:] }},
		{"trace length", func(p *Proof) { p.TraceLength = 3 }},
	}

	for _, tt := range tampers {
		t.Run(tt.name, func(t *testing.T) {
			proof := fresh()
			tt.tamper(proof)
			assert.ErrorIs(t, verifier.Verify(air, proof), ErrProofRejected)
		})
	}

	t.Run("degree exceeded is not a rejection", func(t *testing.T) {
		cubic, _ := honestAIR(t, n)
		cubic.AddTransitionConstraint("cubic", 3, func(cur, next []field.Element) field.Element {
			return cur[0].Mul(cur[0]).Mul(cur[0])
		})
		err := verifier.Verify(cubic, fresh())
		assert.ErrorIs(t, err, ErrConstraintDegreeExceeded)
		assert.NotErrorIs(t, err, ErrProofRejected)
	})
}
