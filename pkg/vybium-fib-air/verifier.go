package vybiumfibair

import (
	"errors"
	"time"

	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/fibonacci"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/protocols"
)

// Verifier rebuilds the Fibonacci AIR from public data and checks proofs
type Verifier struct {
	backend   Backend
	maxDegree int
}

// NewVerifier creates a verifier backed by the default STARK backend
func NewVerifier(config *Config) (*Verifier, error) {
	if config == nil {
		config = DefaultConfig()
	}
	params, err := ParamsFromConfig(config)
	if err != nil {
		return nil, err
	}
	backend, err := NewSTARKBackend(params)
	if err != nil {
		return nil, err
	}
	return NewVerifierWithBackend(backend, params.MaxConstraintDegree), nil
}

// NewVerifierWithBackend creates a verifier for any Backend
func NewVerifierWithBackend(backend Backend, maxDegree int) *Verifier {
	return &Verifier{backend: backend, maxDegree: maxDegree}
}

// Verify checks that proof attests an n-row trace matching pub.
//
// A rejected proof is a normal outcome: the result has Valid=false and the
// returned error is nil. An error is returned only when the AIR cannot be
// built or the backend fails for a reason other than rejection.
func (v *Verifier) Verify(n int, pub PublicInputs, proof *Proof) (*ProofVerificationResult, error) {
	air, err := fibonacci.BuildAIRWithDegreeBound(n, pub, v.maxDegree)
	if err != nil {
		return nil, wrapError(ErrProofVerification, "failed to build AIR", err)
	}

	start := time.Now()
	err = v.backend.Verify(air, proof)
	result := &ProofVerificationResult{
		Valid:              err == nil,
		VerificationTimeMs: time.Since(start).Milliseconds(),
	}

	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, protocols.ErrProofRejected):
		result.Error = err.Error()
		return result, nil
	default:
		return nil, wrapError(ErrProofVerification, "verification failed", err)
	}
}

// VerifyBytes decodes a serialized proof and verifies it. A proof that does
// not decode is rejected rather than reported as an error.
func (v *Verifier) VerifyBytes(n int, pub PublicInputs, data []byte) (*ProofVerificationResult, error) {
	proof, err := protocols.UnmarshalProof(data)
	if err != nil {
		return &ProofVerificationResult{Valid: false, Error: err.Error()}, nil
	}
	return v.Verify(n, pub, proof)
}
