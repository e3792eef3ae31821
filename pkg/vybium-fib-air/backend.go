package vybiumfibair

import (
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/protocols"
)

// Backend is the proof system the AIR is handed to.
//
// Prove must not inspect the AIR beyond the constraint contract, and Verify
// must report a rejected proof with an error wrapping
// protocols.ErrProofRejected.
type Backend interface {
	Prove(columns [][]FieldElement, air *AIR) (*Proof, error)
	Verify(air *AIR, proof *Proof) error
}

// STARKBackend is the default Backend
type STARKBackend struct {
	params   STARKParameters
	prover   *protocols.Prover
	verifier *protocols.Verifier
}

// NewSTARKBackend creates the default backend with the given parameters
func NewSTARKBackend(params STARKParameters) (*STARKBackend, error) {
	prover, err := protocols.NewProver(params)
	if err != nil {
		return nil, &FibError{Code: ErrInvalidConfig, Message: "failed to create prover", Cause: err}
	}
	verifier, err := protocols.NewVerifier(params)
	if err != nil {
		return nil, &FibError{Code: ErrInvalidConfig, Message: "failed to create verifier", Cause: err}
	}
	return &STARKBackend{params: params, prover: prover, verifier: verifier}, nil
}

// Params returns the backend parameters
func (b *STARKBackend) Params() STARKParameters {
	return b.params
}

// Prove generates a proof that columns satisfy air
func (b *STARKBackend) Prove(columns [][]FieldElement, air *AIR) (*Proof, error) {
	return b.prover.Prove(air, columns)
}

// Verify checks proof against air
func (b *STARKBackend) Verify(air *AIR, proof *Proof) error {
	return b.verifier.Verify(air, proof)
}

// SecurityLevel reports the conjectured security in bits for an n-row trace.
func (b *STARKBackend) SecurityLevel(n int, air *AIR) float64 {
	return b.params.ComputeSecurityLevel(n, air.MaxDegree())
}
