package vybiumfibair

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/fibonacci"
)

// Prover builds Fibonacci traces and proves them with a Backend
type Prover struct {
	backend   Backend
	maxDegree int
}

// NewProver creates a prover backed by the default STARK backend
func NewProver(config *Config) (*Prover, error) {
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
	return NewProverWithBackend(backend, params.MaxConstraintDegree), nil
}

// NewProverWithBackend creates a prover for any Backend. maxDegree bounds
// the declared constraint degrees of the AIR.
func NewProverWithBackend(backend Backend, maxDegree int) *Prover {
	return &Prover{backend: backend, maxDegree: maxDegree}
}

// Prove builds the n-row trace from the default seed and proves that pub
// describes it. It fails with ErrTraceMismatch before any backend work if
// pub disagrees with the first or last row, including a non-default seed.
// Traces from other seeds go through BuildTraceFrom and ProveTrace.
func (p *Prover) Prove(n int, pub PublicInputs) (*Proof, error) {
	start := time.Now()
	trace, err := fibonacci.BuildTrace(n)
	if err != nil {
		return nil, wrapError(ErrInvalidLength, "failed to build trace", err)
	}
	log.Debugf("built %d-row trace in %s", n, time.Since(start))

	return p.ProveTrace(trace, pub)
}

// ProveTrace proves a caller-supplied trace. Only its first and last rows
// are checked locally; an inconsistent interior yields a proof that
// verification rejects.
func (p *Prover) ProveTrace(trace *Trace, pub PublicInputs) (*Proof, error) {
	air, err := fibonacci.BuildAIRWithDegreeBound(trace.Length(), pub, p.maxDegree)
	if err != nil {
		return nil, wrapError(ErrProofGeneration, "failed to build AIR", err)
	}

	if err := pub.CheckTrace(trace); err != nil {
		return nil, wrapError(ErrTraceMismatch, "trace does not match public inputs", err)
	}

	proof, err := p.backend.Prove(trace.Columns(), air)
	if err != nil {
		return nil, wrapError(ErrProofGeneration, "failed to generate proof", err)
	}
	return proof, nil
}
