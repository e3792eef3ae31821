package vybiumfibair

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/core"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/fibonacci"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/protocols"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/utils"
)

// FieldElement is an element of the Goldilocks field
type FieldElement = field.Element

// Proof represents a STARK proof
type Proof = protocols.Proof

// AIR is the backend-agnostic constraint system handed to a Backend
type AIR = protocols.AIRConstraints

// STARKParameters configures the default backend
type STARKParameters = protocols.STARKParameters

// Trace is the two-register Fibonacci execution trace
type Trace = fibonacci.Trace

// PublicInputs are start_0, start_1, result_0, result_1
type PublicInputs = fibonacci.PublicInputs

// Config represents configuration for the prover and verifier
type Config = utils.Config

// ProofVerificationResult represents the result of proof verification
type ProofVerificationResult struct {
	// Whether the proof is valid
	Valid bool

	// Error message if verification failed
	Error string

	// Verification time in milliseconds
	VerificationTimeMs int64
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return utils.DefaultConfig()
}

// LoadConfig reads a YAML configuration file
func LoadConfig(path string) (*Config, error) {
	cfg, err := utils.LoadConfig(path)
	if err != nil {
		return nil, &FibError{Code: ErrInvalidConfig, Message: "failed to load config", Cause: err}
	}
	return cfg, nil
}

// ParamsFromConfig converts a Config into backend parameters.
func ParamsFromConfig(cfg *Config) (STARKParameters, error) {
	if err := cfg.Validate(); err != nil {
		return STARKParameters{}, &FibError{Code: ErrInvalidConfig, Message: "invalid config", Cause: err}
	}
	hashFunc, err := core.ParseHashFunction(cfg.HashFunction)
	if err != nil {
		return STARKParameters{}, &FibError{Code: ErrInvalidConfig, Message: "invalid hash function", Cause: err}
	}

	params := STARKParameters{
		SecurityLevel:         cfg.SecurityLevel,
		FRIExpansionFactor:    cfg.BlowupFactor,
		NumCollinearityChecks: cfg.FRIQueries,
		GrindingBits:          cfg.GrindingBits,
		MaxConstraintDegree:   cfg.MaxConstraintDegree,
		HashFunction:          hashFunc,
	}
	if err := params.Validate(); err != nil {
		return STARKParameters{}, &FibError{Code: ErrInvalidConfig, Message: "invalid STARK parameters", Cause: err}
	}
	return params, nil
}

// BuildTrace builds an n-row trace from the default seed.
func BuildTrace(n int) (*Trace, error) {
	t, err := fibonacci.BuildTrace(n)
	if err != nil {
		return nil, wrapError(ErrInvalidLength, "failed to build trace", err)
	}
	return t, nil
}

// BuildTraceFrom builds an n-row trace whose first row is (start0, start1).
func BuildTraceFrom(n int, start0, start1 FieldElement) (*Trace, error) {
	t, err := fibonacci.BuildTraceFrom(n, start0, start1)
	if err != nil {
		return nil, wrapError(ErrInvalidLength, "failed to build trace", err)
	}
	return t, nil
}

// NewTrace wraps caller-supplied register columns.
func NewTrace(register0, register1 []FieldElement) (*Trace, error) {
	t, err := fibonacci.NewTrace(register0, register1)
	if err != nil {
		return nil, wrapError(ErrInvalidLength, "failed to build trace", err)
	}
	return t, nil
}

// BuildAIR builds the Fibonacci AIR for n rows.
func BuildAIR(n int, pub PublicInputs) (*AIR, error) {
	air, err := fibonacci.BuildAIR(n, pub)
	if err != nil {
		return nil, wrapError(ErrUnknown, "failed to build AIR", err)
	}
	return air, nil
}

// NewPublicInputs claims (result0, result1) for the default seed.
func NewPublicInputs(result0, result1 FieldElement) PublicInputs {
	return fibonacci.NewPublicInputs(result0, result1)
}

// PublicInputsFromTrace reads the honest public inputs off a trace.
func PublicInputsFromTrace(t *Trace) PublicInputs {
	return fibonacci.PublicInputsFromTrace(t)
}

// Term returns the i-th term of the flattened sequence 1, 1, 2, 3, 5, ...
func Term(i uint64) FieldElement {
	return fibonacci.Term(i)
}

// UnmarshalProof decodes a serialized proof.
func UnmarshalProof(data []byte) (*Proof, error) {
	return protocols.UnmarshalProof(data)
}
