package protocols

import (
	"errors"
	"fmt"
	"math"

	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/core"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/utils"
)

var (
	// ErrProofRejected wraps every reason a verifier refuses a proof.
	ErrProofRejected = errors.New("proof rejected")

	// ErrConstraintDegreeExceeded is returned when an AIR declares a constraint
	// whose degree is above STARKParameters.MaxConstraintDegree.
	ErrConstraintDegreeExceeded = errors.New("constraint degree exceeds configured bound")

	// ErrInvalidTrace is returned when a trace does not have the shape the AIR declares.
	ErrInvalidTrace = errors.New("invalid trace")
)

// CosetOffset shifts the LDE domain off the trace subgroup. 7 generates the
// whole multiplicative group of the Goldilocks field.
const CosetOffset uint64 = 7

// STARKParameters contains the parameters for the STARK proof system
type STARKParameters struct {
	// SecurityLevel is the conjectured security target in bits
	SecurityLevel int

	// FRIExpansionFactor is the ratio between the LDE domain and the trace
	// domain. Must be a power of 2.
	FRIExpansionFactor int

	// NumCollinearityChecks is the number of FRI query positions
	NumCollinearityChecks int

	// GrindingBits is the number of leading zero bits the proof-of-work nonce must produce
	GrindingBits int

	// MaxConstraintDegree bounds the declared degree of transition constraints
	MaxConstraintDegree int

	// HashFunction is used for Merkle commitments, the transcript and grinding
	HashFunction core.HashFunction
}

// DefaultSTARKParameters returns blowup 4, 40 queries and 16 grinding bits:
// 96 bits of query security for degree-1 AIRs. The reported level is further
// capped by the 64-bit base field (see ComputeSecurityLevel).
func DefaultSTARKParameters() STARKParameters {
	return STARKParameters{
		SecurityLevel:         96,
		FRIExpansionFactor:    4,
		NumCollinearityChecks: 40,
		GrindingBits:          16,
		MaxConstraintDegree:   2,
		HashFunction:          core.HashSHA3,
	}
}

// Validate checks if the parameters are valid
func (sp *STARKParameters) Validate() error {
	if sp.SecurityLevel <= 0 {
		return fmt.Errorf("security level must be positive, got %d", sp.SecurityLevel)
	}

	if sp.FRIExpansionFactor < 2 || !utils.IsPowerOfTwo(sp.FRIExpansionFactor) {
		return fmt.Errorf("FRI expansion factor must be a power of 2 >= 2, got %d", sp.FRIExpansionFactor)
	}

	if sp.NumCollinearityChecks < 1 {
		return fmt.Errorf("number of collinearity checks must be at least 1, got %d", sp.NumCollinearityChecks)
	}

	if sp.GrindingBits < 0 || sp.GrindingBits > 32 {
		return fmt.Errorf("grinding bits must be in [0, 32], got %d", sp.GrindingBits)
	}

	if sp.MaxConstraintDegree < 1 {
		return fmt.Errorf("max constraint degree must be at least 1, got %d", sp.MaxConstraintDegree)
	}

	// the final FRI layer must keep at least two points
	if sp.FRIExpansionFactor < 2*utils.NextPowerOfTwo(sp.MaxConstraintDegree) {
		return fmt.Errorf("FRI expansion factor %d too small for constraint degree %d",
			sp.FRIExpansionFactor, sp.MaxConstraintDegree)
	}

	return sp.HashFunction.Validate()
}

// LDESize returns the size of the low-degree extension domain.
func (sp *STARKParameters) LDESize(traceLength int) int {
	return traceLength * sp.FRIExpansionFactor
}

// CompositionDegreeBound returns the power-of-two bound the composition
// polynomial must stay below for an AIR of the given degree.
func CompositionDegreeBound(traceLength, constraintDegree int) int {
	if constraintDegree < 1 {
		constraintDegree = 1
	}
	return traceLength * utils.NextPowerOfTwo(constraintDegree)
}

// NumFRIRounds returns how many folds take the composition down to a constant.
func NumFRIRounds(traceLength, constraintDegree int) int {
	return utils.Log2(CompositionDegreeBound(traceLength, constraintDegree))
}

// ComputeSecurityLevel estimates the conjectured security in bits for a trace
// of the given length and an AIR of the given degree. Each query contributes
// log2(1/rate) bits, grinding adds its difficulty, and the result is capped by
// the size of the field relative to the LDE domain.
func (sp *STARKParameters) ComputeSecurityLevel(traceLength, constraintDegree int) float64 {
	ldeSize := float64(sp.LDESize(traceLength))
	rate := float64(CompositionDegreeBound(traceLength, constraintDegree)) / ldeSize

	queryBits := float64(sp.NumCollinearityChecks)*math.Log2(1/rate) + float64(sp.GrindingBits)
	fieldBits := 64 - math.Log2(ldeSize)

	return math.Min(queryBits, fieldBits)
}

// String returns a human-readable representation of the parameters
func (sp *STARKParameters) String() string {
	return fmt.Sprintf("STARK{Security: %d bits, FRI: %dx, Checks: %d, Grinding: %d, Hash: %s}",
		sp.SecurityLevel,
		sp.FRIExpansionFactor,
		sp.NumCollinearityChecks,
		sp.GrindingBits,
		sp.HashFunction)
}
