package protocols

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/core"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/utils"
)

// Verifier checks STARK proofs against an AIRConstraints.
type Verifier struct {
	params STARKParameters
}

// NewVerifier creates a new verifier
func NewVerifier(params STARKParameters) (*Verifier, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid STARK parameters: %w", err)
	}
	return &Verifier{params: params}, nil
}

// Params returns the verifier's parameters.
func (v *Verifier) Params() STARKParameters {
	return v.params
}

func reject(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrProofRejected, fmt.Sprintf(format, args...))
}

// Verify replays the transcript and checks every opening in the proof.
// Every rejection wraps ErrProofRejected. Other errors mean the AIR itself
// cannot be verified with these parameters.
func (v *Verifier) Verify(air *AIRConstraints, proof *Proof) error {
	start := time.Now()
	h := v.params.HashFunction

	if err := air.CheckDegree(v.params.MaxConstraintDegree); err != nil {
		return err
	}
	if err := proof.Validate(); err != nil {
		return reject("malformed proof: %v", err)
	}
	if proof.TraceLength != air.TraceLength() {
		return reject("proof is for %d rows, AIR declares %d", proof.TraceLength, air.TraceLength())
	}

	doms, err := deriveDomains(v.params, air)
	if err != nil {
		return err
	}
	ldeSize := doms.lde.Length

	if len(proof.FRIRoots) != max(doms.friRounds-1, 0) {
		return reject("expected %d FRI roots, got %d", max(doms.friRounds-1, 0), len(proof.FRIRoots))
	}
	if want := ldeSize >> doms.friRounds; len(proof.FinalLayer) != want {
		return reject("final layer has %d values, expected %d", len(proof.FinalLayer), want)
	}
	if len(proof.Queries) != v.params.NumCollinearityChecks {
		return reject("expected %d queries, got %d", v.params.NumCollinearityChecks, len(proof.Queries))
	}

	// replay the transcript
	channel := utils.NewChannel(h)
	channel.Send(air.Seed())
	channel.Send(proof.TraceRoot)

	alphas := channel.ReceiveRandomFieldElements(air.NumConstraints())
	comp, err := newComposition(air, doms.trace, alphas)
	if err != nil {
		return err
	}
	channel.Send(proof.CompositionRoot)

	betas := make([]field.Element, doms.friRounds)
	for i := range betas {
		betas[i] = channel.ReceiveRandomFieldElement()
		if i < doms.friRounds-1 {
			channel.Send(proof.FRIRoots[i])
		}
	}
	channel.SendElements(proof.FinalLayer)

	if !checkGrinding(h, channel.State(), proof.Nonce, v.params.GrindingBits) {
		return reject("proof-of-work nonce %d does not meet %d bits", proof.Nonce, v.params.GrindingBits)
	}
	channel.Send(encodeNonce(proof.Nonce))

	if !isConstant(proof.FinalLayer) {
		return reject("final FRI layer is not constant")
	}

	// FRI layer domains, index 0 is the LDE domain
	layerDomains := make([]*ArithmeticDomain, doms.friRounds+1)
	layerDomains[0] = doms.lde
	for i := 1; i <= doms.friRounds; i++ {
		if layerDomains[i], err = layerDomains[i-1].Halve(); err != nil {
			return err
		}
	}

	half := ldeSize / 2
	for i, query := range proof.Queries {
		q := channel.ReceiveRandomInt(0, half-1)
		if err := v.verifyQuery(q, &query, proof, comp, doms, layerDomains, betas); err != nil {
			return fmt.Errorf("query %d (index %d): %w", i, q, err)
		}
	}

	log.Debugf("proof verified in %s", time.Since(start))
	return nil
}

func (v *Verifier) verifyQuery(q int, query *QueryProof, proof *Proof, comp *composition,
	doms *domains, layerDomains []*ArithmeticDomain, betas []field.Element,
) error {
	h := v.params.HashFunction
	ldeSize := doms.lde.Length
	width := comp.air.TraceWidth()

	// trace rows
	indices := traceQueryIndices(q, ldeSize, doms.blowup)
	if len(query.TraceRows) != len(indices) {
		return reject("expected %d trace rows, got %d", len(indices), len(query.TraceRows))
	}
	for k, row := range query.TraceRows {
		if row.Index != indices[k] {
			return reject("trace row %d opened at %d, expected %d", k, row.Index, indices[k])
		}
		if len(row.Values) != width {
			return reject("trace row %d has %d values, expected %d", k, len(row.Values), width)
		}
		leaf := core.ElementsToBytes(row.Values)
		if !core.VerifyProof(h, proof.TraceRoot, leaf, row.Index, ldeSize, row.Path) {
			return reject("trace row %d fails Merkle verification", row.Index)
		}
	}

	// composition values recomputed from the trace
	if len(query.Composition) != 2 {
		return reject("expected 2 composition openings, got %d", len(query.Composition))
	}
	pair := [2]field.Element{}
	for k, idx := range []int{q, q + ldeSize/2} {
		opening := query.Composition[k]
		if opening.Index != idx {
			return reject("composition opened at %d, expected %d", opening.Index, idx)
		}
		leaf := core.AppendElement(nil, opening.Value)
		if !core.VerifyProof(h, proof.CompositionRoot, leaf, idx, ldeSize, opening.Path) {
			return reject("composition value %d fails Merkle verification", idx)
		}

		current := query.TraceRows[2*k].Values
		next := query.TraceRows[2*k+1].Values
		expected, err := comp.evaluate(doms.lde.Element(idx), current, next)
		if err != nil {
			return reject("%v", err)
		}
		if !expected.Equal(opening.Value) {
			return reject("composition value %d does not match the trace", idx)
		}
		pair[k] = opening.Value
	}

	// FRI folds
	if len(query.FRILayers) != len(proof.FRIRoots) {
		return reject("expected %d FRI layer openings, got %d", len(proof.FRIRoots), len(query.FRILayers))
	}
	if doms.friRounds == 0 {
		if !pair[0].Equal(proof.FinalLayer[q]) || !pair[1].Equal(proof.FinalLayer[q+ldeSize/2]) {
			return reject("composition does not match the final layer")
		}
		return nil
	}

	for i := 0; i < doms.friRounds; i++ {
		domain := layerDomains[i]
		j := q % (domain.Length / 2)
		yInv := domain.Element(j).Inverse()
		folded := foldPair(pair[0], pair[1], betas[i], yInv)

		nextLength := layerDomains[i+1].Length
		pos := q % nextLength

		if i == doms.friRounds-1 {
			if !folded.Equal(proof.FinalLayer[pos]) {
				return reject("FRI round %d: fold does not match the final layer", i)
			}
			break
		}

		openings := query.FRILayers[i]
		nextHalf := nextLength / 2
		nj := q % nextHalf
		if len(openings) != 2 {
			return reject("FRI layer %d: expected 2 openings, got %d", i+1, len(openings))
		}
		for k, idx := range []int{nj, nj + nextHalf} {
			if openings[k].Index != idx {
				return reject("FRI layer %d opened at %d, expected %d", i+1, openings[k].Index, idx)
			}
			leaf := core.AppendElement(nil, openings[k].Value)
			if !core.VerifyProof(h, proof.FRIRoots[i], leaf, idx, nextLength, openings[k].Path) {
				return reject("FRI layer %d value %d fails Merkle verification", i+1, idx)
			}
		}

		// pos is either nj or nj+nextHalf
		if !folded.Equal(openings[pos/nextHalf].Value) {
			return reject("FRI round %d: fold is inconsistent with layer %d", i, i+1)
		}
		pair = [2]field.Element{openings[0].Value, openings[1].Value}
	}

	return nil
}
