package protocols

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/core"
	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/utils"
)

// Prover generates STARK proofs for traces described by an AIRConstraints.
//
// The Prover implements the following workflow:
// 1. Derives the trace and LDE domains
// 2. Interpolates, extends and commits to the trace
// 3. Combines all constraint quotients into one composition codeword
// 4. Runs FRI on the composition codeword
// 5. Grinds a proof-of-work nonce and opens the queried positions
//
// The prover does not check that the trace satisfies the AIR. An invalid
// trace yields a proof that verification rejects.
type Prover struct {
	params STARKParameters
}

// NewProver creates a new prover with the given parameters
func NewProver(params STARKParameters) (*Prover, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid STARK parameters: %w", err)
	}
	return &Prover{params: params}, nil
}

// Params returns the prover's parameters.
func (p *Prover) Params() STARKParameters {
	return p.params
}

// domains bundles everything derived from the trace length.
type domains struct {
	trace       *ArithmeticDomain
	lde         *ArithmeticDomain
	blowup      int
	degreeBound int
	friRounds   int
}

func deriveDomains(params STARKParameters, air *AIRConstraints) (*domains, error) {
	n := air.TraceLength()
	lde, err := NewArithmeticDomain(params.LDESize(n))
	if err != nil {
		return nil, fmt.Errorf("failed to create LDE domain: %w", err)
	}
	lde = lde.WithOffset(field.New(CosetOffset))

	trace, err := lde.Subgroup(params.FRIExpansionFactor)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace domain: %w", err)
	}

	return &domains{
		trace:       trace,
		lde:         lde,
		blowup:      params.FRIExpansionFactor,
		degreeBound: CompositionDegreeBound(n, air.MaxDegree()),
		friRounds:   NumFRIRounds(n, air.MaxDegree()),
	}, nil
}

// Prove generates a STARK proof for the given AIR and column-major trace
func (p *Prover) Prove(air *AIRConstraints, columns [][]field.Element) (*Proof, error) {
	start := time.Now()
	h := p.params.HashFunction

	if err := air.CheckDegree(p.params.MaxConstraintDegree); err != nil {
		return nil, err
	}
	if err := air.checkShape(columns); err != nil {
		return nil, err
	}

	doms, err := deriveDomains(p.params, air)
	if err != nil {
		return nil, err
	}
	ldeSize := doms.lde.Length

	channel := utils.NewChannel(h)
	channel.Send(air.Seed())

	// Step 1: low-degree extend and commit to the trace
	ldeColumns := make([][]field.Element, len(columns))
	for i, col := range columns {
		coeffs, err := doms.trace.Interpolate(col)
		if err != nil {
			return nil, fmt.Errorf("failed to interpolate column %d: %w", i, err)
		}
		if ldeColumns[i], err = doms.lde.Evaluate(coeffs); err != nil {
			return nil, fmt.Errorf("failed to extend column %d: %w", i, err)
		}
	}

	rows := make([][]field.Element, ldeSize)
	rowLeaves := make([][]byte, ldeSize)
	for i := range rows {
		rows[i] = extractRow(ldeColumns, i)
		rowLeaves[i] = core.ElementsToBytes(rows[i])
	}
	traceTree, err := core.NewMerkleTree(h, rowLeaves)
	if err != nil {
		return nil, fmt.Errorf("failed to commit to trace: %w", err)
	}
	channel.Send(traceTree.Root())
	log.Debugf("trace commitment: %d rows extended to %d in %s", air.TraceLength(), ldeSize, time.Since(start))

	// Step 2: composition
	alphas := channel.ReceiveRandomFieldElements(air.NumConstraints())
	comp, err := newComposition(air, doms.trace, alphas)
	if err != nil {
		return nil, err
	}

	xs := doms.lde.Elements()
	compValues := make([]field.Element, ldeSize)
	for i := range compValues {
		next := rows[(i+doms.blowup)%ldeSize]
		if compValues[i], err = comp.evaluate(xs[i], rows[i], next); err != nil {
			return nil, fmt.Errorf("failed to evaluate composition at %d: %w", i, err)
		}
	}
	compTree, err := commitValues(h, compValues)
	if err != nil {
		return nil, fmt.Errorf("failed to commit to composition: %w", err)
	}
	channel.Send(compTree.Root())
	log.Debugf("composition commitment: %d constraints, degree bound %d, %s", air.NumConstraints(), doms.degreeBound, time.Since(start))

	// Step 3: FRI commit phase
	layers := make([]*friLayer, 0, doms.friRounds)
	friRoots := make([][]byte, 0, doms.friRounds)
	codeword := compValues
	domain := doms.lde
	for i := 0; i < doms.friRounds; i++ {
		beta := channel.ReceiveRandomFieldElement()
		if codeword, err = foldCodeword(codeword, domain, beta); err != nil {
			return nil, fmt.Errorf("FRI round %d: %w", i, err)
		}
		if domain, err = domain.Halve(); err != nil {
			return nil, fmt.Errorf("FRI round %d: %w", i, err)
		}

		if i < doms.friRounds-1 {
			tree, err := commitValues(h, codeword)
			if err != nil {
				return nil, fmt.Errorf("failed to commit to FRI layer %d: %w", i+1, err)
			}
			channel.Send(tree.Root())
			friRoots = append(friRoots, tree.Root())
			layers = append(layers, &friLayer{domain: domain, codeword: codeword, tree: tree})
		}
	}
	finalLayer := codeword
	channel.SendElements(finalLayer)
	log.Debugf("FRI: %d rounds, final layer of %d values, %s", doms.friRounds, len(finalLayer), time.Since(start))

	// Step 4: grinding
	nonce := grind(h, channel.State(), p.params.GrindingBits)
	channel.Send(encodeNonce(nonce))

	// Step 5: queries
	proof := &Proof{
		TraceLength:     air.TraceLength(),
		TraceRoot:       traceTree.Root(),
		CompositionRoot: compTree.Root(),
		FRIRoots:        friRoots,
		FinalLayer:      finalLayer,
		Nonce:           nonce,
		Queries:         make([]QueryProof, p.params.NumCollinearityChecks),
	}

	half := ldeSize / 2
	for i := range proof.Queries {
		q := channel.ReceiveRandomInt(0, half-1)
		query, err := openQuery(q, ldeSize, doms.blowup, rows, traceTree, compValues, compTree, layers)
		if err != nil {
			return nil, fmt.Errorf("failed to open query %d: %w", i, err)
		}
		proof.Queries[i] = *query
	}

	log.Debugf("proof generated in %s: %s", time.Since(start), proof.String())
	return proof, nil
}

// traceQueryIndices returns the LDE rows opened for query q: x, g*x, -x, -g*x.
func traceQueryIndices(q, ldeSize, blowup int) []int {
	half := ldeSize / 2
	return []int{
		q,
		(q + blowup) % ldeSize,
		q + half,
		(q + half + blowup) % ldeSize,
	}
}

func openQuery(q, ldeSize, blowup int, rows [][]field.Element, traceTree *core.MerkleTree,
	compValues []field.Element, compTree *core.MerkleTree, layers []*friLayer,
) (*QueryProof, error) {
	query := &QueryProof{}

	for _, idx := range traceQueryIndices(q, ldeSize, blowup) {
		path, err := traceTree.Proof(idx)
		if err != nil {
			return nil, err
		}
		query.TraceRows = append(query.TraceRows, RowOpening{
			Index:  idx,
			Values: append([]field.Element(nil), rows[idx]...),
			Path:   path,
		})
	}

	for _, idx := range []int{q, q + ldeSize/2} {
		opening, err := openValue(compValues, compTree, idx)
		if err != nil {
			return nil, err
		}
		query.Composition = append(query.Composition, opening)
	}

	for _, layer := range layers {
		half := layer.domain.Length / 2
		j := q % half
		pair := make([]ValueOpening, 0, 2)
		for _, idx := range []int{j, j + half} {
			opening, err := openValue(layer.codeword, layer.tree, idx)
			if err != nil {
				return nil, err
			}
			pair = append(pair, opening)
		}
		query.FRILayers = append(query.FRILayers, pair)
	}

	return query, nil
}

func openValue(values []field.Element, tree *core.MerkleTree, idx int) (ValueOpening, error) {
	path, err := tree.Proof(idx)
	if err != nil {
		return ValueOpening{}, err
	}
	return ValueOpening{Index: idx, Value: values[idx], Path: path}, nil
}
