// Package vybiumfibair proves and verifies segments of the Fibonacci sequence
// with a STARK over the Goldilocks field.
//
// The execution trace has two registers. Row k holds (s_{2k}, s_{2k+1}) of
// the sequence s_0 = s_1 = 1, s_i = s_{i-1} + s_{i-2}. The AIR enforces
//
//	a' = a + b
//	b' = a' + b
//
// between consecutive rows and pins the first row to (start_0, start_1) and
// the last row to the claimed (result_0, result_1).
//
// # Quick Start
//
// Proving that a 64-row trace ends in a given pair:
//
//	trace, _ := vybiumfibair.BuildTrace(64)
//	pub := vybiumfibair.PublicInputsFromTrace(trace)
//
//	prover, err := vybiumfibair.NewProver(vybiumfibair.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	proof, err := prover.Prove(64, pub)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Verifying it from public data only:
//
//	verifier, err := vybiumfibair.NewVerifier(vybiumfibair.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := verifier.Verify(64, pub, proof)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.Valid {
//		fmt.Println("Proof is valid!")
//	}
//
// # Backends
//
// The AIR is handed to a Backend, a two-operation capability (Prove,
// Verify). NewSTARKBackend returns the bundled implementation; any other
// proof system satisfying the interface can be plugged in with
// NewProverWithBackend and NewVerifierWithBackend.
//
// # Architecture
//
// - pkg/vybium-fib-air/: Public API (this package)
// - internal/vybium-fib-air/fibonacci: trace builder, public inputs and AIR
// - internal/vybium-fib-air/protocols: STARK backend (domains, FRI, proofs)
// - internal/vybium-fib-air/core: hashing, Merkle trees, field encoding
// - internal/vybium-fib-air/utils: transcript channel and configuration
package vybiumfibair
