package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	vybiumfibair "github.com/vybium/vybium-fib-air/pkg/vybium-fib-air"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "prove and verify an n-row Fibonacci trace end to end.",
	Long: `Build an n-row trace, generate a proof, round trip it through its byte
encoding and verify it, reporting timings, proof size and security level.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		n := cfg.TraceLength
		backend := newBackend(cfg)

		// compute result
		now := time.Now()
		expected := vybiumfibair.Term(uint64(2*n - 1))
		fmt.Printf("Computed result in %d ms\n", time.Since(now).Milliseconds())

		// build execution trace
		now = time.Now()
		trace, err := vybiumfibair.BuildTrace(n)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Built execution trace in %d ms\n", time.Since(now).Milliseconds())
		if actual := trace.Get(1, n-1); !actual.Equal(expected) {
			fatal(fmt.Errorf("trace ends in %s, expected %s", actual.String(), expected.String()))
		}

		pub := vybiumfibair.PublicInputsFromTrace(trace)
		air, err := vybiumfibair.BuildAIR(n, pub)
		if err != nil {
			fatal(err)
		}
		if GetFlag(cmd, "check") {
			if err := air.CheckTrace(trace.Columns()); err != nil {
				fatal(err)
			}
			log.Info("trace satisfies all constraints")
		}

		// generate the proof
		prover := vybiumfibair.NewProverWithBackend(backend, cfg.MaxConstraintDegree)
		now = time.Now()
		proof, err := prover.ProveTrace(trace, pub)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Generated proof in %d ms\n", time.Since(now).Milliseconds())

		// serialize proof and check security level
		proofBytes, err := proof.MarshalBinary()
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Proof size: %.1f KB\n", float64(len(proofBytes))/1024)
		fmt.Printf("Proof security: %.0f bits\n", backend.SecurityLevel(n, air))

		// deserialize and verify
		verifier := vybiumfibair.NewVerifierWithBackend(backend, cfg.MaxConstraintDegree)
		now = time.Now()
		result, err := verifier.VerifyBytes(n, pub, proofBytes)
		if err != nil {
			fatal(err)
		}
		if !result.Valid {
			fatal(fmt.Errorf("something went wrong: %s", result.Error))
		}
		fmt.Printf("Proof verified in %.1f ms\n", float64(time.Since(now).Microseconds())/1000)
	},
}

func init() {
	runCmd.Flags().Int("n", 64, "number of trace rows (a power of 2)")
	runCmd.Flags().Bool("check", false, "evaluate every constraint on the trace before proving")
	rootCmd.AddCommand(runCmd)
}
