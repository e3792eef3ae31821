package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/utils"
	vybiumfibair "github.com/vybium/vybium-fib-air/pkg/vybium-fib-air"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "time proving and verification across trace lengths.",
	Long: `Prove and verify traces of every power-of-two length between --min and --max,
one trial after another, and print a table of timings and proof sizes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		minRows, maxRows := GetInt(cmd, "min"), GetInt(cmd, "max")
		if minRows < 1 || maxRows < minRows {
			fatal(fmt.Errorf("invalid range [%d, %d]", minRows, maxRows))
		}

		backend := newBackend(cfg)
		prover := vybiumfibair.NewProverWithBackend(backend, cfg.MaxConstraintDegree)
		verifier := vybiumfibair.NewVerifierWithBackend(backend, cfg.MaxConstraintDegree)

		fmt.Printf("%8s %12s %12s %10s\n", "rows", "prove (ms)", "verify (ms)", "size (KB)")
		for n := utils.NextPowerOfTwo(minRows); n <= maxRows; n *= 2 {
			trace, err := vybiumfibair.BuildTrace(n)
			if err != nil {
				fatal(err)
			}
			pub := vybiumfibair.PublicInputsFromTrace(trace)

			start := time.Now()
			proof, err := prover.ProveTrace(trace, pub)
			if err != nil {
				fatal(err)
			}
			proveTime := time.Since(start)

			data, err := proof.MarshalBinary()
			if err != nil {
				fatal(err)
			}

			start = time.Now()
			result, err := verifier.Verify(n, pub, proof)
			if err != nil {
				fatal(err)
			}
			verifyTime := time.Since(start)
			if !result.Valid {
				log.Errorf("%d rows: proof rejected: %s", n, result.Error)
			}

			fmt.Printf("%8d %12d %12.1f %10.1f\n", n, proveTime.Milliseconds(),
				float64(verifyTime.Microseconds())/1000, float64(len(data))/1024)
		}
	},
}

func init() {
	benchCmd.Flags().Int("min", 8, "smallest trace length")
	benchCmd.Flags().Int("max", 1024, "largest trace length")
	rootCmd.AddCommand(benchCmd)
}
