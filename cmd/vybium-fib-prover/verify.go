package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	vybiumfibair "github.com/vybium/vybium-fib-air/pkg/vybium-fib-air"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "verify a proof against a public statement.",
	Long: `Verify a proof written by "prove" against the public statement in --public.
Exits with status 1 if the proof is rejected.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		claim := readClaim(GetString(cmd, "public"))
		n := claim.TraceLength
		if cmd.Flags().Changed("n") {
			n = GetInt(cmd, "n")
		}

		data, err := os.ReadFile(GetString(cmd, "proof"))
		if err != nil {
			fatal(err)
		}

		verifier, err := vybiumfibair.NewVerifier(cfg)
		if err != nil {
			fatal(err)
		}
		result, err := verifier.VerifyBytes(n, claim.PublicInputs, data)
		if err != nil {
			fatal(err)
		}

		if !result.Valid {
			log.Errorf("proof rejected: %s", result.Error)
			os.Exit(1)
		}
		fmt.Printf("Proof verified in %d ms\n", result.VerificationTimeMs)
	},
}

func init() {
	verifyCmd.Flags().Int("n", 0, "override the trace length in the public statement")
	verifyCmd.Flags().String("proof", "proof.bin", "proof file")
	verifyCmd.Flags().String("public", "public.json", "public statement file")
	rootCmd.AddCommand(verifyCmd)
}
