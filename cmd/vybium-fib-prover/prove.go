package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	vybiumfibair "github.com/vybium/vybium-fib-air/pkg/vybium-fib-air"
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "generate a proof for an n-row Fibonacci trace.",
	Long: `Generate a proof for an n-row Fibonacci trace. The proof is written to --out
and the public statement (trace length and public inputs) to --public.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		n := cfg.TraceLength

		trace, err := vybiumfibair.BuildTrace(n)
		if err != nil {
			fatal(err)
		}
		pub := vybiumfibair.PublicInputsFromTrace(trace)

		prover, err := vybiumfibair.NewProver(cfg)
		if err != nil {
			fatal(err)
		}
		log.Infof("proving %d rows, claim %s", n, pub.String())
		proof, err := prover.Prove(n, pub)
		if err != nil {
			fatal(err)
		}

		data, err := proof.MarshalBinary()
		if err != nil {
			fatal(err)
		}
		out := GetString(cmd, "out")
		if err := os.WriteFile(out, data, 0644); err != nil {
			fatal(err)
		}
		writeClaim(GetString(cmd, "public"), claimFile{TraceLength: n, PublicInputs: pub})

		log.Infof("wrote %d byte proof to %s", len(data), out)
	},
}

func init() {
	proveCmd.Flags().Int("n", 64, "number of trace rows (a power of 2)")
	proveCmd.Flags().StringP("out", "o", "proof.bin", "proof output file")
	proveCmd.Flags().String("public", "public.json", "public statement output file")
	rootCmd.AddCommand(proveCmd)
}
