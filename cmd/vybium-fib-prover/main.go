// Command vybium-fib-prover generates and checks STARK proofs for the
// Fibonacci AIR.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	vybiumfibair "github.com/vybium/vybium-fib-air/pkg/vybium-fib-air"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vybium-fib-prover",
	Short: "Prove and verify Fibonacci computations with a STARK.",
	Long: `Prove that a two-register trace encodes a segment of the Fibonacci sequence
ending in a claimed pair of values, and verify such proofs from public data.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML file with STARK options")
	rootCmd.PersistentFlags().Int("queries", 0, "override the number of FRI queries")
	rootCmd.PersistentFlags().Int("blowup", 0, "override the blowup factor")
	rootCmd.PersistentFlags().Int("grinding", 0, "override the proof-of-work bits")
	rootCmd.PersistentFlags().String("hash", "", "override the hash function (sha3 or blake2s)")
}

func main() {
	Execute()
}

// claimFile is the public statement written next to a proof
type claimFile struct {
	TraceLength  int                       `json:"trace_length"`
	PublicInputs vybiumfibair.PublicInputs `json:"public_inputs"`
}

// GetFlag gets an expected boolean flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fatal(err)
	}
	return r
}

// GetInt gets an expected int flag, or exits if an error arises.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fatal(err)
	}
	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fatal(err)
	}
	return r
}

// loadConfig reads --config if given and applies flag overrides on top.
func loadConfig(cmd *cobra.Command) *vybiumfibair.Config {
	cfg := vybiumfibair.DefaultConfig()
	if path := GetString(cmd, "config"); path != "" {
		loaded, err := vybiumfibair.LoadConfig(path)
		if err != nil {
			fatal(err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("queries") {
		cfg = cfg.WithFRIQueries(GetInt(cmd, "queries"))
	}
	if flags.Changed("blowup") {
		cfg = cfg.WithBlowupFactor(GetInt(cmd, "blowup"))
	}
	if flags.Changed("grinding") {
		cfg = cfg.WithGrindingBits(GetInt(cmd, "grinding"))
	}
	if flags.Changed("hash") {
		cfg = cfg.WithHashFunction(GetString(cmd, "hash"))
	}
	if flags.Lookup("n") != nil && flags.Changed("n") {
		cfg = cfg.WithTraceLength(GetInt(cmd, "n"))
	}

	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	log.Debugf("config: %+v", *cfg)
	return cfg
}

// newBackend builds the default backend for cfg.
func newBackend(cfg *vybiumfibair.Config) *vybiumfibair.STARKBackend {
	params, err := vybiumfibair.ParamsFromConfig(cfg)
	if err != nil {
		fatal(err)
	}
	backend, err := vybiumfibair.NewSTARKBackend(params)
	if err != nil {
		fatal(err)
	}
	log.Debugf("backend: %s", params.String())
	return backend
}

func readClaim(path string) claimFile {
	data, err := os.ReadFile(path)
	if err != nil {
		fatal(fmt.Errorf("failed to read %s: %w", path, err))
	}
	var claim claimFile
	if err := json.Unmarshal(data, &claim); err != nil {
		fatal(fmt.Errorf("failed to parse %s: %w", path, err))
	}
	return claim
}

func writeClaim(path string, claim claimFile) {
	data, err := json.MarshalIndent(claim, "", "  ")
	if err != nil {
		fatal(err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		fatal(fmt.Errorf("failed to write %s: %w", path, err))
	}
}

func fatal(err error) {
	log.Fatal(err)
}
