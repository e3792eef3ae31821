package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vybium/vybium-fib-air/internal/vybium-fib-air/core"
)

// Config represents the configuration for Fibonacci proof generation
type Config struct {
	// TraceLength is the number of trace rows (must be a power of 2)
	TraceLength int `yaml:"trace_length"`

	// SecurityLevel is the conjectured security target in bits
	SecurityLevel int `yaml:"security_level"`

	// BlowupFactor is the ratio between the LDE domain and the trace domain
	BlowupFactor int `yaml:"blowup_factor"`

	// FRIQueries is the number of query positions opened by the prover
	FRIQueries int `yaml:"fri_queries"`

	// GrindingBits is the proof-of-work difficulty applied before queries are drawn
	GrindingBits int `yaml:"grinding_bits"`

	// MaxConstraintDegree bounds the degree of any transition constraint
	MaxConstraintDegree int `yaml:"max_constraint_degree"`

	// HashFunction is "sha3" or "blake2s"
	HashFunction string `yaml:"hash_function"`
}

// DefaultConfig returns the default configuration: a 64-row trace (a
// 128-term sequence) with blowup 4, 40 queries and 16 grinding bits.
func DefaultConfig() *Config {
	return &Config{
		TraceLength:         64,
		SecurityLevel:       96,
		BlowupFactor:        4,
		FRIQueries:          40,
		GrindingBits:        16,
		MaxConstraintDegree: 2,
		HashFunction:        string(core.HashSHA3),
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the result.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !IsPowerOfTwo(c.TraceLength) {
		return fmt.Errorf("trace length must be a power of 2, got %d", c.TraceLength)
	}

	if c.SecurityLevel <= 0 {
		return fmt.Errorf("security level must be positive")
	}

	if c.BlowupFactor < 2 || !IsPowerOfTwo(c.BlowupFactor) {
		return fmt.Errorf("blowup factor must be a power of 2 >= 2, got %d", c.BlowupFactor)
	}

	if c.FRIQueries <= 0 {
		return fmt.Errorf("FRI queries must be positive")
	}

	if c.GrindingBits < 0 || c.GrindingBits > 32 {
		return fmt.Errorf("grinding bits must be in [0, 32], got %d", c.GrindingBits)
	}

	if c.MaxConstraintDegree < 1 {
		return fmt.Errorf("max constraint degree must be at least 1, got %d", c.MaxConstraintDegree)
	}

	if err := core.HashFunction(c.HashFunction).Validate(); err != nil {
		return err
	}

	return nil
}

// WithTraceLength sets the trace length
func (c *Config) WithTraceLength(length int) *Config {
	c.TraceLength = length
	return c
}

// WithSecurityLevel sets the security level
func (c *Config) WithSecurityLevel(level int) *Config {
	c.SecurityLevel = level
	return c
}

// WithBlowupFactor sets the blowup factor
func (c *Config) WithBlowupFactor(factor int) *Config {
	c.BlowupFactor = factor
	return c
}

// WithFRIQueries sets the number of FRI queries
func (c *Config) WithFRIQueries(queries int) *Config {
	c.FRIQueries = queries
	return c
}

// WithGrindingBits sets the proof-of-work difficulty
func (c *Config) WithGrindingBits(bits int) *Config {
	c.GrindingBits = bits
	return c
}

// WithHashFunction sets the hash function
func (c *Config) WithHashFunction(hashFunc string) *Config {
	c.HashFunction = hashFunc
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
