package benders

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the configuration for a Decomposition.
//
// The zero value is not usable; start from DefaultConfig, ParseConfig or
// ConfigFromEnv and adjust individual fields.
type Config struct {
	// Priority orders decompositions within a Registry. Higher priority
	// decompositions run first and own the shared auxiliary variables.
	Priority int `yaml:"priority" env:"BENDERS_PRIORITY" envDefault:"0"`

	// CutLP enables cut generation when LP solutions are enforced.
	CutLP bool `yaml:"cutLp" env:"BENDERS_CUT_LP" envDefault:"true"`

	// CutRelax enables cut generation when relaxation solutions are enforced.
	CutRelax bool `yaml:"cutRelax" env:"BENDERS_CUT_RELAX" envDefault:"true"`

	// CutPseudo advises hosts whether pseudo solutions should be enforced
	// through this decomposition at all. Within a call the generators
	// never see a pseudo candidate: an infeasible or unverified one
	// requests a master LP re-solve instead of producing a cut.
	CutPseudo bool `yaml:"cutPseudo" env:"BENDERS_CUT_PSEUDO" envDefault:"true"`

	// ShareAuxVars makes this decomposition adopt the auxiliary variables
	// created by the highest-priority decomposition of its Registry instead
	// of creating its own.
	ShareAuxVars bool `yaml:"shareAuxVars" env:"BENDERS_SHARE_AUX_VARS" envDefault:"false"`

	// TransferCuts enables transferring cuts generated in a derived copy
	// back to the source decomposition.
	TransferCuts bool `yaml:"transferCuts" env:"BENDERS_TRANSFER_CUTS" envDefault:"true"`

	// CutsAsConstraints adds generated cuts to the master as constraints
	// rather than separating rows.
	CutsAsConstraints bool `yaml:"cutsAsConstraints" env:"BENDERS_CUTS_AS_CONSTRAINTS" envDefault:"true"`

	// LNSCheck enables solving the subproblems of a large-neighborhood
	// search copy. When false an LNS copy reports every candidate feasible
	// without solving anything.
	LNSCheck bool `yaml:"lnsCheck" env:"BENDERS_LNS_CHECK" envDefault:"true"`

	// LNSMaxDepth is the maximum master search depth at which an LNS copy
	// still solves subproblems. -1 means no depth limit.
	LNSMaxDepth int `yaml:"lnsMaxDepth" env:"BENDERS_LNS_MAX_DEPTH" envDefault:"-1"`

	// SubproblemFraction is the fraction of subproblems checked per call
	// for non-incumbent candidates, in (0, 1]. Incumbent checks always
	// cover all subproblems.
	SubproblemFraction float64 `yaml:"subproblemFraction" env:"BENDERS_SUBPROBLEM_FRACTION" envDefault:"1.0"`

	// SolutionTolerance is the relative optimality tolerance used to compare
	// a subproblem objective against its auxiliary variable value.
	SolutionTolerance float64 `yaml:"solutionTolerance" env:"BENDERS_SOLUTION_TOLERANCE" envDefault:"1e-6"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Priority:           0,
		CutLP:              true,
		CutRelax:           true,
		CutPseudo:          true,
		ShareAuxVars:       false,
		TransferCuts:       true,
		CutsAsConstraints:  true,
		LNSCheck:           true,
		LNSMaxDepth:        -1,
		SubproblemFraction: 1.0,
		SolutionTolerance:  1e-6,
	}
}

// ParseConfig parses a YAML document into a Config.
//
// Parsing starts from DefaultConfig, so keys absent from the document keep
// their default values.
//
// Parameters:
//   - data: YAML document bytes
//
// Returns:
//   - Config: Parsed configuration
//   - error: Parse or validation error
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ConfigFromEnv builds a Config from BENDERS_* environment variables.
//
// Unset variables keep their default values.
//
// Returns:
//   - Config: Parsed configuration
//   - error: Parse or validation error
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Only numeric fields distinguishable from their zero value are filled;
// boolean fields keep whatever the caller set.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.SubproblemFraction == 0 {
		cfg.SubproblemFraction = defaults.SubproblemFraction
	}
	if cfg.SolutionTolerance == 0 {
		cfg.SolutionTolerance = defaults.SolutionTolerance
	}
	if cfg.LNSMaxDepth == 0 {
		cfg.LNSMaxDepth = defaults.LNSMaxDepth
	}
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - SubproblemFraction in (0, 1]
//   - SolutionTolerance > 0
//   - LNSMaxDepth >= -1
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.SubproblemFraction <= 0 || cfg.SubproblemFraction > 1 {
		return fmt.Errorf(
			"%w: SubproblemFraction must be in (0, 1], got %v",
			ErrInvalidConfig, cfg.SubproblemFraction,
		)
	}

	if cfg.SolutionTolerance <= 0 {
		return fmt.Errorf(
			"%w: SolutionTolerance must be > 0, got %v",
			ErrInvalidConfig, cfg.SolutionTolerance,
		)
	}

	if cfg.LNSMaxDepth < -1 {
		return fmt.Errorf(
			"%w: LNSMaxDepth must be >= -1, got %v",
			ErrInvalidConfig, cfg.LNSMaxDepth,
		)
	}

	return nil
}
