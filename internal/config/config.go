package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/melina-leite/rptR/internal/errors"
)

// Config holds the resampling defaults applied when a caller does not set a
// value explicitly on the request.
type Config struct {
	Resampling ResamplingConfig
	Parallel   ParallelConfig
}

// ResamplingConfig holds replicate counts and the confidence level
type ResamplingConfig struct {
	BootstrapReplicates   int
	PermutationReplicates int
	ConfidenceLevel       float64
	Seed                  int64
}

// ParallelConfig holds worker-pool settings
type ParallelConfig struct {
	Enabled bool
	Workers int
}

// Load reads configuration from environment variables (optionally via a .env
// file) and validates it. Unset variables fall back to the package defaults:
// 1000 bootstrap replicates, 1000 permutation replicates, 0.95 confidence,
// sequential execution.
func Load() (*Config, error) {
	// A missing .env file is fine; env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		Resampling: ResamplingConfig{
			BootstrapReplicates:   1000,
			PermutationReplicates: 1000,
			ConfidenceLevel:       0.95,
			Seed:                  1,
		},
		Parallel: ParallelConfig{},
	}

	var err error
	if cfg.Resampling.BootstrapReplicates, err = intEnv("RPT_NBOOT", cfg.Resampling.BootstrapReplicates); err != nil {
		return nil, err
	}
	if cfg.Resampling.PermutationReplicates, err = intEnv("RPT_NPERMUT", cfg.Resampling.PermutationReplicates); err != nil {
		return nil, err
	}
	if cfg.Parallel.Workers, err = intEnv("RPT_WORKERS", cfg.Parallel.Workers); err != nil {
		return nil, err
	}
	if v := os.Getenv("RPT_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("RPT_SEED must be an integer")
		}
		cfg.Resampling.Seed = seed
	}
	if v := os.Getenv("RPT_CONFIDENCE"); v != "" {
		level, err := strconv.ParseFloat(v, 64)
		if err != nil || level <= 0 || level >= 1 {
			return nil, errors.ConfigInvalid("RPT_CONFIDENCE must be a number in (0, 1)")
		}
		cfg.Resampling.ConfidenceLevel = level
	}
	if v := os.Getenv("RPT_PARALLEL"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.ConfigInvalid("RPT_PARALLEL must be a boolean")
		}
		cfg.Parallel.Enabled = enabled
	}

	return cfg, nil
}

func intEnv(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.ConfigInvalid(name + " must be an integer")
	}
	return n, nil
}
