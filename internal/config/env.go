package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// Environment variables that override simulation settings.
const (
	EnvIterations = "NESTCAST_ITERATIONS"
	EnvBins       = "NESTCAST_BINS"
	EnvSeed       = "NESTCAST_SEED"
	EnvWorkers    = "NESTCAST_WORKERS"
	EnvBaseYear   = "NESTCAST_BASE_YEAR"
)

// LoadEnv loads variables from the given dotenv files (".env" when none are
// named) without overriding variables already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnvOverrides returns s with any NESTCAST_* variables applied.
func ApplyEnvOverrides(s domain.SimulationSettings) (domain.SimulationSettings, error) {
	var err error
	if s.Iterations, err = envInt(EnvIterations, s.Iterations); err != nil {
		return s, err
	}
	if s.Bins, err = envInt(EnvBins, s.Bins); err != nil {
		return s, err
	}
	if s.Workers, err = envInt(EnvWorkers, s.Workers); err != nil {
		return s, err
	}
	if s.BaseYear, err = envInt(EnvBaseYear, s.BaseYear); err != nil {
		return s, err
	}
	if v := strings.TrimSpace(os.Getenv(EnvSeed)); v != "" {
		seed, perr := strconv.ParseUint(v, 10, 64)
		if perr != nil {
			return s, fmt.Errorf("invalid %s %q: %w", EnvSeed, v, perr)
		}
		s.Seed = seed
	}
	return s, nil
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
