package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvIterations, "500")
	t.Setenv(EnvBins, "25")
	t.Setenv(EnvSeed, "99")
	t.Setenv(EnvWorkers, "4")
	t.Setenv(EnvBaseYear, "2030")

	s, err := ApplyEnvOverrides(domain.DefaultSimulationSettings())
	require.NoError(t, err)
	assert.Equal(t, domain.SimulationSettings{Iterations: 500, Bins: 25, Seed: 99, Workers: 4, BaseYear: 2030}, s)
}

func TestApplyEnvOverrides_Unset(t *testing.T) {
	t.Setenv(EnvIterations, "")
	t.Setenv(EnvSeed, "")

	in := domain.SimulationSettings{Iterations: 10, Bins: 5, Workers: 1}
	s, err := ApplyEnvOverrides(in)
	require.NoError(t, err)
	assert.Equal(t, in.Iterations, s.Iterations)
	assert.Zero(t, s.Seed)
}

func TestApplyEnvOverrides_Invalid(t *testing.T) {
	t.Setenv(EnvBins, "many")
	_, err := ApplyEnvOverrides(domain.DefaultSimulationSettings())
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvBins)

	t.Setenv(EnvBins, "")
	t.Setenv(EnvSeed, "-3")
	_, err = ApplyEnvOverrides(domain.DefaultSimulationSettings())
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("NESTCAST_BINS=12\n"), 0644))
	t.Setenv(EnvBins, "")
	require.NoError(t, os.Unsetenv(EnvBins))

	require.NoError(t, LoadEnv(envFile, filepath.Join(dir, "missing.env")))

	s, err := ApplyEnvOverrides(domain.DefaultSimulationSettings())
	require.NoError(t, err)
	assert.Equal(t, 12, s.Bins)
}
