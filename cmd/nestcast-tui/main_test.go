package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/nestcast/internal/config"
)

func TestOptions_DefaultPlan(t *testing.T) {
	opts, err := options(nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPlan(), opts.Plan)
	assert.Empty(t, opts.PlanPath)
}

func TestOptions_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	file := config.DefaultPlanFile()
	file.Plan.RetirementAge = 55
	require.NoError(t, config.SaveConfiguration(file, path))

	opts, err := options([]string{path})
	require.NoError(t, err)
	assert.Equal(t, 55, opts.Plan.RetirementAge)
	assert.Equal(t, path, opts.PlanPath)
}

func TestOptions_MissingFile(t *testing.T) {
	_, err := options([]string{filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nestcast init")
}
