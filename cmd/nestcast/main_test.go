package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/nestcast/internal/config"
)

var fastFlags = []string{"--iterations", "50", "--seed", "1", "--base-year", "2026", "--bins", "10"}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.Execute()
	return out.String(), err
}

func writePlan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	_, err := execute(t, "init", path)
	require.NoError(t, err)
	return path
}

func TestInit_WritesLoadablePlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")

	out, err := execute(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote starter plan")

	file, err := config.NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPlan().RetirementAge, file.Plan.RetirementAge)
	assert.Len(t, file.Plan.Accounts, len(config.DefaultPlan().Accounts))
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := writePlan(t)

	_, err := execute(t, "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init", path, "--force")
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	path := writePlan(t)
	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`plan:
  current_age: 70
  retirement_age: 65
  life_expectancy: 90
  annual_expenses: 50000
  inflation_rate: 2
  accounts: {}
`), 0o644))
	out, err = execute(t, "validate", bad)
	require.Error(t, err)
	assert.Contains(t, out, "problem(s)")
}

func TestRun_Console(t *testing.T) {
	path := writePlan(t)

	out, err := execute(t, append([]string{"run", path}, fastFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "RETIREMENT PROJECTION")
	assert.Contains(t, out, "Simulation: 50 iterations, 10 bins")
	assert.Contains(t, out, "PEAK BALANCE DISTRIBUTION")
}

func TestRun_JSONIsReproducibleWithSeed(t *testing.T) {
	path := writePlan(t)
	args := append([]string{"run", path, "--format", "json"}, fastFlags...)

	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)

	var a, b map[string]any
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	require.NoError(t, json.Unmarshal([]byte(second), &b))
	assert.Equal(t, a["projection"], b["projection"])
	assert.Equal(t, a["distribution"], b["distribution"])
}

func TestRun_WritesToOutputDir(t *testing.T) {
	path := writePlan(t)
	dir := filepath.Join(t.TempDir(), "reports")

	out, err := execute(t, append([]string{"run", path, "--format", "csv", "--output", dir}, fastFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote ")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".csv"))
}

func TestRun_UnknownFormat(t *testing.T) {
	path := writePlan(t)
	_, err := execute(t, append([]string{"run", path, "--format", "pdf"}, fastFlags...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestRun_FlagOverridesAreValidated(t *testing.T) {
	path := writePlan(t)
	_, err := execute(t, "run", path, "--iterations=-5")
	require.Error(t, err)
}

func TestProject_CSV(t *testing.T) {
	path := writePlan(t)

	out, err := execute(t, append([]string{"project", path, "--format", "csv"}, fastFlags...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "Age,CalendarYear,"))
	plan := config.DefaultPlan()
	assert.Len(t, lines, 1+plan.LifeExpectancy-plan.CurrentAge)
	assert.True(t, strings.HasPrefix(lines[1], "30,2026,"))
}

func TestSimulate_HistogramCSV(t *testing.T) {
	path := writePlan(t)

	out, err := execute(t, append([]string{"simulate", path}, fastFlags...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "Distribution,Bin,BinCenterValue,PercentageOfTrials", lines[0])
	require.Len(t, lines, 1+2*10+2)
	assert.True(t, strings.HasPrefix(lines[1], "peak,0,"))
	assert.True(t, strings.HasPrefix(lines[11], "min,0,"))
	assert.True(t, strings.HasPrefix(lines[21], "median_peak,,"))
	assert.True(t, strings.HasPrefix(lines[22], "median_min,,"))
}

func TestCompare_Table(t *testing.T) {
	path := writePlan(t)

	out, err := execute(t, append([]string{"compare", path,
		"--with", "retire_1yr_later,spend_10pct_less",
		"--transform", "scale_expenses:factor=0.8"}, fastFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "RETIREMENT PLAN COMPARISON")
	assert.Contains(t, out, "retire_1yr_later")
	assert.Contains(t, out, "custom")
	assert.Contains(t, out, "Configuration: "+path)
}

func TestCompare_JSON(t *testing.T) {
	path := writePlan(t)

	out, err := execute(t, append([]string{"compare", path, "--with", "high_inflation", "--format", "json", "--base", "today"}, fastFlags...)...)
	require.NoError(t, err)

	var set map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	assert.Equal(t, "today", set["baseName"])
}

func TestCompare_Errors(t *testing.T) {
	path := writePlan(t)

	_, err := execute(t, "compare", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to compare")

	_, err = execute(t, append([]string{"compare", path, "--with", "no_such_template"}, fastFlags...)...)
	require.Error(t, err)

	_, err = execute(t, append([]string{"compare", path, "--with", "high_inflation", "--format", "xml"}, fastFlags...)...)
	require.Error(t, err)
}

func TestCompare_ListTemplates(t *testing.T) {
	out, err := execute(t, "compare", "--list-templates")
	require.NoError(t, err)
	assert.Contains(t, out, "retire_later_spend_less")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nestcast dev")
}

func TestSolve_Table(t *testing.T) {
	path := writePlan(t)

	out, err := execute(t, append([]string{"solve", path}, fastFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "BREAK-EVEN SUMMARY")
	assert.Contains(t, out, "retirement_age")
	assert.Contains(t, out, "annual_expenses")
}

func TestSolve_SingleTargetJSON(t *testing.T) {
	path := writePlan(t)

	out, err := execute(t, append([]string{"solve", path, "--target", "age", "--success", "90", "--format", "json"}, fastFlags...)...)
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "retirement_age", res["target"])
	assert.Equal(t, "90", res["targetSuccessRate"])
}

func TestSolve_BadInput(t *testing.T) {
	path := writePlan(t)

	_, err := execute(t, append([]string{"solve", path, "--target", "tsp_rate"}, fastFlags...)...)
	assert.Error(t, err)

	_, err = execute(t, append([]string{"solve", path, "--success", "0"}, fastFlags...)...)
	assert.Error(t, err)

	_, err = execute(t, append([]string{"solve", path, "--max-expenses", "lots"}, fastFlags...)...)
	assert.Error(t, err)

	_, err = execute(t, append([]string{"solve", path, "--format", "csv"}, fastFlags...)...)
	assert.Error(t, err)
}
