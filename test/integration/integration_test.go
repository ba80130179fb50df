package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/nestcast/internal/breakeven"
	"github.com/rgehrsitz/nestcast/internal/calculation"
	"github.com/rgehrsitz/nestcast/internal/compare"
	"github.com/rgehrsitz/nestcast/internal/config"
	"github.com/rgehrsitz/nestcast/internal/domain"
	"github.com/rgehrsitz/nestcast/internal/output"
)

const examplePlan = "../testdata/example_plan.yaml"

func loadExample(t *testing.T) *domain.PlanFile {
	t.Helper()
	for _, key := range []string{config.EnvIterations, config.EnvBins, config.EnvSeed, config.EnvWorkers, config.EnvBaseYear} {
		t.Setenv(key, "")
	}
	file, err := config.NewInputParser().LoadFromFile(examplePlan)
	require.NoError(t, err, "Should load example plan")
	return file
}

func TestEndToEndRun(t *testing.T) {
	file := loadExample(t)
	require.Len(t, file.Plan.Accounts, 5)
	assert.Equal(t, []string{"hsa", "retirement401k", "brokerage", "rothIra", "realEstate"}, file.Plan.Accounts.Keys(),
		"file order is kept")
	assert.Equal(t, 58000.0, file.Plan.AnnualExpenses)

	engine := calculation.NewEngineWithSettings(file.Simulation)
	result, err := engine.Run(context.Background(), &file.Plan)
	require.NoError(t, err)

	require.Len(t, result.Projection, 50)
	assert.Equal(t, 40, result.Projection[0].Age)
	assert.Equal(t, 2026, result.Projection[0].CalendarYear)
	assert.Equal(t, 2075, result.Projection[49].CalendarYear)

	for _, y := range result.Projection {
		for _, b := range y.Balances {
			assert.GreaterOrEqual(t, b.Balance, 0.0, "age %d %s", y.Age, b.Key)
		}
		if y.Age < file.Plan.RetirementAge {
			assert.Zero(t, y.Withdrawal)
		} else {
			assert.Positive(t, y.Withdrawal)
		}
	}

	dist := result.Distribution
	assert.Equal(t, 400, dist.Trials)
	assert.Len(t, dist.PeakDistribution, 25)
	assert.Len(t, dist.MinDistribution, 25)
	assert.GreaterOrEqual(t, dist.MedianPeak, dist.MedianMin)

	for _, hist := range [][]domain.HistogramBin{dist.PeakDistribution, dist.MinDistribution} {
		var total float64
		for i, bin := range hist {
			total += bin.PercentageOfTrials
			if i > 0 {
				assert.Greater(t, bin.BinCenterValue, hist[i-1].BinCenterValue)
			}
		}
		assert.InDelta(t, 100, total, 1e-9)
	}
}

func TestRunIsReproducible(t *testing.T) {
	file := loadExample(t)
	ctx := context.Background()

	first, err := calculation.NewEngineWithSettings(file.Simulation).Run(ctx, &file.Plan)
	require.NoError(t, err)
	second, err := calculation.NewEngineWithSettings(file.Simulation).Run(ctx, &file.Plan)
	require.NoError(t, err)

	assert.Equal(t, first.Projection, second.Projection)
	assert.Equal(t, first.Distribution, second.Distribution)
	assert.Equal(t, first.AverageReturns, second.AverageReturns)
}

func TestAllFormatters(t *testing.T) {
	file := loadExample(t)
	result, err := calculation.NewEngineWithSettings(file.Simulation).Run(context.Background(), &file.Plan)
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			f := output.GetFormatterByName(name)
			require.NotNil(t, f)

			start := time.Now()
			path, err := output.WriteFormatted(f, result, dir)
			require.NoError(t, err)
			assert.Less(t, time.Since(start), 5*time.Second)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
			assert.Equal(t, "."+output.Extension(f), filepath.Ext(path))
		})
	}

	data, err := output.GetFormatterByName("json").Format(result)
	require.NoError(t, err)
	var decoded domain.PlanResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result.Plan.Accounts.Keys(), decoded.Plan.Accounts.Keys())
	assert.Len(t, decoded.Projection, len(result.Projection))
}

func TestSaveAndReload(t *testing.T) {
	file := loadExample(t)
	path := filepath.Join(t.TempDir(), "copy.yaml")

	require.NoError(t, config.SaveConfiguration(file, path))
	reloaded, err := config.NewInputParser().LoadFromFile(path)
	require.NoError(t, err)

	fp1, err := file.Plan.Fingerprint()
	require.NoError(t, err)
	fp2, err := reloaded.Plan.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
	assert.Equal(t, file.Simulation, reloaded.Simulation)
}

func TestCompareVariants(t *testing.T) {
	file := loadExample(t)
	cached := calculation.NewCachedEngine(calculation.NewEngineWithSettings(file.Simulation), 16, time.Minute)

	set, err := compare.NewEngine(cached).Compare(context.Background(), &file.Plan, compare.Options{
		Templates:  []string{"retire_3yr_later", "spend_10pct_more"},
		Transforms: []string{"adjust_returns:delta=-1", "set_inflation:rate=3"},
	})
	require.NoError(t, err)
	require.Len(t, set.AlternativeResults, 3)

	later := set.AlternativeResults[0]
	assert.Equal(t, 65, later.RetirementAge)
	assert.True(t, later.SuccessRateDiff.GreaterThanOrEqual(decimal.Zero), "working longer cannot hurt")

	more := set.AlternativeResults[1]
	assert.True(t, more.SuccessRateDiff.LessThanOrEqual(decimal.Zero), "spending more cannot help")

	custom := set.AlternativeResults[2]
	assert.Equal(t, "custom", custom.Name)
	assert.Contains(t, custom.Description, ";")

	table := (&compare.TableFormatter{}).Format(set)
	assert.Contains(t, table, "retire_3yr_later")
	csv, err := (&compare.CSVFormatter{}).Format(set)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(csv), "\n"), 5)

	// the base plan is computed once; re-running the comparison is served from cache
	_, err = compare.NewEngine(cached).Compare(context.Background(), &file.Plan, compare.Options{Templates: []string{"retire_3yr_later"}})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), cached.CacheStats().Hits)
}

func TestSolveBreakEven(t *testing.T) {
	file := loadExample(t)
	solver := breakeven.NewDefaultSolver(calculation.NewEngineWithSettings(file.Simulation))

	md, err := solver.OptimizeAllTargets(context.Background(), &file.Plan, breakeven.DefaultConstraints())
	require.NoError(t, err)
	require.Len(t, md.Results, 2)

	for _, res := range md.Results {
		if !res.Success {
			continue
		}
		assert.True(t, res.AtOptimal.SuccessRate.Equal(decimal.NewFromInt(100)), "%s", res.Target)
		assert.Zero(t, res.AtOptimal.DepletionAge)
	}
	assert.NotEmpty(t, md.Recommendations)
}

func TestValidationErrorsSurface(t *testing.T) {
	_, err := config.NewInputParser().Parse([]byte(`
plan:
  current_age: 50
  retirement_age: 45
  life_expectancy: 40
  annual_expenses: 0
  inflation_rate: 99
  accounts:
    hsa:
      balance: -5
simulation:
  iterations: 10
  bins: 5
`))
	require.Error(t, err)

	var verrs config.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.GreaterOrEqual(t, len(verrs), 4)
}
