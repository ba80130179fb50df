package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

func buildTestResult() *domain.PlanResult {
	plan := &domain.PlanParameters{
		CurrentAge:     62,
		RetirementAge:  63,
		LifeExpectancy: 66,
		AnnualExpenses: 50000,
		InflationRate:  2,
		Accounts: domain.Accounts{
			{Key: domain.AccountHSA, Config: domain.AccountConfig{Balance: 20000, ExpectedReturn: 7, StdDev: 10, Label: "HSA", Color: "#48bb78"}},
			{Key: domain.AccountRealEstate, Config: domain.AccountConfig{Balance: 80000, ExpectedReturn: 4, StdDev: 8, Label: "Real Estate"}},
		},
	}
	year := func(age int, hsa, re, total, wd float64) domain.ProjectionYear {
		return domain.ProjectionYear{
			Age:          age,
			CalendarYear: 2026 + age - 62,
			Balances: []domain.AccountBalance{
				{Key: domain.AccountHSA, Balance: hsa},
				{Key: domain.AccountRealEstate, Balance: re},
			},
			TotalBalance: total,
			Withdrawal:   wd,
		}
	}
	return &domain.PlanResult{
		Plan:     plan,
		Settings: domain.SimulationSettings{Iterations: 4, Bins: 2},
		Projection: []domain.ProjectionYear{
			year(62, 21400, 83200, 104600, 0),
			year(63, 0, 86528, 109426, 51000),
			year(64, 0, 89989, 89989, 52020),
			year(65, 0, 93589, 93589, 53060),
		},
		Distribution: domain.DistributionSummary{
			PeakDistribution: []domain.HistogramBin{{BinCenterValue: 110000, PercentageOfTrials: 75}, {BinCenterValue: 130000, PercentageOfTrials: 25}},
			MinDistribution:  []domain.HistogramBin{{BinCenterValue: 104600, PercentageOfTrials: 100}},
			MedianPeak:       112000,
			MedianMin:        104600,
			Trials:           4,
		},
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFormatterFunc(t *testing.T) {
	var received *domain.PlanResult
	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(r *domain.PlanResult) ([]byte, error) {
			received = r
			return []byte("test output"), nil
		},
	}

	result := buildTestResult()
	out, err := formatter.Format(result)
	assert.NoError(t, err)
	assert.Same(t, result, received, "Should pass the result")
	assert.Equal(t, []byte("test output"), out)
	assert.Equal(t, "test-formatter", formatter.Name())
}

func TestGetFormatterByName(t *testing.T) {
	assert.Equal(t, "console", GetFormatterByName("console").Name())
	assert.Equal(t, "console", GetFormatterByName(" TEXT ").Name())
	assert.Equal(t, "histogram-csv", GetFormatterByName("histogram").Name())
	assert.Equal(t, "json", GetFormatterByName("json-pretty").Name())
	assert.Nil(t, GetFormatterByName("pdf"))

	assert.Equal(t, []string{"console", "csv", "histogram-csv", "html", "json"}, AvailableFormatterNames())
	assert.Contains(t, AvailableFormatAliases(), "html-report")
}

func TestWriteFormatted(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteFormatted(ProjectionCSVFormatter{}, buildTestResult(), dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hsaBalance")
}

func TestAnalyze(t *testing.T) {
	m := Analyze(buildTestResult())

	assert.True(t, m.TotalCurrentSavings.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, 1, m.YearsUntilRetirement)
	assert.True(t, m.PeakBalance.Equal(decimal.NewFromInt(109426)))
	assert.True(t, m.SuccessRate.Equal(decimal.NewFromInt(25)), "real estate does not count toward success, got %s", m.SuccessRate)
	assert.Equal(t, 63, m.DepletionAge)
	assert.Equal(t, "VERY HIGH RISK", m.Risk.Label)
}

func TestSuccessRate_Empty(t *testing.T) {
	assert.True(t, SuccessRate(nil).IsZero())
}

func TestCalculateRiskLevel(t *testing.T) {
	assert.Equal(t, "LOW RISK", CalculateRiskLevel(decimal.NewFromInt(100)).Label)
	assert.Equal(t, "LOW RISK", CalculateRiskLevel(decimal.NewFromInt(95)).Label)
	assert.Equal(t, "MODERATE RISK", CalculateRiskLevel(decimal.NewFromInt(90)).Label)
	assert.Equal(t, "HIGH RISK", CalculateRiskLevel(decimal.NewFromInt(75)).Label)
	assert.Equal(t, "VERY HIGH RISK", CalculateRiskLevel(decimal.NewFromFloat(74.9)).Label)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$0", FormatCurrency(decimal.Zero))
	assert.Equal(t, "$999", FormatCurrency(decimal.NewFromInt(999)))
	assert.Equal(t, "$1,000", FormatCurrency(decimal.NewFromInt(1000)))
	assert.Equal(t, "$1,234,568", FormatCurrency(decimal.NewFromFloat(1234567.5)))
	assert.Equal(t, "-$12,500", FormatCurrency(decimal.NewFromInt(-12500)))
	assert.Equal(t, "12.35%", FormatPercentage(decimal.NewFromFloat(12.345)))
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "$950", FormatCompact(950))
	assert.Equal(t, "$350K", FormatCompact(350000))
	assert.Equal(t, "$1.2M", FormatCompact(1234567))
	assert.Equal(t, "$2.5B", FormatCompact(2.5e9))
	assert.Equal(t, "-$5K", FormatCompact(-5000))
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestResult())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "RETIREMENT PROJECTION")
	assert.Contains(t, text, "Total Current Savings:  $100,000")
	assert.Contains(t, text, "Accounts Depleted At:   age 63")
	assert.Contains(t, text, "PEAK BALANCE DISTRIBUTION")
	assert.Contains(t, text, "Median: $112,000")
	assert.Contains(t, text, "Real Estat", "labels are truncated to the column width")
}

func TestProjectionCSVFormatter(t *testing.T) {
	out, err := ProjectionCSVFormatter{}.Format(buildTestResult())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Age", "CalendarYear", "hsaBalance", "realEstateBalance", "TotalBalance", "Withdrawal"}, records[0])
	assert.Equal(t, []string{"63", "2027", "0.00", "86528.00", "109426.00", "51000.00"}, records[2])
}

func TestHistogramCSVFormatter(t *testing.T) {
	out, err := HistogramCSVFormatter{}.Format(buildTestResult())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+2+1+2)
	assert.Equal(t, []string{"peak", "0", "110000.00", "75.0000"}, records[1])
	assert.Equal(t, []string{"min", "0", "104600.00", "100.0000"}, records[3])
	assert.Equal(t, "median_peak", records[4][0])
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestResult())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Contains(t, decoded, "projection")
	assert.Contains(t, decoded, "distribution")
	metrics := decoded["metrics"].(map[string]interface{})
	assert.Equal(t, "25.00", metrics["successRate"])

	first := decoded["projection"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 21400.0, first["hsaBalance"])
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestResult())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "Peak Balance Distribution")
	assert.Contains(t, html, "$109,426")
	assert.Contains(t, html, "Real Estate")
	assert.Contains(t, html, "height: 100.0%")
}
