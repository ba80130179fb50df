package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestcast/internal/domain"
	"github.com/rgehrsitz/nestcast/internal/output"
)

// ComparisonResult holds the headline metrics of one plan and, for variants,
// their differences from the base plan.
type ComparisonResult struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Result      *domain.PlanResult `json:"-"`

	// Plan inputs shown next to the results
	RetirementAge  int             `json:"retirementAge"`
	AnnualExpenses decimal.Decimal `json:"annualExpenses"`

	// Key metrics
	SuccessRate  decimal.Decimal `json:"successRate"`
	Risk         string          `json:"risk"`
	PeakBalance  decimal.Decimal `json:"peakBalance"`
	FinalBalance decimal.Decimal `json:"finalBalance"`
	DepletionAge int             `json:"depletionAge,omitempty"`
	MedianPeak   decimal.Decimal `json:"medianPeak"`
	MedianMin    decimal.Decimal `json:"medianMin"`

	// Comparison to base
	SuccessRateDiff  decimal.Decimal `json:"successRateDiff"`
	PeakDiff         decimal.Decimal `json:"peakDiff"`
	FinalBalanceDiff decimal.Decimal `json:"finalBalanceDiff"`
	MedianPeakDiff   decimal.Decimal `json:"medianPeakDiff"`
	MedianMinDiff    decimal.Decimal `json:"medianMinDiff"`
}

// ComparisonSet represents a base plan and its variants
type ComparisonSet struct {
	BaseName           string             `json:"baseName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
}

// MetricsCalculator extracts comparison metrics from plan results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics of one plan result
func (mc *MetricsCalculator) CalculateMetrics(name string, result *domain.PlanResult) ComparisonResult {
	m := output.Analyze(result)
	return ComparisonResult{
		Name:           name,
		Result:         result,
		RetirementAge:  result.Plan.RetirementAge,
		AnnualExpenses: output.Money(result.Plan.AnnualExpenses),
		SuccessRate:    m.SuccessRate,
		Risk:           m.Risk.Label,
		PeakBalance:    m.PeakBalance,
		FinalBalance:   m.FinalBalance,
		DepletionAge:   m.DepletionAge,
		MedianPeak:     m.MedianPeak,
		MedianMin:      m.MedianMin,
	}
}

// CalculateComparison fills in the differences between a variant and the base
func (mc *MetricsCalculator) CalculateComparison(variant, base ComparisonResult) ComparisonResult {
	variant.SuccessRateDiff = variant.SuccessRate.Sub(base.SuccessRate)
	variant.PeakDiff = variant.PeakBalance.Sub(base.PeakBalance)
	variant.FinalBalanceDiff = variant.FinalBalance.Sub(base.FinalBalance)
	variant.MedianPeakDiff = variant.MedianPeak.Sub(base.MedianPeak)
	variant.MedianMinDiff = variant.MedianMin.Sub(base.MedianMin)
	return variant
}

// GenerateRecommendations points out the variants that beat the base plan
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	bestSuccess := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		if compSet.AlternativeResults[i].SuccessRate.GreaterThan(bestSuccess.SuccessRate) {
			bestSuccess = &compSet.AlternativeResults[i]
		}
	}
	if bestSuccess != compSet.BaseResult {
		recommendations = append(recommendations,
			fmt.Sprintf("Best Success Rate: %s keeps %s of years funded (%s points over base)",
				bestSuccess.Name, output.FormatPercentage(bestSuccess.SuccessRate),
				bestSuccess.SuccessRate.Sub(compSet.BaseResult.SuccessRate).StringFixed(1)))
	}

	bestFinal := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		if compSet.AlternativeResults[i].FinalBalance.GreaterThan(bestFinal.FinalBalance) {
			bestFinal = &compSet.AlternativeResults[i]
		}
	}
	if bestFinal != compSet.BaseResult {
		recommendations = append(recommendations,
			fmt.Sprintf("Largest Legacy: %s ends with %s more than base",
				bestFinal.Name, output.FormatCurrency(bestFinal.FinalBalance.Sub(compSet.BaseResult.FinalBalance))))
	}

	bestFloor := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		if compSet.AlternativeResults[i].MedianMin.GreaterThan(bestFloor.MedianMin) {
			bestFloor = &compSet.AlternativeResults[i]
		}
	}
	if bestFloor != compSet.BaseResult {
		recommendations = append(recommendations,
			fmt.Sprintf("Safest Floor: %s raises the median minimum balance by %s",
				bestFloor.Name, output.FormatCurrency(bestFloor.MedianMin.Sub(compSet.BaseResult.MedianMin))))
	}

	return recommendations
}
