package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Plan",
		"Type",
		"Retirement Age",
		"Annual Expenses",
		"Success Rate",
		"Peak Balance",
		"Final Balance",
		"Depletion Age",
		"Median Peak",
		"Median Min",
		"Success Rate Diff",
		"Peak Diff",
		"Final Balance Diff",
		"Median Peak Diff",
		"Median Min Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, kind string) []string {
	return []string{
		result.Name,
		kind,
		strconv.Itoa(result.RetirementAge),
		result.AnnualExpenses.StringFixed(2),
		result.SuccessRate.StringFixed(2),
		result.PeakBalance.StringFixed(2),
		result.FinalBalance.StringFixed(2),
		strconv.Itoa(result.DepletionAge),
		result.MedianPeak.StringFixed(2),
		result.MedianMin.StringFixed(2),
		result.SuccessRateDiff.StringFixed(2),
		result.PeakDiff.StringFixed(2),
		result.FinalBalanceDiff.StringFixed(2),
		result.MedianPeakDiff.StringFixed(2),
		result.MedianMinDiff.StringFixed(2),
	}
}
