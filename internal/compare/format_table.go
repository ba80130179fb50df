package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestcast/internal/output"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing plans
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("RETIREMENT PLAN COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 88) + "\n")
	sb.WriteString(fmt.Sprintf("Base Plan: %s\n", compSet.BaseName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 26
	numWidth := 12

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Plan",
		numWidth, "Success",
		numWidth, "Peak",
		numWidth, "Final",
		numWidth, "Median Peak",
		numWidth, "Median Min"))
	sb.WriteString(strings.Repeat("-", 88) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 88) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 88) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s", alt.Name))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", alt.Description))
			}
			sb.WriteString(":\n")
			sb.WriteString(fmt.Sprintf("  Success Rate:     %s%s points\n",
				tf.deltaSymbol(alt.SuccessRateDiff), alt.SuccessRateDiff.StringFixed(1)))
			sb.WriteString(fmt.Sprintf("  Peak Balance:     %s\n", tf.formatDelta(alt.PeakDiff)))
			sb.WriteString(fmt.Sprintf("  Final Balance:    %s\n", tf.formatDelta(alt.FinalBalanceDiff)))
			sb.WriteString(fmt.Sprintf("  Median Peak:      %s\n", tf.formatDelta(alt.MedianPeakDiff)))
			sb.WriteString(fmt.Sprintf("  Median Minimum:   %s\n", tf.formatDelta(alt.MedianMinDiff)))
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single plan row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.Name
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, result.SuccessRate.StringFixed(1)+"%",
		numWidth, output.FormatCompact(result.PeakBalance.InexactFloat64()),
		numWidth, output.FormatCompact(result.FinalBalance.InexactFloat64()),
		numWidth, output.FormatCompact(result.MedianPeak.InexactFloat64()),
		numWidth, output.FormatCompact(result.MedianMin.InexactFloat64()))
}

// formatDelta renders a signed currency difference
func (tf *TableFormatter) formatDelta(d decimal.Decimal) string {
	if d.IsZero() {
		return "no change"
	}
	return tf.deltaSymbol(d) + output.FormatCurrency(d)
}

// deltaSymbol returns "+" for gains; losses carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a single-line summary of success-rate changes
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s", compSet.BaseName))
	if compSet.BaseResult != nil {
		sb.WriteString(fmt.Sprintf(" (%s%%)", compSet.BaseResult.SuccessRate.StringFixed(1)))
	}

	for _, alt := range compSet.AlternativeResults {
		change := "="
		if !alt.SuccessRateDiff.IsZero() {
			change = tf.deltaSymbol(alt.SuccessRateDiff) + alt.SuccessRateDiff.StringFixed(1) + "pt"
		}
		sb.WriteString(fmt.Sprintf(" | %s: %s", alt.Name, change))
	}

	return sb.String()
}
