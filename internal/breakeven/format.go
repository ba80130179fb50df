package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestcast/internal/output"
)

// TableFormatter formats solver results as console text
type TableFormatter struct{}

// Format renders a single solver result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Solving For:    %s\n", result.Target))
	sb.WriteString(fmt.Sprintf("Target:         %s of years funded\n", output.FormatPercentage(result.TargetSuccessRate)))
	sb.WriteString(fmt.Sprintf("Status:         %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Evaluations:    %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:    %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%-16s %16s %16s\n", "", "Plan", "Break-even"))
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	sb.WriteString(fmt.Sprintf("%-16s %16s %16s\n", tf.valueLabel(result.Target),
		tf.formatValue(result.Target, result.BaseValue), tf.formatValue(result.Target, result.OptimalValue)))
	sb.WriteString(fmt.Sprintf("%-16s %16s %16s\n", "Success Rate",
		output.FormatPercentage(result.Base.SuccessRate), output.FormatPercentage(result.AtOptimal.SuccessRate)))
	sb.WriteString(fmt.Sprintf("%-16s %16s %16s\n", "Peak Balance",
		output.FormatCurrency(result.Base.PeakBalance), output.FormatCurrency(result.AtOptimal.PeakBalance)))
	sb.WriteString(fmt.Sprintf("%-16s %16s %16s\n", "Final Balance",
		output.FormatCurrency(result.Base.FinalBalance), output.FormatCurrency(result.AtOptimal.FinalBalance)))
	sb.WriteString(fmt.Sprintf("%-16s %16s %16s\n", "Depletes At",
		tf.formatAge(result.Base.DepletionAge), tf.formatAge(result.AtOptimal.DepletionAge)))
	sb.WriteString("\n")

	if result.Success {
		change := result.ChangeFromBase()
		sb.WriteString(fmt.Sprintf("Change from plan: %s%s\n", tf.deltaSymbol(change), tf.formatValue(result.Target, change.Abs())))
	}

	return sb.String()
}

// FormatMultiDimensional renders the results of OptimizeAllTargets
func (tf *TableFormatter) FormatMultiDimensional(result *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("%-18s %12s %12s %14s\n", "Solving For", "Plan", "Break-even", "Final Balance"))
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	for i := range result.Results {
		res := &result.Results[i]
		breakEven := tf.formatValue(res.Target, res.OptimalValue)
		if !res.Success {
			breakEven = "n/a"
		}
		sb.WriteString(fmt.Sprintf("%-18s %12s %12s %14s\n",
			tf.truncate(string(res.Target), 18),
			tf.formatValue(res.Target, res.BaseValue),
			breakEven,
			output.FormatCurrency(res.AtOptimal.FinalBalance)))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON for a single result
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiDimensional generates JSON for OptimizeAllTargets results
func (jf *JSONFormatter) FormatMultiDimensional(result *MultiDimensionalResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Target met"
	}
	return "⚠ Target not reachable in range"
}

func (tf *TableFormatter) valueLabel(target OptimizationTarget) string {
	if target == OptimizeRetirementAge {
		return "Retirement Age"
	}
	return "Annual Expenses"
}

func (tf *TableFormatter) formatValue(target OptimizationTarget, v decimal.Decimal) string {
	if target == OptimizeRetirementAge {
		return v.StringFixed(0)
	}
	return output.FormatCurrency(v)
}

func (tf *TableFormatter) formatAge(age int) string {
	if age == 0 {
		return "never"
	}
	return fmt.Sprintf("%d", age)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
