package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// ConsoleFormatter renders a plain-text report for the terminal.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

const histogramBarWidth = 40

func (c ConsoleFormatter) Format(result *domain.PlanResult) ([]byte, error) {
	var buf bytes.Buffer
	plan := result.Plan
	metrics := Analyze(result)

	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintln(&buf, "RETIREMENT PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintf(&buf, "Ages: current %d, retire %d, plan to %d (%d years)\n",
		plan.CurrentAge, plan.RetirementAge, plan.LifeExpectancy, plan.Years())
	fmt.Fprintf(&buf, "Annual expenses: %s (today's dollars), inflation %s\n",
		FormatCurrencyFloat(plan.AnnualExpenses), FormatPercentage(Money(plan.InflationRate)))
	fmt.Fprintf(&buf, "Simulation: %d iterations, %d bins\n\n", result.Settings.Iterations, result.Settings.Bins)

	fmt.Fprintln(&buf, "SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	fmt.Fprintf(&buf, "  Total Current Savings:  %s\n", FormatCurrency(metrics.TotalCurrentSavings))
	fmt.Fprintf(&buf, "  Years Until Retirement: %d\n", metrics.YearsUntilRetirement)
	fmt.Fprintf(&buf, "  Peak Balance:           %s\n", FormatCurrency(metrics.PeakBalance))
	fmt.Fprintf(&buf, "  Success Rate:           %s\n", FormatPercentage(metrics.SuccessRate))
	if metrics.DepletionAge > 0 {
		fmt.Fprintf(&buf, "  Accounts Depleted At:   age %d\n", metrics.DepletionAge)
	}
	fmt.Fprintf(&buf, "  Risk:                   %s (%s)\n\n", metrics.Risk.Label, metrics.Risk.Description)

	fmt.Fprintln(&buf, "ACCOUNTS")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	fmt.Fprintf(&buf, "  %-16s %14s %12s %8s %8s\n", "Account", "Balance", "Contrib/yr", "Return", "StdDev")
	for _, acct := range plan.Accounts {
		cfg := acct.Config
		fmt.Fprintf(&buf, "  %-16s %14s %12s %7.1f%% %7.1f%%\n",
			AccountLabel(acct.Key, cfg.Label),
			FormatCurrencyFloat(cfg.Balance),
			FormatCurrencyFloat(cfg.AnnualContribution),
			cfg.ExpectedReturn, cfg.StdDev)
	}
	fmt.Fprintln(&buf)

	writeProjectionTable(&buf, plan, result.Projection)
	writeHistogram(&buf, "PEAK BALANCE DISTRIBUTION", result.Distribution.PeakDistribution, result.Distribution.MedianPeak)
	writeHistogram(&buf, "MINIMUM BALANCE DISTRIBUTION", result.Distribution.MinDistribution, result.Distribution.MedianMin)

	fmt.Fprintln(&buf, "ASSUMPTIONS")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	for _, a := range DefaultAssumptions {
		fmt.Fprintf(&buf, "  - %s\n", a)
	}
	return buf.Bytes(), nil
}

func writeProjectionTable(buf *bytes.Buffer, plan *domain.PlanParameters, projection []domain.ProjectionYear) {
	fmt.Fprintln(buf, "YEAR-BY-YEAR PROJECTION")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	if len(projection) == 0 {
		fmt.Fprintln(buf, "  (no projection years)")
		fmt.Fprintln(buf)
		return
	}

	fmt.Fprintf(buf, "  %4s %5s", "Age", "Year")
	for _, acct := range plan.Accounts {
		fmt.Fprintf(buf, " %10s", truncate(AccountLabel(acct.Key, acct.Config.Label), 10))
	}
	fmt.Fprintf(buf, " %10s %10s\n", "Total", "Withdrawal")

	for _, y := range projection {
		fmt.Fprintf(buf, "  %4d %5d", y.Age, y.CalendarYear)
		for _, acct := range plan.Accounts {
			fmt.Fprintf(buf, " %10s", FormatCompact(y.Balance(acct.Key)))
		}
		fmt.Fprintf(buf, " %10s %10s\n", FormatCompact(y.TotalBalance), FormatCompact(y.Withdrawal))
	}
	fmt.Fprintln(buf)
}

func writeHistogram(buf *bytes.Buffer, title string, bins []domain.HistogramBin, median float64) {
	fmt.Fprintln(buf, title)
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	if len(bins) == 0 {
		fmt.Fprintln(buf, "  (no trials)")
		fmt.Fprintln(buf)
		return
	}
	fmt.Fprintf(buf, "  Median: %s\n", FormatCurrencyFloat(median))

	maxPct := 0.0
	for _, b := range bins {
		if b.PercentageOfTrials > maxPct {
			maxPct = b.PercentageOfTrials
		}
	}
	for _, b := range bins {
		n := 0
		if maxPct > 0 {
			n = int(b.PercentageOfTrials / maxPct * histogramBarWidth)
		}
		fmt.Fprintf(buf, "  %10s | %-*s %6.2f%%\n", FormatCompact(b.BinCenterValue), histogramBarWidth, strings.Repeat("#", n), b.PercentageOfTrials)
	}
	fmt.Fprintln(buf)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
