package tui

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/nestcast/internal/domain"
	"github.com/rgehrsitz/nestcast/internal/output"
	"github.com/rgehrsitz/nestcast/internal/tui/components"
)

// field binds a slider to the plan value it edits.
type field struct {
	slider *components.ParameterSlider
	apply  func(p *domain.PlanParameters, v float64)
}

func years(v float64) string { return fmt.Sprintf("%.0f", v) }

func percent(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func dollars(v float64) string { return output.FormatCurrencyFloat(v) }

// span widens [lo, hi] to include v.
func span(lo, hi, v float64) (float64, float64) {
	return math.Min(lo, v), math.Max(hi, v)
}

func newSlider(label string, v, lo, hi, step float64, format func(float64) string) *components.ParameterSlider {
	lo, hi = span(lo, hi, v)
	return components.NewParameterSlider(label, v, lo, hi, step).WithFormat(format)
}

// buildFields creates the plan sliders followed by the sliders of the
// account at index account.
func buildFields(p *domain.PlanParameters, account int) []field {
	fields := []field{
		{
			slider: newSlider("Current Age", float64(p.CurrentAge), 18, 90, 1, years),
			apply:  func(p *domain.PlanParameters, v float64) { p.CurrentAge = int(v) },
		},
		{
			slider: newSlider("Retirement Age", float64(p.RetirementAge), 19, 100, 1, years),
			apply:  func(p *domain.PlanParameters, v float64) { p.RetirementAge = int(v) },
		},
		{
			slider: newSlider("Life Expectancy", float64(p.LifeExpectancy), 20, 120, 1, years),
			apply:  func(p *domain.PlanParameters, v float64) { p.LifeExpectancy = int(v) },
		},
		{
			slider: newSlider("Annual Expenses", p.AnnualExpenses, 1000, math.Max(300000, 2*p.AnnualExpenses), 1000, dollars),
			apply:  func(p *domain.PlanParameters, v float64) { p.AnnualExpenses = v },
		},
		{
			slider: newSlider("Inflation", p.InflationRate, 0, 15, 0.1, percent),
			apply:  func(p *domain.PlanParameters, v float64) { p.InflationRate = v },
		},
	}

	if account < 0 || account >= len(p.Accounts) {
		return fields
	}
	cfg := p.Accounts[account].Config
	key := p.Accounts[account].Key
	edit := func(set func(c *domain.AccountConfig, v float64)) func(*domain.PlanParameters, float64) {
		return func(p *domain.PlanParameters, v float64) {
			if i := p.Accounts.Index(key); i >= 0 {
				set(&p.Accounts[i].Config, v)
			}
		}
	}

	return append(fields,
		field{
			slider: newSlider("Balance", cfg.Balance, 0, math.Max(2_000_000, 2*cfg.Balance), 1000, dollars),
			apply:  edit(func(c *domain.AccountConfig, v float64) { c.Balance = v }),
		},
		field{
			slider: newSlider("Contribution", cfg.AnnualContribution, 0, math.Max(60000, 2*cfg.AnnualContribution), 500, dollars),
			apply:  edit(func(c *domain.AccountConfig, v float64) { c.AnnualContribution = v }),
		},
		field{
			slider: newSlider("Expected Return", cfg.ExpectedReturn, -10, 30, 0.1, percent),
			apply:  edit(func(c *domain.AccountConfig, v float64) { c.ExpectedReturn = v }),
		},
		field{
			slider: newSlider("Std Deviation", cfg.StdDev, 0, 60, 0.5, percent),
			apply:  edit(func(c *domain.AccountConfig, v float64) { c.StdDev = v }),
		},
	)
}

// planFieldCount is the number of sliders that edit the plan rather than an account.
const planFieldCount = 5
