package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Amount is a monetary value read from a plan file. It accepts plain numbers
// as well as strings such as "$1,250,000.00".
type Amount struct {
	decimal.Decimal
}

// ParseAmount parses a money string, ignoring a leading currency sign,
// thousands separators and underscores.
func ParseAmount(s string) (Amount, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.NewReplacer(",", "", "_", "", " ", "").Replace(clean)
	if clean == "" {
		return Amount{}, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{Decimal: d}, nil
}

// NewAmount wraps a float64.
func NewAmount(v float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(v)}
}

// Float64 converts the amount for use by the engine.
func (a Amount) Float64() float64 {
	return a.InexactFloat64()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", value.Line)
	}
	parsed, err := ParseAmount(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*a = parsed
	return nil
}

type accountConfigYAML struct {
	Balance            Amount  `yaml:"balance"`
	AnnualContribution Amount  `yaml:"annual_contribution"`
	ExpectedReturn     float64 `yaml:"expected_return"`
	StdDev             float64 `yaml:"std_dev"`
	Label              string  `yaml:"label"`
	Color              string  `yaml:"color"`
}

// UnmarshalYAML lets balances and contributions be written as money strings.
func (c *AccountConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw accountConfigYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*c = AccountConfig{
		Balance:            raw.Balance.Float64(),
		AnnualContribution: raw.AnnualContribution.Float64(),
		ExpectedReturn:     raw.ExpectedReturn,
		StdDev:             raw.StdDev,
		Label:              raw.Label,
		Color:              raw.Color,
	}
	return nil
}

type planParametersYAML struct {
	CurrentAge     int      `yaml:"current_age"`
	RetirementAge  int      `yaml:"retirement_age"`
	LifeExpectancy int      `yaml:"life_expectancy"`
	AnnualExpenses Amount   `yaml:"annual_expenses"`
	InflationRate  float64  `yaml:"inflation_rate"`
	Accounts       Accounts `yaml:"accounts"`
}

// UnmarshalYAML lets annual expenses be written as a money string.
func (p *PlanParameters) UnmarshalYAML(value *yaml.Node) error {
	var raw planParametersYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*p = PlanParameters{
		CurrentAge:     raw.CurrentAge,
		RetirementAge:  raw.RetirementAge,
		LifeExpectancy: raw.LifeExpectancy,
		AnnualExpenses: raw.AnnualExpenses.Float64(),
		InflationRate:  raw.InflationRate,
		Accounts:       raw.Accounts,
	}
	return nil
}
