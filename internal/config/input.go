package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// Inflation outside this range (percent) is rejected.
const (
	minInflationRate = -10.0
	maxInflationRate = 50.0
)

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan file, fills simulation defaults, applies
// environment overrides and validates the result.
func (ip *InputParser) LoadFromFile(filename string) (*domain.PlanFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates plan YAML.
func (ip *InputParser) Parse(data []byte) (*domain.PlanFile, error) {
	var file domain.PlanFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	file.Simulation = file.Simulation.WithDefaults()
	settings, err := ApplyEnvOverrides(file.Simulation)
	if err != nil {
		return nil, err
	}
	file.Simulation = settings

	if err := ip.ValidateConfiguration(&file); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &file, nil
}

// ValidateConfiguration validates both the plan and the simulation settings.
func (ip *InputParser) ValidateConfiguration(file *domain.PlanFile) error {
	var errs ValidationErrors
	validatePlan(&file.Plan, &errs)
	validateSettings(file.Simulation, &errs)
	return errs.err()
}

// ValidatePlan checks the invariants the engine relies on but never checks
// itself.
func ValidatePlan(p *domain.PlanParameters) error {
	var errs ValidationErrors
	validatePlan(p, &errs)
	return errs.err()
}

func validatePlan(p *domain.PlanParameters, errs *ValidationErrors) {
	if p.CurrentAge < 0 {
		errs.add("current_age", "must not be negative, got %d", p.CurrentAge)
	}
	if p.CurrentAge >= p.RetirementAge {
		errs.add("retirement_age", "must be greater than current age (%d), got %d", p.CurrentAge, p.RetirementAge)
	}
	if p.RetirementAge >= p.LifeExpectancy {
		errs.add("life_expectancy", "must be greater than retirement age (%d), got %d", p.RetirementAge, p.LifeExpectancy)
	}
	if !(p.AnnualExpenses > 0) || math.IsInf(p.AnnualExpenses, 0) {
		errs.add("annual_expenses", "must be positive, got %v", p.AnnualExpenses)
	}
	if p.InflationRate < minInflationRate || p.InflationRate > maxInflationRate || math.IsNaN(p.InflationRate) {
		errs.add("inflation_rate", "must be between %.0f%% and %.0f%%, got %v%%", minInflationRate, maxInflationRate, p.InflationRate)
	}
	if len(p.Accounts) == 0 {
		errs.add("accounts", "at least one account is required")
	}
	seen := make(map[string]bool, len(p.Accounts))
	for _, acct := range p.Accounts {
		validateAccount(acct, errs)
		switch {
		case acct.Key == "":
		case domain.IsReservedAccountKey(acct.Key):
			errs.add("accounts."+acct.Key, "key %q is reserved: %q is already a projection field", acct.Key, domain.BalanceField(acct.Key))
		case seen[acct.Key]:
			errs.add("accounts."+acct.Key, "duplicate account key %q", acct.Key)
		default:
			seen[acct.Key] = true
		}
	}
}

func validateAccount(acct domain.Account, errs *ValidationErrors) {
	field := func(name string) string { return fmt.Sprintf("accounts.%s.%s", acct.Key, name) }
	cfg := acct.Config

	if acct.Key == "" {
		errs.add("accounts", "account key must not be empty")
	}
	if !finiteNonNegative(cfg.Balance) {
		errs.add(field("balance"), "must be a non-negative number, got %v", cfg.Balance)
	}
	if !finiteNonNegative(cfg.AnnualContribution) {
		errs.add(field("annual_contribution"), "must be a non-negative number, got %v", cfg.AnnualContribution)
	}
	if math.IsNaN(cfg.ExpectedReturn) || math.IsInf(cfg.ExpectedReturn, 0) || cfg.ExpectedReturn <= -100 {
		errs.add(field("expected_return"), "must be a finite percentage above -100, got %v", cfg.ExpectedReturn)
	}
	if !finiteNonNegative(cfg.StdDev) {
		errs.add(field("std_dev"), "must be a non-negative number, got %v", cfg.StdDev)
	}
}

func validateSettings(s domain.SimulationSettings, errs *ValidationErrors) {
	if s.Iterations < 1 {
		errs.add("simulation.iterations", "must be at least 1, got %d", s.Iterations)
	}
	if s.Bins < 1 {
		errs.add("simulation.bins", "must be at least 1, got %d", s.Bins)
	}
	if s.Workers < 1 {
		errs.add("simulation.workers", "must be at least 1, got %d", s.Workers)
	}
	if s.BaseYear < 0 {
		errs.add("simulation.base_year", "must not be negative, got %d", s.BaseYear)
	}
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
