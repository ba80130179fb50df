package config

import "github.com/rgehrsitz/nestcast/internal/domain"

// DefaultPlan returns the starter plan written by "nestcast init" and loaded
// by the dashboard when no file is given.
func DefaultPlan() *domain.PlanParameters {
	return &domain.PlanParameters{
		CurrentAge:     30,
		RetirementAge:  48,
		LifeExpectancy: 90,
		AnnualExpenses: 70000,
		InflationRate:  2,
		Accounts: domain.Accounts{
			{Key: domain.AccountHSA, Config: domain.AccountConfig{
				Balance: 1000, AnnualContribution: 7300, ExpectedReturn: 9.2, StdDev: 17,
				Label: "HSA", Color: "#48bb78",
			}},
			{Key: domain.AccountRetirement401k, Config: domain.AccountConfig{
				Balance: 100000, AnnualContribution: 33000, ExpectedReturn: 9.2, StdDev: 17,
				Label: "401(k)", Color: "#4299e1",
			}},
			{Key: domain.AccountRothIRA, Config: domain.AccountConfig{
				Balance: 100000, AnnualContribution: 6500, ExpectedReturn: 9.2, StdDev: 17,
				Label: "Roth IRA", Color: "#9f7aea",
			}},
			{Key: domain.AccountBrokerage, Config: domain.AccountConfig{
				Balance: 100000, AnnualContribution: 1000, ExpectedReturn: 9.2, StdDev: 17,
				Label: "Brokerage", Color: "#ed8936",
			}},
			{Key: domain.AccountRealEstate, Config: domain.AccountConfig{
				Balance: 100000, AnnualContribution: 4000, ExpectedReturn: 4, StdDev: 8,
				Label: "Real Estate", Color: "#f56565",
			}},
		},
	}
}

// DefaultPlanFile wraps DefaultPlan with default simulation settings.
func DefaultPlanFile() *domain.PlanFile {
	return &domain.PlanFile{
		Plan:       *DefaultPlan(),
		Simulation: domain.DefaultSimulationSettings(),
	}
}
