package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// ScaleExpenses multiplies annual retirement expenses by a factor
// (0.9 spends 10% less).
type ScaleExpenses struct {
	Factor decimal.Decimal
}

func (se *ScaleExpenses) Name() string {
	return "scale_expenses"
}

func (se *ScaleExpenses) Description() string {
	pct := se.Factor.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	if pct.IsNegative() {
		return fmt.Sprintf("Spend %s%% less in retirement", pct.Neg().StringFixed(0))
	}
	return fmt.Sprintf("Spend %s%% more in retirement", pct.StringFixed(0))
}

func (se *ScaleExpenses) Validate(base *domain.PlanParameters) error {
	if err := validateBase(se.Name(), base); err != nil {
		return err
	}
	if !se.Factor.IsPositive() {
		return NewTransformError(se.Name(), "validate", fmt.Sprintf("factor must be positive, got %s", se.Factor), nil)
	}
	return nil
}

func (se *ScaleExpenses) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := base.Clone()
	modified.AnnualExpenses = decimal.NewFromFloat(base.AnnualExpenses).Mul(se.Factor).InexactFloat64()
	return modified, nil
}

// SetExpenses replaces annual retirement expenses (today's dollars).
type SetExpenses struct {
	Amount decimal.Decimal
}

func (se *SetExpenses) Name() string {
	return "set_expenses"
}

func (se *SetExpenses) Description() string {
	return fmt.Sprintf("Spend $%s a year in retirement", se.Amount.StringFixed(0))
}

func (se *SetExpenses) Validate(base *domain.PlanParameters) error {
	if err := validateBase(se.Name(), base); err != nil {
		return err
	}
	if !se.Amount.IsPositive() {
		return NewTransformError(se.Name(), "validate", fmt.Sprintf("amount must be positive, got %s", se.Amount), nil)
	}
	return nil
}

func (se *SetExpenses) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := base.Clone()
	modified.AnnualExpenses = se.Amount.InexactFloat64()
	return modified, nil
}

// SetInflation replaces the inflation rate (percent).
type SetInflation struct {
	Rate decimal.Decimal
}

func (si *SetInflation) Name() string {
	return "set_inflation"
}

func (si *SetInflation) Description() string {
	return fmt.Sprintf("Assume %s%% inflation", si.Rate.StringFixed(1))
}

func (si *SetInflation) Validate(base *domain.PlanParameters) error {
	if err := validateBase(si.Name(), base); err != nil {
		return err
	}
	if si.Rate.LessThan(decimal.NewFromInt(-10)) || si.Rate.GreaterThan(decimal.NewFromInt(50)) {
		return NewTransformError(si.Name(), "validate", fmt.Sprintf("rate must be between -10 and 50, got %s", si.Rate), nil)
	}
	return nil
}

func (si *SetInflation) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := base.Clone()
	modified.InflationRate = si.Rate.InexactFloat64()
	return modified, nil
}
