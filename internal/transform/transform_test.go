package transform

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

func createTestPlan() *domain.PlanParameters {
	return &domain.PlanParameters{
		CurrentAge:     40,
		RetirementAge:  60,
		LifeExpectancy: 90,
		AnnualExpenses: 60000,
		InflationRate:  2,
		Accounts: domain.Accounts{
			{Key: domain.AccountHSA, Config: domain.AccountConfig{Balance: 10000, AnnualContribution: 4000, ExpectedReturn: 7, StdDev: 12}},
			{Key: domain.AccountBrokerage, Config: domain.AccountConfig{Balance: 50000, AnnualContribution: 6000, ExpectedReturn: 8, StdDev: 16}},
		},
	}
}

func TestApplyTransforms_NilPlan(t *testing.T) {
	_, err := ApplyTransforms(nil, []PlanTransform{&PostponeRetirement{Years: 1}})
	assert.Error(t, err)
}

func TestApplyTransforms_EmptyReturnsCopy(t *testing.T) {
	base := createTestPlan()
	result, err := ApplyTransforms(base, nil)
	require.NoError(t, err)
	assert.Equal(t, base, result)
	assert.NotSame(t, base, result)
}

func TestApplyTransforms_Chain(t *testing.T) {
	base := createTestPlan()
	result, err := ApplyTransforms(base, []PlanTransform{
		&PostponeRetirement{Years: 2},
		&ScaleExpenses{Factor: decimal.NewFromFloat(0.9)},
		&AdjustReturns{Account: domain.AccountBrokerage, Delta: decimal.NewFromFloat(-1.5)},
	})
	require.NoError(t, err)

	assert.Equal(t, 62, result.RetirementAge)
	assert.Equal(t, 54000.0, result.AnnualExpenses)
	hsa, _ := result.Accounts.Get(domain.AccountHSA)
	brokerage, _ := result.Accounts.Get(domain.AccountBrokerage)
	assert.Equal(t, 7.0, hsa.ExpectedReturn)
	assert.Equal(t, 6.5, brokerage.ExpectedReturn)

	assert.Equal(t, 60, base.RetirementAge, "base must not change")
	orig, _ := base.Accounts.Get(domain.AccountBrokerage)
	assert.Equal(t, 8.0, orig.ExpectedReturn)
}

func TestApplyTransforms_ValidationError(t *testing.T) {
	_, err := ApplyTransforms(createTestPlan(), []PlanTransform{&PostponeRetirement{Years: 30}})
	require.Error(t, err)

	var te *TransformError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "postpone_retirement", te.TransformName)
	assert.Equal(t, "validate", te.Operation)
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestPlan(), []PlanTransform{nil})
	assert.ErrorContains(t, err, "index 0 is nil")
}

func TestSetRetirementAge(t *testing.T) {
	result, err := ApplyTransforms(createTestPlan(), []PlanTransform{&SetRetirementAge{Age: 55}})
	require.NoError(t, err)
	assert.Equal(t, 55, result.RetirementAge)

	_, err = ApplyTransforms(createTestPlan(), []PlanTransform{&SetRetirementAge{Age: 40}})
	assert.Error(t, err)
}

func TestScaleExpenses_Validate(t *testing.T) {
	assert.Error(t, (&ScaleExpenses{Factor: decimal.Zero}).Validate(createTestPlan()))
	assert.Equal(t, "Spend 10% less in retirement", (&ScaleExpenses{Factor: decimal.NewFromFloat(0.9)}).Description())
	assert.Equal(t, "Spend 25% more in retirement", (&ScaleExpenses{Factor: decimal.NewFromFloat(1.25)}).Description())
}

func TestSetExpenses(t *testing.T) {
	result, err := ApplyTransforms(createTestPlan(), []PlanTransform{&SetExpenses{Amount: decimal.NewFromInt(42500)}})
	require.NoError(t, err)
	assert.Equal(t, 42500.0, result.AnnualExpenses)
	assert.Equal(t, "Spend $42500 a year in retirement", (&SetExpenses{Amount: decimal.NewFromInt(42500)}).Description())

	assert.Error(t, (&SetExpenses{Amount: decimal.NewFromInt(-1)}).Validate(createTestPlan()))
}

func TestSetInflation(t *testing.T) {
	result, err := ApplyTransforms(createTestPlan(), []PlanTransform{&SetInflation{Rate: decimal.NewFromFloat(3.5)}})
	require.NoError(t, err)
	assert.Equal(t, 3.5, result.InflationRate)

	assert.Error(t, (&SetInflation{Rate: decimal.NewFromInt(80)}).Validate(createTestPlan()))
}

func TestAdjustReturns_AllAccounts(t *testing.T) {
	result, err := ApplyTransforms(createTestPlan(), []PlanTransform{&AdjustReturns{Delta: decimal.NewFromInt(-2)}})
	require.NoError(t, err)
	for _, acct := range result.Accounts {
		orig, _ := createTestPlan().Accounts.Get(acct.Key)
		assert.Equal(t, orig.ExpectedReturn-2, acct.Config.ExpectedReturn)
	}

	err = (&AdjustReturns{Account: "missing", Delta: decimal.NewFromInt(1)}).Validate(createTestPlan())
	assert.Error(t, err)
}

func TestAddAccount_DefaultKeyAndValues(t *testing.T) {
	result, err := ApplyTransforms(createTestPlan(), []PlanTransform{&AddAccount{}})
	require.NoError(t, err)

	require.Len(t, result.Accounts, 3)
	added := result.Accounts[2]
	assert.Equal(t, "account3", added.Key)
	assert.Equal(t, 0.0, added.Config.Balance)
	assert.Equal(t, 0.0, added.Config.AnnualContribution)
	assert.Equal(t, 7.0, added.Config.ExpectedReturn)
	assert.Equal(t, 15.0, added.Config.StdDev)
	assert.NotEmpty(t, added.Config.Color)
}

func TestNextAccountKey_SkipsTakenKeys(t *testing.T) {
	accounts := domain.Accounts{{Key: "hsa"}, {Key: "account3"}}
	assert.Equal(t, "account4", NextAccountKey(accounts))
}

func TestAddAccount_DuplicateKey(t *testing.T) {
	err := (&AddAccount{Key: domain.AccountHSA}).Validate(createTestPlan())
	assert.Error(t, err)
}

func TestAddAccount_ReservedKey(t *testing.T) {
	err := (&AddAccount{Key: "total"}).Validate(createTestPlan())
	assert.ErrorContains(t, err, "reserved")
}

func TestRemoveAccount(t *testing.T) {
	result, err := ApplyTransforms(createTestPlan(), []PlanTransform{&RemoveAccount{Key: domain.AccountHSA}})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.AccountBrokerage}, result.Accounts.Keys())

	_, err = ApplyTransforms(result, []PlanTransform{&RemoveAccount{Key: domain.AccountBrokerage}})
	assert.ErrorContains(t, err, "last account")

	_, err = ApplyTransforms(createTestPlan(), []PlanTransform{&RemoveAccount{Key: "nope"}})
	assert.Error(t, err)
}

func TestTransformError(t *testing.T) {
	inner := errors.New("boom")
	err := NewTransformError("x", "apply", "failed", inner)
	assert.Equal(t, "transform x (apply): failed: boom", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "transform x (validate): bad", NewTransformError("x", "validate", "bad", nil).Error())
}
