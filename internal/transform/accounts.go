package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// Defaults for accounts created by AddAccount.
const (
	NewAccountExpectedReturn = 7.0
	NewAccountStdDev         = 15.0
)

var accountPalette = []string{"#38b2ac", "#ecc94b", "#ed64a6", "#667eea", "#a0aec0", "#9ae6b4"}

// NextAccountKey returns "account<N+1>" for a plan with N accounts, counting
// upward past keys that are already taken.
func NextAccountKey(accounts domain.Accounts) string {
	for n := len(accounts) + 1; ; n++ {
		key := fmt.Sprintf("account%d", n)
		if accounts.Index(key) < 0 {
			return key
		}
	}
}

// AdjustReturns shifts expected returns by Delta percentage points, for one
// account or, when Account is empty, for all of them.
type AdjustReturns struct {
	Account string
	Delta   decimal.Decimal
}

func (ar *AdjustReturns) Name() string {
	return "adjust_returns"
}

func (ar *AdjustReturns) Description() string {
	target := "all accounts"
	if ar.Account != "" {
		target = ar.Account
	}
	sign := "+"
	if ar.Delta.IsNegative() {
		sign = ""
	}
	return fmt.Sprintf("Shift expected returns of %s by %s%s points", target, sign, ar.Delta.StringFixed(1))
}

func (ar *AdjustReturns) Validate(base *domain.PlanParameters) error {
	if err := validateBase(ar.Name(), base); err != nil {
		return err
	}
	if ar.Account != "" && base.Accounts.Index(ar.Account) < 0 {
		return NewTransformError(ar.Name(), "validate", fmt.Sprintf("account %s not found in plan", ar.Account), nil)
	}
	return nil
}

func (ar *AdjustReturns) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := base.Clone()
	for i := range modified.Accounts {
		acct := &modified.Accounts[i]
		if ar.Account != "" && acct.Key != ar.Account {
			continue
		}
		acct.Config.ExpectedReturn = decimal.NewFromFloat(acct.Config.ExpectedReturn).Add(ar.Delta).InexactFloat64()
	}
	return modified, nil
}

// AddAccount appends a new account. An empty Key picks the next free
// "accountN" key; a nil Config uses a zero balance, 7% return and 15% stdDev.
type AddAccount struct {
	Key    string
	Config *domain.AccountConfig
}

func (aa *AddAccount) Name() string {
	return "add_account"
}

func (aa *AddAccount) Description() string {
	if aa.Key == "" {
		return "Add a new account"
	}
	return fmt.Sprintf("Add account %s", aa.Key)
}

func (aa *AddAccount) Validate(base *domain.PlanParameters) error {
	if err := validateBase(aa.Name(), base); err != nil {
		return err
	}
	if aa.Key != "" && base.Accounts.Index(aa.Key) >= 0 {
		return NewTransformError(aa.Name(), "validate", fmt.Sprintf("account %s already exists", aa.Key), nil)
	}
	if domain.IsReservedAccountKey(aa.Key) {
		return NewTransformError(aa.Name(), "validate", fmt.Sprintf("account key %s is reserved", aa.Key), nil)
	}
	return nil
}

func (aa *AddAccount) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := base.Clone()
	key := aa.Key
	if key == "" {
		key = NextAccountKey(modified.Accounts)
	}

	var cfg domain.AccountConfig
	if aa.Config != nil {
		cfg = *aa.Config
	} else {
		cfg = domain.AccountConfig{
			ExpectedReturn: NewAccountExpectedReturn,
			StdDev:         NewAccountStdDev,
			Label:          key,
			Color:          accountPalette[len(modified.Accounts)%len(accountPalette)],
		}
	}
	modified.Accounts.Set(key, cfg)
	return modified, nil
}

// RemoveAccount deletes an account from the plan.
type RemoveAccount struct {
	Key string
}

func (ra *RemoveAccount) Name() string {
	return "remove_account"
}

func (ra *RemoveAccount) Description() string {
	return fmt.Sprintf("Remove account %s", ra.Key)
}

func (ra *RemoveAccount) Validate(base *domain.PlanParameters) error {
	if err := validateBase(ra.Name(), base); err != nil {
		return err
	}
	if base.Accounts.Index(ra.Key) < 0 {
		return NewTransformError(ra.Name(), "validate", fmt.Sprintf("account %s not found in plan", ra.Key), nil)
	}
	if len(base.Accounts) == 1 {
		return NewTransformError(ra.Name(), "validate", "cannot remove the last account", nil)
	}
	return nil
}

func (ra *RemoveAccount) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := base.Clone()
	modified.Accounts.Remove(ra.Key)
	return modified, nil
}

func domainAccount(balance decimal.Decimal) *domain.AccountConfig {
	return &domain.AccountConfig{
		Balance:        balance.InexactFloat64(),
		ExpectedReturn: NewAccountExpectedReturn,
		StdDev:         NewAccountStdDev,
	}
}
