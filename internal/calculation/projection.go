package calculation

import (
	"math"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// inflationFactor returns (1 + inflation%)^year.
func inflationFactor(inflationPercent float64, year int) float64 {
	return math.Pow(1+inflationPercent/100, float64(year))
}

// contributionFor returns the inflation-scaled contribution for year index i.
func contributionFor(cfg domain.AccountConfig, inflationPercent float64, i int) float64 {
	return cfg.AnnualContribution * inflationFactor(inflationPercent, i)
}

func returnAt(seq []float64, i int) float64 {
	if i < len(seq) {
		return seq[i]
	}
	return 0
}

// WithdrawGreedy draws need from the withdrawal-priority accounts present in
// balances, in order, and returns the unmet remainder. No account is taken
// below zero, and accounts under other keys are left alone.
func WithdrawGreedy(balances map[string]float64, need float64) float64 {
	for _, key := range domain.WithdrawalPriority {
		if need <= 0 {
			break
		}
		bal, ok := balances[key]
		if !ok {
			continue
		}
		take := math.Min(need, math.Max(bal, 0))
		balances[key] = bal - take
		need -= take
	}
	return need
}

// BuildProjection walks the plan forward one year at a time using the averaged
// returns from EstimateAverageReturns. Each record's TotalBalance is taken
// before that year's withdrawal. Years <= 0 yield an empty projection.
func BuildProjection(params *domain.PlanParameters, averageReturns map[string][]float64, baseYear int) []domain.ProjectionYear {
	years := params.Years()
	if years <= 0 {
		return []domain.ProjectionYear{}
	}

	balances := make(map[string]float64, len(params.Accounts))
	for _, acct := range params.Accounts {
		balances[acct.Key] = acct.Config.Balance
	}

	projection := make([]domain.ProjectionYear, 0, years)
	for i := 0; i < years; i++ {
		age := params.CurrentAge + i
		retired := params.IsRetired(age)

		var total float64
		for _, acct := range params.Accounts {
			bal := balances[acct.Key] * (1 + returnAt(averageReturns[acct.Key], i))
			if !retired {
				bal += contributionFor(acct.Config, params.InflationRate, i)
			}
			balances[acct.Key] = bal
			total += bal
		}

		var withdrawal float64
		if retired {
			withdrawal = params.AnnualExpenses * inflationFactor(params.InflationRate, i)
			WithdrawGreedy(balances, withdrawal)
		}

		record := domain.ProjectionYear{
			Age:          age,
			CalendarYear: baseYear + i,
			Balances:     make([]domain.AccountBalance, len(params.Accounts)),
			TotalBalance: total,
			Withdrawal:   withdrawal,
		}
		for j, acct := range params.Accounts {
			record.Balances[j] = domain.AccountBalance{Key: acct.Key, Balance: balances[acct.Key]}
		}
		projection = append(projection, record)
	}
	return projection
}
