package output

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// RiskLevel buckets a plan by its success rate.
type RiskLevel struct {
	Label       string
	Description string
}

// PlanMetrics are the headline figures shown above a projection. SuccessRate
// is the percentage of projection years in which the withdrawal accounts still
// hold money; DepletionAge is 0 when they never run dry.
type PlanMetrics struct {
	TotalCurrentSavings  decimal.Decimal
	YearsUntilRetirement int
	PeakBalance          decimal.Decimal
	SuccessRate          decimal.Decimal
	DepletionAge         int
	FinalBalance         decimal.Decimal
	MedianPeak           decimal.Decimal
	MedianMin            decimal.Decimal
	Risk                 RiskLevel
}

// Analyze derives PlanMetrics from a plan result.
func Analyze(result *domain.PlanResult) PlanMetrics {
	m := PlanMetrics{
		TotalCurrentSavings:  Money(result.Plan.TotalCurrentSavings()),
		YearsUntilRetirement: result.Plan.YearsUntilRetirement(),
		SuccessRate:          SuccessRate(result.Projection),
		MedianPeak:           Money(result.Distribution.MedianPeak),
		MedianMin:            Money(result.Distribution.MedianMin),
	}

	if len(result.Projection) > 0 {
		peak := result.Projection[0].TotalBalance
		for _, y := range result.Projection[1:] {
			if y.TotalBalance > peak {
				peak = y.TotalBalance
			}
		}
		m.PeakBalance = Money(peak)
		m.FinalBalance = Money(result.Projection[len(result.Projection)-1].TotalBalance)
	}

	for _, y := range result.Projection {
		if y.Withdrawal > 0 && withdrawableBalance(y) <= 0 {
			m.DepletionAge = y.Age
			break
		}
	}

	m.Risk = CalculateRiskLevel(m.SuccessRate)
	return m
}

// withdrawableBalance sums the ending balances of the withdrawal-priority
// accounts recorded in y.
func withdrawableBalance(y domain.ProjectionYear) float64 {
	var total float64
	for _, b := range y.Balances {
		if domain.IsWithdrawalAccount(b.Key) {
			total += b.Balance
		}
	}
	return total
}

// SuccessRate returns the percentage of years whose withdrawal-account
// balances are still positive. An empty projection scores zero.
func SuccessRate(projection []domain.ProjectionYear) decimal.Decimal {
	if len(projection) == 0 {
		return decimal.Zero
	}
	funded := 0
	for _, y := range projection {
		if withdrawableBalance(y) > 0 {
			funded++
		}
	}
	return decimal.NewFromInt(int64(funded)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(len(projection))))
}

// CalculateRiskLevel maps a success rate percentage to a risk bucket.
func CalculateRiskLevel(successRate decimal.Decimal) RiskLevel {
	switch {
	case successRate.GreaterThanOrEqual(decimal.NewFromInt(95)):
		return RiskLevel{"LOW RISK", "95%+ of projected years stay funded"}
	case successRate.GreaterThanOrEqual(decimal.NewFromInt(85)):
		return RiskLevel{"MODERATE RISK", "85-95% funded years; plan needs monitoring"}
	case successRate.GreaterThanOrEqual(decimal.NewFromInt(75)):
		return RiskLevel{"HIGH RISK", "75-85% funded years; plan may need adjustment"}
	default:
		return RiskLevel{"VERY HIGH RISK", "under 75% funded years; plan needs significant changes"}
	}
}
