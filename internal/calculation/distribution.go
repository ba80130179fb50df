package calculation

import (
	"context"
	"math"
	"sort"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// simulateTrial runs one accumulation-only path: growth and contribution every
// year, no withdrawals, even after retirement. Callers guarantee years > 0.
func simulateTrial(params *domain.PlanParameters, sampler *ReturnSampler, years int) domain.TrialResult {
	balances := make([]float64, len(params.Accounts))
	paths := make([][]float64, len(params.Accounts))
	for j, acct := range params.Accounts {
		balances[j] = acct.Config.Balance
		paths[j] = sampler.SampleAnnualReturnSequence(years, acct.Config.ExpectedReturn, acct.Config.StdDev)
	}

	result := domain.TrialResult{
		PeakTotalBalance: math.Inf(-1),
		MinTotalBalance:  math.Inf(1),
	}
	for i := 0; i < years; i++ {
		contributing := !params.IsRetired(params.CurrentAge + i)
		var total float64
		for j, acct := range params.Accounts {
			balances[j] *= 1 + paths[j][i]
			if contributing {
				balances[j] += contributionFor(acct.Config, params.InflationRate, i)
			}
			total += balances[j]
		}
		result.PeakTotalBalance = math.Max(result.PeakTotalBalance, total)
		result.MinTotalBalance = math.Min(result.MinTotalBalance, total)
	}
	return result
}

// runTrials simulates iterations trials and returns their peaks and minimums
// in trial order.
func runTrials(ctx context.Context, params *domain.PlanParameters, iterations int, sampler *ReturnSampler) (peaks, mins []float64, err error) {
	years := params.Years()
	if years <= 0 || iterations <= 0 {
		return nil, nil, nil
	}
	peaks = make([]float64, 0, iterations)
	mins = make([]float64, 0, iterations)
	for it := 0; it < iterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		trial := simulateTrial(params, sampler, years)
		peaks = append(peaks, trial.PeakTotalBalance)
		mins = append(mins, trial.MinTotalBalance)
	}
	return peaks, mins, nil
}

// summarizeTrials turns the collected trial values into histograms and medians.
func summarizeTrials(peaks, mins []float64, bins int) domain.DistributionSummary {
	return domain.DistributionSummary{
		PeakDistribution: BuildHistogram(peaks, bins),
		MinDistribution:  BuildHistogram(mins, bins),
		MedianPeak:       MedianAtIndex(peaks),
		MedianMin:        MedianAtIndex(mins),
		Trials:           len(peaks),
	}
}

// SimulateDistribution runs iterations independent trials and summarizes the
// peak and minimum total balance of each. Years <= 0 or iterations <= 0 give
// empty histograms and zero medians.
func SimulateDistribution(params *domain.PlanParameters, iterations, bins int, sampler *ReturnSampler) domain.DistributionSummary {
	peaks, mins, _ := runTrials(context.Background(), params, iterations, sampler)
	return summarizeTrials(peaks, mins, bins)
}

// BuildHistogram buckets values into bins equal-width buckets spanning
// [min, max]. Each bin reports its center and the share of values it holds as
// a percentage. When every value is equal a single bin holds 100%.
func BuildHistogram(values []float64, bins int) []domain.HistogramBin {
	if len(values) == 0 || bins <= 0 {
		return []domain.HistogramBin{}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []domain.HistogramBin{{BinCenterValue: lo, PercentageOfTrials: 100}}
	}

	width := (hi - lo) / float64(bins)
	counts := make([]int, bins)
	for _, v := range values {
		idx := int(math.Floor((v - lo) / width))
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}

	n := float64(len(values))
	hist := make([]domain.HistogramBin, bins)
	for i, c := range counts {
		hist[i] = domain.HistogramBin{
			BinCenterValue:     lo + (float64(i)+0.5)*width,
			PercentageOfTrials: float64(c) / n * 100,
		}
	}
	return hist
}

// MedianAtIndex sorts a copy of values and returns the element at index
// len/2. For even counts this is the upper middle value, not an average.
func MedianAtIndex(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}
