package calculation

import (
	"context"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// returnAccumulator keeps a running per-account, per-year mean of sampled
// returns over n iterations.
type returnAccumulator struct {
	n     int
	means map[string][]float64
}

func newReturnAccumulator(params *domain.PlanParameters) *returnAccumulator {
	years := params.Years()
	if years < 0 {
		years = 0
	}
	acc := &returnAccumulator{means: make(map[string][]float64, len(params.Accounts))}
	for _, acct := range params.Accounts {
		acc.means[acct.Key] = make([]float64, years)
	}
	return acc
}

// observe folds one iteration's sequences into the means. The incremental
// form is exact when every sample is identical.
func (a *returnAccumulator) observe(sequences map[string][]float64) {
	a.n++
	k := float64(a.n)
	for key, seq := range sequences {
		m := a.means[key]
		for i, x := range seq {
			m[i] += (x - m[i]) / k
		}
	}
}

// merge combines another accumulator over the same plan into a.
func (a *returnAccumulator) merge(b *returnAccumulator) {
	if b.n == 0 {
		return
	}
	total := a.n + b.n
	w := float64(b.n) / float64(total)
	for key, mb := range b.means {
		ma := a.means[key]
		for i := range ma {
			ma[i] += (mb[i] - ma[i]) * w
		}
	}
	a.n = total
}

// accumulateReturns runs iterations of the estimator, checking ctx between
// iterations.
func accumulateReturns(ctx context.Context, params *domain.PlanParameters, iterations int, sampler *ReturnSampler) (*returnAccumulator, error) {
	acc := newReturnAccumulator(params)
	years := params.Years()
	sequences := make(map[string][]float64, len(params.Accounts))
	for it := 0; it < iterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, acct := range params.Accounts {
			sequences[acct.Key] = sampler.SampleAnnualReturnSequence(years, acct.Config.ExpectedReturn, acct.Config.StdDev)
		}
		acc.observe(sequences)
	}
	return acc, nil
}

// EstimateAverageReturns approximates the expected annual return of every
// account for every simulated year by averaging iterations independent
// sample sequences. Each returned slice has params.Years() entries.
func EstimateAverageReturns(params *domain.PlanParameters, iterations int, sampler *ReturnSampler) map[string][]float64 {
	acc, _ := accumulateReturns(context.Background(), params, iterations, sampler)
	return acc.means
}
