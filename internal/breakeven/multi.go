package breakeven

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rgehrsitz/nestcast/internal/domain"
	"github.com/rgehrsitz/nestcast/internal/output"
)

// OptimizeAllTargets solves every target against the same constraints and
// returns the results in target order with recommendations.
func (s *Solver) OptimizeAllTargets(ctx context.Context, base *domain.PlanParameters, constraints Constraints) (*MultiDimensionalResult, error) {
	if err := constraints.Validate(); err != nil {
		return nil, err
	}

	targets := []OptimizationTarget{OptimizeRetirementAge, OptimizeExpenses}
	results := make([]OptimizationResult, len(targets))

	solve := func(ctx context.Context, i int) error {
		res, err := s.Optimize(ctx, OptimizationRequest{
			BasePlan:      base,
			Target:        targets[i],
			Constraints:   constraints,
			MaxIterations: s.Options.MaxIterations,
			Tolerance:     s.Options.Tolerance,
		})
		if err != nil {
			return err
		}
		results[i] = *res
		return nil
	}

	if s.Options.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i := range targets {
			g.Go(func() error { return solve(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range targets {
			if err := solve(ctx, i); err != nil {
				return nil, err
			}
		}
	}

	md := &MultiDimensionalResult{Results: results}
	md.Recommendations = generateRecommendations(md)
	return md, nil
}

func generateRecommendations(md *MultiDimensionalResult) []string {
	var recommendations []string
	if len(md.Results) == 0 {
		return recommendations
	}

	target := md.Results[0].TargetSuccessRate
	if md.Results[0].Base.SuccessRate.GreaterThanOrEqual(target) {
		recommendations = append(recommendations,
			fmt.Sprintf("The plan as configured already keeps %s of years funded", output.FormatPercentage(md.Results[0].Base.SuccessRate)))
	}

	for i := range md.Results {
		r := &md.Results[i]
		if !r.Success {
			recommendations = append(recommendations, fmt.Sprintf("%s alone cannot reach the target: %s", r.Target, r.ConvergenceInfo))
			continue
		}
		change := r.ChangeFromBase()
		switch r.Target {
		case OptimizeRetirementAge:
			years := change.IntPart()
			switch {
			case years > 0:
				recommendations = append(recommendations, fmt.Sprintf("Retire at %s, %d years later than planned", r.OptimalValue, years))
			case years < 0:
				recommendations = append(recommendations, fmt.Sprintf("Retirement could move up to %s, %d years earlier than planned", r.OptimalValue, -years))
			default:
				recommendations = append(recommendations, fmt.Sprintf("Retiring at %s is exactly the break-even age", r.OptimalValue))
			}
		case OptimizeExpenses:
			if change.IsNegative() {
				recommendations = append(recommendations, fmt.Sprintf("Cut annual expenses to %s (%s less)",
					output.FormatCurrency(r.OptimalValue), output.FormatCurrency(change.Neg())))
			} else {
				recommendations = append(recommendations, fmt.Sprintf("Expenses could rise to %s (%s more)",
					output.FormatCurrency(r.OptimalValue), output.FormatCurrency(change)))
			}
		}
	}
	return recommendations
}
