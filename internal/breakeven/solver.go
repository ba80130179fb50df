package breakeven

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestcast/internal/domain"
	"github.com/rgehrsitz/nestcast/internal/output"
	"github.com/rgehrsitz/nestcast/internal/transform"
)

// Projector builds the averaged-return projection for a plan. The solver
// assumes every call sees the same returns, so a calculation.Engine used here
// should carry a fixed seed.
type Projector interface {
	BuildProjection(ctx context.Context, params *domain.PlanParameters) ([]domain.ProjectionYear, error)
}

// Solver searches one plan parameter for the value where the plan just meets
// a target success rate.
type Solver struct {
	Projector Projector
	Options   SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(projector Projector, options SolverOptions) *Solver {
	return &Solver{
		Projector: projector,
		Options:   options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(projector Projector) *Solver {
	return NewSolver(projector, DefaultSolverOptions())
}

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if req.BasePlan == nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "base plan cannot be nil"}
	}
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}

	if req.MaxIterations <= 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if !req.Tolerance.IsPositive() {
		req.Tolerance = s.Options.Tolerance
	}

	start := time.Now()
	var (
		result *OptimizationResult
		err    error
	)
	switch req.Target {
	case OptimizeRetirementAge:
		result, err = s.optimizeRetirementAge(ctx, req)
	case OptimizeExpenses:
		result, err = s.optimizeExpenses(ctx, req)
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
	if err != nil {
		return nil, err
	}
	result.Elapsed = time.Since(start)
	return result, nil
}

// candidate is one evaluated plan.
type candidate struct {
	plan *domain.PlanParameters
	eval Evaluation
}

func (s *Solver) evaluate(ctx context.Context, plan *domain.PlanParameters) (Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return Evaluation{}, err
	}
	projection, err := s.Projector.BuildProjection(ctx, plan)
	if err != nil {
		return Evaluation{}, err
	}
	m := output.Analyze(&domain.PlanResult{Plan: plan, Projection: projection})
	return Evaluation{
		SuccessRate:  m.SuccessRate,
		PeakBalance:  m.PeakBalance,
		FinalBalance: m.FinalBalance,
		DepletionAge: m.DepletionAge,
	}, nil
}

func (s *Solver) try(ctx context.Context, op string, base *domain.PlanParameters, t transform.PlanTransform) (candidate, error) {
	plan, err := transform.ApplyTransforms(base, []transform.PlanTransform{t})
	if err != nil {
		return candidate{}, &BreakEvenError{Operation: op, Message: "failed to apply " + t.Name(), Cause: err}
	}
	eval, err := s.evaluate(ctx, plan)
	if err != nil {
		return candidate{}, &BreakEvenError{Operation: op, Message: "failed to project " + t.Description(), Cause: err}
	}
	return candidate{plan: plan, eval: eval}, nil
}

func newResult(req OptimizationRequest, baseValue decimal.Decimal) *OptimizationResult {
	return &OptimizationResult{
		Target:            req.Target,
		TargetSuccessRate: req.Constraints.TargetSuccessRate,
		BaseValue:         baseValue,
	}
}

func (r *OptimizationResult) settle(value decimal.Decimal, c candidate) {
	r.OptimalValue = value
	r.AtOptimal = c.eval
	r.OptimalPlan = c.plan
}

// optimizeRetirementAge finds the earliest retirement age whose projection
// meets the target. Later retirement never lowers the success rate, so the
// search is a bisection over whole ages.
func (s *Solver) optimizeRetirementAge(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	const op = "optimize_retirement_age"
	base := req.BasePlan

	lo, hi := base.CurrentAge+1, base.LifeExpectancy-1
	if c := req.Constraints.MinRetirementAge; c != nil && *c > lo {
		lo = *c
	}
	if c := req.Constraints.MaxRetirementAge; c != nil && *c < hi {
		hi = *c
	}
	if lo > hi {
		return nil, &BreakEvenError{
			Operation: op,
			Message:   fmt.Sprintf("no retirement age between %d and %d fits ages %d-%d", lo, hi, base.CurrentAge, base.LifeExpectancy),
		}
	}

	result := newResult(req, decimal.NewFromInt(int64(base.RetirementAge)))
	baseEval, err := s.evaluate(ctx, base)
	if err != nil {
		return nil, &BreakEvenError{Operation: op, Message: "failed to project base plan", Cause: err}
	}
	result.Base = baseEval

	target := req.Constraints.TargetSuccessRate
	at := func(age int) (candidate, error) {
		result.Iterations++
		return s.try(ctx, op, base, &transform.SetRetirementAge{Age: age})
	}

	best, err := at(hi)
	if err != nil {
		return nil, err
	}
	bestAge := hi
	result.settle(decimal.NewFromInt(int64(hi)), best)
	if best.eval.SuccessRate.LessThan(target) {
		result.ConvergenceInfo = fmt.Sprintf("Target not reached even retiring at %d", hi)
		return result, nil
	}
	result.Success = true

	for lo < bestAge {
		if result.Iterations >= req.MaxIterations {
			result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
			return result, nil
		}
		mid := lo + (bestAge-lo)/2
		c, err := at(mid)
		if err != nil {
			return nil, err
		}
		if c.eval.SuccessRate.GreaterThanOrEqual(target) {
			bestAge = mid
			result.settle(decimal.NewFromInt(int64(mid)), c)
		} else {
			lo = mid + 1
		}
	}

	result.ConvergenceInfo = fmt.Sprintf("Earliest qualifying age found in %d evaluations", result.Iterations)
	return result, nil
}

// optimizeExpenses finds the largest whole-dollar annual expenses whose
// projection meets the target. Spending more never raises the success rate.
func (s *Solver) optimizeExpenses(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	const op = "optimize_expenses"
	base := req.BasePlan

	baseExpenses := output.Money(base.AnnualExpenses)
	lo := decimal.NewFromInt(1)
	hi := baseExpenses.Mul(decimal.NewFromInt(3)).Ceil()
	if c := req.Constraints.MinExpenses; c != nil {
		lo = *c
	}
	if c := req.Constraints.MaxExpenses; c != nil {
		hi = *c
	}
	if lo.GreaterThan(hi) {
		return nil, &BreakEvenError{
			Operation: op,
			Message:   fmt.Sprintf("expense range %s-%s is empty", output.FormatCurrency(lo), output.FormatCurrency(hi)),
		}
	}

	result := newResult(req, baseExpenses)
	baseEval, err := s.evaluate(ctx, base)
	if err != nil {
		return nil, &BreakEvenError{Operation: op, Message: "failed to project base plan", Cause: err}
	}
	result.Base = baseEval

	target := req.Constraints.TargetSuccessRate
	at := func(amount decimal.Decimal) (candidate, error) {
		result.Iterations++
		return s.try(ctx, op, base, &transform.SetExpenses{Amount: amount})
	}

	best, err := at(lo)
	if err != nil {
		return nil, err
	}
	result.settle(lo, best)
	if best.eval.SuccessRate.LessThan(target) {
		result.ConvergenceInfo = fmt.Sprintf("Target not reached even spending %s", output.FormatCurrency(lo))
		return result, nil
	}
	result.Success = true

	top, err := at(hi)
	if err != nil {
		return nil, err
	}
	if top.eval.SuccessRate.GreaterThanOrEqual(target) {
		result.settle(hi, top)
		result.ConvergenceInfo = fmt.Sprintf("Upper bound %s still meets the target", output.FormatCurrency(hi))
		return result, nil
	}

	bestAmount := lo
	two := decimal.NewFromInt(2)
	for hi.Sub(bestAmount).GreaterThan(req.Tolerance) {
		if result.Iterations >= req.MaxIterations {
			result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
			return result, nil
		}
		mid := bestAmount.Add(hi).Div(two).Floor()
		if mid.LessThanOrEqual(bestAmount) {
			break
		}
		c, err := at(mid)
		if err != nil {
			return nil, err
		}
		if c.eval.SuccessRate.GreaterThanOrEqual(target) {
			bestAmount = mid
			result.settle(mid, c)
		} else {
			hi = mid
		}
	}

	result.ConvergenceInfo = fmt.Sprintf("Converged within %s in %d evaluations", output.FormatCurrency(req.Tolerance), result.Iterations)
	return result, nil
}
