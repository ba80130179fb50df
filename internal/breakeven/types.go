package breakeven

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// OptimizationTarget defines what parameter to solve for
type OptimizationTarget string

const (
	// OptimizeRetirementAge finds the earliest retirement age that meets the
	// target success rate.
	OptimizeRetirementAge OptimizationTarget = "retirement_age"
	// OptimizeExpenses finds the largest annual expenses that meet the target
	// success rate.
	OptimizeExpenses OptimizationTarget = "annual_expenses"
	OptimizeAll      OptimizationTarget = "all"
)

// ParseTarget accepts a target name or one of its short forms.
func ParseTarget(s string) (OptimizationTarget, error) {
	switch s {
	case "retirement_age", "age", "retire":
		return OptimizeRetirementAge, nil
	case "annual_expenses", "expenses", "spend":
		return OptimizeExpenses, nil
	case "all":
		return OptimizeAll, nil
	}
	return "", &BreakEvenError{Operation: "parse_target", Message: "unknown target " + s + " (use retirement_age, annual_expenses or all)"}
}

// Constraints bound the search. Nil bounds fall back to the plan: retirement
// ages between current age + 1 and life expectancy - 1, expenses between $1
// and three times the plan's expenses.
type Constraints struct {
	MinRetirementAge *int             `json:"minRetirementAge,omitempty"`
	MaxRetirementAge *int             `json:"maxRetirementAge,omitempty"`
	MinExpenses      *decimal.Decimal `json:"minExpenses,omitempty"`
	MaxExpenses      *decimal.Decimal `json:"maxExpenses,omitempty"`

	// TargetSuccessRate is the percentage of funded projection years to reach.
	TargetSuccessRate decimal.Decimal `json:"targetSuccessRate"`
}

// DefaultConstraints asks for a plan that never runs dry.
func DefaultConstraints() Constraints {
	return Constraints{TargetSuccessRate: decimal.NewFromInt(100)}
}

// OptimizationRequest defines the parameters for one solver run
type OptimizationRequest struct {
	BasePlan      *domain.PlanParameters
	Target        OptimizationTarget
	Constraints   Constraints
	MaxIterations int             // Maximum plan evaluations
	Tolerance     decimal.Decimal // Expense search stops once the bracket is narrower than this
}

// Evaluation is the outcome of running one candidate plan.
type Evaluation struct {
	SuccessRate  decimal.Decimal `json:"successRate"`
	PeakBalance  decimal.Decimal `json:"peakBalance"`
	FinalBalance decimal.Decimal `json:"finalBalance"`
	DepletionAge int             `json:"depletionAge,omitempty"`
}

// OptimizationResult contains the results of a solver run
type OptimizationResult struct {
	Target            OptimizationTarget `json:"target"`
	TargetSuccessRate decimal.Decimal    `json:"targetSuccessRate"`

	// Success reports whether some value in range met the target.
	Success         bool          `json:"success"`
	Iterations      int           `json:"iterations"`
	ConvergenceInfo string        `json:"convergenceInfo"`
	Elapsed         time.Duration `json:"elapsed"`

	BaseValue    decimal.Decimal `json:"baseValue"`
	OptimalValue decimal.Decimal `json:"optimalValue"`

	Base        Evaluation             `json:"base"`
	AtOptimal   Evaluation             `json:"atOptimal"`
	OptimalPlan *domain.PlanParameters `json:"optimalPlan,omitempty"`
}

// ChangeFromBase is OptimalValue minus BaseValue.
func (r *OptimizationResult) ChangeFromBase() decimal.Decimal {
	return r.OptimalValue.Sub(r.BaseValue)
}

// MultiDimensionalResult holds one result per target.
type MultiDimensionalResult struct {
	Results         []OptimizationResult `json:"results"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Expense bracket width at which the search stops
	MaxIterations int             // Maximum plan evaluations per target
	Parallel      bool            // Solve targets concurrently in OptimizeAllTargets
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(100), // $100 tolerance
		MaxIterations: 50,
		Parallel:      true,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.TargetSuccessRate.LessThanOrEqual(decimal.Zero) || c.TargetSuccessRate.GreaterThan(decimal.NewFromInt(100)) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "target success rate must be in (0, 100], got " + c.TargetSuccessRate.String(),
		}
	}

	if c.MinRetirementAge != nil && c.MaxRetirementAge != nil && *c.MinRetirementAge > *c.MaxRetirementAge {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min retirement age cannot be greater than max retirement age",
		}
	}

	if c.MinExpenses != nil && !c.MinExpenses.IsPositive() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min expenses must be positive",
		}
	}
	if c.MinExpenses != nil && c.MaxExpenses != nil && c.MinExpenses.GreaterThan(*c.MaxExpenses) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min expenses cannot be greater than max expenses",
		}
	}

	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
