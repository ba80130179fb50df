package transform

import (
	"fmt"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// PostponeRetirement moves the retirement age later by a number of years.
// This is useful for exploring "work one more year" plans.
type PostponeRetirement struct {
	Years int
}

func (pt *PostponeRetirement) Name() string {
	return "postpone_retirement"
}

func (pt *PostponeRetirement) Description() string {
	return fmt.Sprintf("Postpone retirement by %d years", pt.Years)
}

func (pt *PostponeRetirement) Validate(base *domain.PlanParameters) error {
	if err := validateBase(pt.Name(), base); err != nil {
		return err
	}
	if pt.Years < 0 {
		return NewTransformError(pt.Name(), "validate", fmt.Sprintf("years must be non-negative, got %d", pt.Years), nil)
	}
	if base.RetirementAge+pt.Years >= base.LifeExpectancy {
		return NewTransformError(pt.Name(), "validate",
			fmt.Sprintf("retirement age %d would not be before life expectancy %d", base.RetirementAge+pt.Years, base.LifeExpectancy), nil)
	}
	return nil
}

func (pt *PostponeRetirement) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := base.Clone()
	modified.RetirementAge += pt.Years
	return modified, nil
}

// SetRetirementAge sets an absolute retirement age.
type SetRetirementAge struct {
	Age int
}

func (s *SetRetirementAge) Name() string {
	return "set_retirement_age"
}

func (s *SetRetirementAge) Description() string {
	return fmt.Sprintf("Retire at age %d", s.Age)
}

func (s *SetRetirementAge) Validate(base *domain.PlanParameters) error {
	if err := validateBase(s.Name(), base); err != nil {
		return err
	}
	if s.Age <= base.CurrentAge || s.Age >= base.LifeExpectancy {
		return NewTransformError(s.Name(), "validate",
			fmt.Sprintf("age %d must be between current age %d and life expectancy %d", s.Age, base.CurrentAge, base.LifeExpectancy), nil)
	}
	return nil
}

func (s *SetRetirementAge) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := base.Clone()
	modified.RetirementAge = s.Age
	return modified, nil
}
