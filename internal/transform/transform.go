package transform

import (
	"fmt"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// PlanTransform defines the interface for all plan transformations.
// Transforms are composable operations that derive a variant plan from a base
// plan, used for comparisons and for interactive edits.
type PlanTransform interface {
	// Apply returns a new modified plan. The base plan is never mutated.
	Apply(base *domain.PlanParameters) (*domain.PlanParameters, error)

	// Name returns a short identifier for this transform (e.g., "postpone_retirement").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks if the transform parameters are valid without applying it.
	Validate(base *domain.PlanParameters) error
}

// ApplyTransforms applies a sequence of transforms to a base plan.
// Transforms are applied in order, with each transform receiving the output of the previous one.
func ApplyTransforms(base *domain.PlanParameters, transforms []PlanTransform) (*domain.PlanParameters, error) {
	if base == nil {
		return nil, fmt.Errorf("base plan cannot be nil")
	}

	current := base.Clone()
	for i, transform := range transforms {
		if transform == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}

	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}

func validateBase(name string, base *domain.PlanParameters) error {
	if base == nil {
		return NewTransformError(name, "validate", "base plan cannot be nil", nil)
	}
	return nil
}
