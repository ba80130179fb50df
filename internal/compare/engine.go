package compare

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/nestcast/internal/domain"
	"github.com/rgehrsitz/nestcast/internal/transform"
)

// PlanRunner computes a plan result. Both calculation.Engine and
// calculation.CachedEngine satisfy it.
type PlanRunner interface {
	Run(ctx context.Context, params *domain.PlanParameters) (*domain.PlanResult, error)
}

// Engine orchestrates plan comparison
type Engine struct {
	Runner            PlanRunner
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewEngine creates a comparison engine backed by runner with the built-in
// templates and transforms registered.
func NewEngine(runner PlanRunner) *Engine {
	return &Engine{
		Runner:            runner,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// Options configures comparison behavior
type Options struct {
	BaseName   string   // Display name of the base plan
	Templates  []string // Template names, each run as its own variant
	Transforms []string // Transform specs ("name:k=v,..."), run together as one variant
}

// Variant is a named set of transforms applied to the base plan.
type Variant struct {
	Name        string
	Description string
	Transforms  []transform.PlanTransform
}

// Compare runs the base plan and one variant per template, plus one variant
// for the ad-hoc transforms when any are given.
func (e *Engine) Compare(ctx context.Context, plan *domain.PlanParameters, options Options) (*ComparisonSet, error) {
	variants := make([]Variant, 0, len(options.Templates)+1)
	for _, name := range options.Templates {
		tmpl, ok := e.TemplateRegistry.Get(name)
		if !ok {
			return nil, fmt.Errorf("template %s not found", name)
		}
		variants = append(variants, Variant{Name: tmpl.Name, Description: tmpl.Description, Transforms: tmpl.Transforms})
	}

	if len(options.Transforms) > 0 {
		custom := Variant{Name: "custom"}
		descriptions := make([]string, 0, len(options.Transforms))
		for _, spec := range options.Transforms {
			t, err := e.TransformRegistry.ParseTransformSpec(spec)
			if err != nil {
				return nil, fmt.Errorf("failed to parse transform %q: %w", spec, err)
			}
			custom.Transforms = append(custom.Transforms, t)
			descriptions = append(descriptions, t.Description())
		}
		custom.Description = strings.Join(descriptions, "; ")
		variants = append(variants, custom)
	}

	return e.CompareVariants(ctx, plan, options.BaseName, variants)
}

// CompareVariants runs the base plan and every variant, in order, and
// computes each variant's deltas from the base.
func (e *Engine) CompareVariants(ctx context.Context, plan *domain.PlanParameters, baseName string, variants []Variant) (*ComparisonSet, error) {
	if plan == nil {
		return nil, fmt.Errorf("base plan cannot be nil")
	}
	if baseName == "" {
		baseName = "base"
	}

	baseRun, err := e.Runner.Run(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base plan: %w", err)
	}
	baseResult := e.MetricsCalculator.CalculateMetrics(baseName, baseRun)
	baseResult.Description = "Plan as configured"

	alternatives := make([]ComparisonResult, 0, len(variants))
	for _, v := range variants {
		modified, err := transform.ApplyTransforms(plan, v.Transforms)
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", v.Name, err)
		}

		run, err := e.Runner.Run(ctx, modified)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate variant %s: %w", v.Name, err)
		}

		alt := e.MetricsCalculator.CalculateMetrics(v.Name, run)
		alt.Description = v.Description
		alternatives = append(alternatives, e.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	compSet := &ComparisonSet{
		BaseName:           baseName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}
