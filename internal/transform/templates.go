package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// TemplateRegistry manages named plan variants
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []PlanTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// List returns all registered template names in sorted order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common what-if variants
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "retire_1yr_later",
		Description: "Retire 1 year later",
		Transforms:  []PlanTransform{&PostponeRetirement{Years: 1}},
	})
	registry.Register(Template{
		Name:        "retire_3yr_later",
		Description: "Retire 3 years later",
		Transforms:  []PlanTransform{&PostponeRetirement{Years: 3}},
	})
	registry.Register(Template{
		Name:        "spend_10pct_less",
		Description: "Cut retirement expenses by 10%",
		Transforms:  []PlanTransform{&ScaleExpenses{Factor: decimal.NewFromFloat(0.9)}},
	})
	registry.Register(Template{
		Name:        "spend_10pct_more",
		Description: "Raise retirement expenses by 10%",
		Transforms:  []PlanTransform{&ScaleExpenses{Factor: decimal.NewFromFloat(1.1)}},
	})
	registry.Register(Template{
		Name:        "conservative_returns",
		Description: "Expected returns 2 points lower on every account",
		Transforms:  []PlanTransform{&AdjustReturns{Delta: decimal.NewFromInt(-2)}},
	})
	registry.Register(Template{
		Name:        "aggressive_returns",
		Description: "Expected returns 1 point higher on every account",
		Transforms:  []PlanTransform{&AdjustReturns{Delta: decimal.NewFromInt(1)}},
	})
	registry.Register(Template{
		Name:        "high_inflation",
		Description: "Assume 4% inflation",
		Transforms:  []PlanTransform{&SetInflation{Rate: decimal.NewFromInt(4)}},
	})
	registry.Register(Template{
		Name:        "retire_later_spend_less",
		Description: "Retire 1 year later and cut expenses by 10%",
		Transforms: []PlanTransform{
			&PostponeRetirement{Years: 1},
			&ScaleExpenses{Factor: decimal.NewFromFloat(0.9)},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base plan
func ApplyTemplate(base *domain.PlanParameters, template Template) (*domain.PlanParameters, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	categories := map[string][]Template{}
	order := []string{"Retirement Timing", "Spending", "Market Assumptions", "Combination Strategies"}
	for _, name := range registry.List() {
		t := registry.templates[name]
		switch {
		case len(t.Transforms) > 1:
			categories["Combination Strategies"] = append(categories["Combination Strategies"], t)
		case strings.HasPrefix(name, "retire_"):
			categories["Retirement Timing"] = append(categories["Retirement Timing"], t)
		case strings.HasPrefix(name, "spend_"):
			categories["Spending"] = append(categories["Spending"], t)
		default:
			categories["Market Assumptions"] = append(categories["Market Assumptions"], t)
		}
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")
	for _, category := range order {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-26s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  nestcast compare plan.yaml --with retire_1yr_later,spend_10pct_less\n")
	sb.WriteString("  nestcast compare plan.yaml --with conservative_returns --transform adjust_returns:account=brokerage,delta=-1\n")

	return sb.String()
}
