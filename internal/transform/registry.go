package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (PlanTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("postpone_retirement", createPostponeRetirement)
	registry.Register("set_retirement_age", createSetRetirementAge)
	registry.Register("scale_expenses", createScaleExpenses)
	registry.Register("set_expenses", createSetExpenses)
	registry.Register("set_inflation", createSetInflation)
	registry.Register("adjust_returns", createAdjustReturns)
	registry.Register("add_account", createAddAccount)
	registry.Register("remove_account", createRemoveAccount)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (PlanTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return factory(params)
}

// List returns the names of all registered transforms in sorted order.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "adjust_returns:account=brokerage,delta=-1.5"
func (r *TransformRegistry) ParseTransformSpec(spec string) (PlanTransform, error) {
	name, paramsStr, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	paramsStr = strings.TrimSpace(paramsStr)
	if name == "" {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			k, v, ok := strings.Cut(paramPair, "=")
			if !ok {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}

	return r.Create(name, params)
}

func requireParam(transform string, params map[string]string, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return v, nil
}

func intParam(transform string, params map[string]string, key string) (int, error) {
	s, err := requireParam(transform, params, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	s, err := requireParam(transform, params, key)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// Factory functions for each transform

func createPostponeRetirement(params map[string]string) (PlanTransform, error) {
	years, err := intParam("postpone_retirement", params, "years")
	if err != nil {
		return nil, err
	}
	return &PostponeRetirement{Years: years}, nil
}

func createSetRetirementAge(params map[string]string) (PlanTransform, error) {
	age, err := intParam("set_retirement_age", params, "age")
	if err != nil {
		return nil, err
	}
	return &SetRetirementAge{Age: age}, nil
}

func createScaleExpenses(params map[string]string) (PlanTransform, error) {
	factor, err := decimalParam("scale_expenses", params, "factor")
	if err != nil {
		return nil, err
	}
	return &ScaleExpenses{Factor: factor}, nil
}

func createSetExpenses(params map[string]string) (PlanTransform, error) {
	amount, err := decimalParam("set_expenses", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetExpenses{Amount: amount}, nil
}

func createSetInflation(params map[string]string) (PlanTransform, error) {
	rate, err := decimalParam("set_inflation", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetInflation{Rate: rate}, nil
}

func createAdjustReturns(params map[string]string) (PlanTransform, error) {
	delta, err := decimalParam("adjust_returns", params, "delta")
	if err != nil {
		return nil, err
	}
	return &AdjustReturns{Account: params["account"], Delta: delta}, nil
}

func createAddAccount(params map[string]string) (PlanTransform, error) {
	t := &AddAccount{Key: params["key"]}
	if _, ok := params["balance"]; !ok {
		return t, nil
	}

	balance, err := decimalParam("add_account", params, "balance")
	if err != nil {
		return nil, err
	}
	cfg := domainAccount(balance)
	for key, dst := range map[string]*float64{
		"contribution": &cfg.AnnualContribution,
		"return":       &cfg.ExpectedReturn,
		"std_dev":      &cfg.StdDev,
	} {
		if _, ok := params[key]; !ok {
			continue
		}
		d, err := decimalParam("add_account", params, key)
		if err != nil {
			return nil, err
		}
		*dst = d.InexactFloat64()
	}
	cfg.Label = params["label"]
	t.Config = cfg
	return t, nil
}

func createRemoveAccount(params map[string]string) (PlanTransform, error) {
	key, err := requireParam("remove_account", params, "key")
	if err != nil {
		return nil, err
	}
	return &RemoveAccount{Key: key}, nil
}
