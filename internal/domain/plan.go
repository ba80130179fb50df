package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Canonical account keys that take part in retirement withdrawals.
const (
	AccountHSA            = "hsa"
	AccountRetirement401k = "retirement401k"
	AccountBrokerage      = "brokerage"
	AccountRothIRA        = "rothIra"
	AccountRealEstate     = "realEstate"
)

// WithdrawalPriority is the fixed order in which retirement expenses are drawn.
// Accounts under any other key are never drawn from.
var WithdrawalPriority = []string{AccountHSA, AccountRetirement401k, AccountBrokerage, AccountRothIRA}

// IsWithdrawalAccount reports whether key takes part in greedy withdrawals.
func IsWithdrawalAccount(key string) bool {
	for _, k := range WithdrawalPriority {
		if k == key {
			return true
		}
	}
	return false
}

// AccountConfig describes one investment account. Returns and standard
// deviations are percentages (9.2 means 9.2%).
type AccountConfig struct {
	Balance            float64 `yaml:"balance" json:"balance"`
	AnnualContribution float64 `yaml:"annual_contribution" json:"annualContribution"`
	ExpectedReturn     float64 `yaml:"expected_return" json:"expectedReturn"`
	StdDev             float64 `yaml:"std_dev" json:"stdDev"`

	// Display only
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Account pairs a stable key with its configuration.
type Account struct {
	Key    string
	Config AccountConfig
}

// Accounts is an ordered mapping from account key to configuration. Order is
// preserved through YAML and JSON.
type Accounts []Account

// Keys returns the account keys in order.
func (a Accounts) Keys() []string {
	keys := make([]string, len(a))
	for i, acct := range a {
		keys[i] = acct.Key
	}
	return keys
}

// Index returns the position of key, or -1.
func (a Accounts) Index(key string) int {
	for i, acct := range a {
		if acct.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the configuration stored under key.
func (a Accounts) Get(key string) (AccountConfig, bool) {
	if i := a.Index(key); i >= 0 {
		return a[i].Config, true
	}
	return AccountConfig{}, false
}

// Set replaces the configuration under key or appends a new account.
func (a *Accounts) Set(key string, cfg AccountConfig) {
	if i := a.Index(key); i >= 0 {
		(*a)[i].Config = cfg
		return
	}
	*a = append(*a, Account{Key: key, Config: cfg})
}

// Remove deletes key, keeping the order of the remaining accounts.
func (a *Accounts) Remove(key string) bool {
	i := a.Index(key)
	if i < 0 {
		return false
	}
	*a = append((*a)[:i], (*a)[i+1:]...)
	return true
}

// UnmarshalYAML decodes a YAML mapping while keeping key order.
func (a *Accounts) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("accounts: expected a mapping, got %s", nodeKindName(value.Kind))
	}
	out := make(Accounts, 0, len(value.Content)/2)
	seen := make(map[string]bool, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		key := keyNode.Value
		if seen[key] {
			return fmt.Errorf("accounts: duplicate key %q (line %d)", key, keyNode.Line)
		}
		seen[key] = true

		var cfg AccountConfig
		if err := valNode.Decode(&cfg); err != nil {
			return fmt.Errorf("accounts: %s: %w", key, err)
		}
		out = append(out, Account{Key: key, Config: cfg})
	}
	*a = out
	return nil
}

// MarshalYAML encodes the accounts as an ordered YAML mapping.
func (a Accounts) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, acct := range a {
		var val yaml.Node
		if err := val.Encode(acct.Config); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: acct.Key},
			&val,
		)
	}
	return node, nil
}

// MarshalJSON encodes the accounts as an ordered JSON object.
func (a Accounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, acct := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(acct.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(acct.Config)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object in document order.
func (a *Accounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("accounts: expected a JSON object")
	}
	out := Accounts{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("accounts: expected string key, got %v", tok)
		}
		var cfg AccountConfig
		if err := dec.Decode(&cfg); err != nil {
			return fmt.Errorf("accounts: %s: %w", key, err)
		}
		if out.Index(key) >= 0 {
			return fmt.Errorf("accounts: duplicate key %q", key)
		}
		out = append(out, Account{Key: key, Config: cfg})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}

// PlanParameters is the full input of one computation. Treat it as immutable
// once handed to the engine; use Clone before editing.
type PlanParameters struct {
	CurrentAge     int      `yaml:"current_age" json:"currentAge"`
	RetirementAge  int      `yaml:"retirement_age" json:"retirementAge"`
	LifeExpectancy int      `yaml:"life_expectancy" json:"lifeExpectancy"`
	AnnualExpenses float64  `yaml:"annual_expenses" json:"annualExpenses"`
	InflationRate  float64  `yaml:"inflation_rate" json:"inflationRate"`
	Accounts       Accounts `yaml:"accounts" json:"accounts"`
}

// Years is the number of simulated years. It may be zero or negative for
// unvalidated input.
func (p *PlanParameters) Years() int {
	return p.LifeExpectancy - p.CurrentAge
}

// YearsUntilRetirement returns retirementAge - currentAge.
func (p *PlanParameters) YearsUntilRetirement() int {
	return p.RetirementAge - p.CurrentAge
}

// IsRetired reports whether age falls in retirement.
func (p *PlanParameters) IsRetired(age int) bool {
	return age >= p.RetirementAge
}

// TotalCurrentSavings sums the starting balance of every account.
func (p *PlanParameters) TotalCurrentSavings() float64 {
	var total float64
	for _, acct := range p.Accounts {
		total += acct.Config.Balance
	}
	return total
}

// Clone returns a deep copy.
func (p *PlanParameters) Clone() *PlanParameters {
	if p == nil {
		return nil
	}
	c := *p
	c.Accounts = append(Accounts(nil), p.Accounts...)
	return &c
}

// Fingerprint returns a stable hash of the parameters, suitable as a cache key.
// Display-only attributes are part of the hash.
func (p *PlanParameters) Fingerprint() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("fingerprint plan: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
