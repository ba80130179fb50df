package domain

// Simulation defaults.
const (
	DefaultIterations = 10000
	DefaultBins       = 50
	DefaultWorkers    = 1
)

// SimulationSettings controls how the engine samples. A zero Seed means a
// time-based seed; a zero BaseYear means the current calendar year.
type SimulationSettings struct {
	Iterations int    `yaml:"iterations" json:"iterations"`
	Bins       int    `yaml:"bins" json:"bins"`
	Seed       uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`
	Workers    int    `yaml:"workers,omitempty" json:"workers,omitempty"`
	BaseYear   int    `yaml:"base_year,omitempty" json:"baseYear,omitempty"`
}

// DefaultSimulationSettings returns the standard simulation width.
func DefaultSimulationSettings() SimulationSettings {
	return SimulationSettings{
		Iterations: DefaultIterations,
		Bins:       DefaultBins,
		Workers:    DefaultWorkers,
	}
}

// WithDefaults fills unset fields with defaults.
func (s SimulationSettings) WithDefaults() SimulationSettings {
	if s.Iterations == 0 {
		s.Iterations = DefaultIterations
	}
	if s.Bins == 0 {
		s.Bins = DefaultBins
	}
	if s.Workers == 0 {
		s.Workers = DefaultWorkers
	}
	return s
}

// PlanFile is the on-disk layout of a plan.
type PlanFile struct {
	Plan       PlanParameters     `yaml:"plan" json:"plan"`
	Simulation SimulationSettings `yaml:"simulation" json:"simulation"`
}
