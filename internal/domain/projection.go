package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// AccountBalance is one account's ending balance for a projection year.
type AccountBalance struct {
	Key     string  `json:"key"`
	Balance float64 `json:"balance"`
}

// ProjectionYear is one year of the deterministic average-path projection.
// TotalBalance is the sum of account balances before that year's withdrawal;
// Balances hold the ending (post-withdrawal) values.
type ProjectionYear struct {
	Age          int              `json:"age"`
	CalendarYear int              `json:"calendarYear"`
	Balances     []AccountBalance `json:"-"`
	TotalBalance float64          `json:"totalBalance"`
	Withdrawal   float64          `json:"withdrawal"`
}

// Balance returns the ending balance recorded for key.
func (y ProjectionYear) Balance(key string) float64 {
	for _, b := range y.Balances {
		if b.Key == key {
			return b.Balance
		}
	}
	return 0
}

// BalanceField is the JSON field name carrying an account's balance.
func BalanceField(key string) string { return key + "Balance" }

// ProjectionFields are the fixed JSON fields of a ProjectionYear. No account
// balance field may reuse one of them.
var ProjectionFields = []string{"age", "calendarYear", "totalBalance", "withdrawal"}

// IsReservedAccountKey reports whether an account keyed key would emit a
// balance field that clashes with a fixed ProjectionYear field.
func IsReservedAccountKey(key string) bool {
	name := BalanceField(key)
	for _, f := range ProjectionFields {
		if f == name {
			return true
		}
	}
	return false
}

// MarshalJSON emits one "<key>Balance" field per account, in account order.
func (y ProjectionYear) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	write := func(name string, v interface{}) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
		return nil
	}

	buf.WriteByte('{')
	if err := write("age", y.Age); err != nil {
		return nil, err
	}
	if err := write("calendarYear", y.CalendarYear); err != nil {
		return nil, err
	}
	for _, b := range y.Balances {
		if err := write(BalanceField(b.Key), b.Balance); err != nil {
			return nil, err
		}
	}
	if err := write("totalBalance", y.TotalBalance); err != nil {
		return nil, err
	}
	if err := write("withdrawal", y.Withdrawal); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TrialResult is the outcome of one distribution trial.
type TrialResult struct {
	PeakTotalBalance float64
	MinTotalBalance  float64
}

// HistogramBin is one bucket of an outcome histogram.
type HistogramBin struct {
	BinCenterValue     float64 `json:"binCenterValue"`
	PercentageOfTrials float64 `json:"percentageOfTrials"`
}

// DistributionSummary holds the peak and minimum histograms of a simulation.
type DistributionSummary struct {
	PeakDistribution []HistogramBin `json:"peakDistribution"`
	MinDistribution  []HistogramBin `json:"minDistribution"`
	MedianPeak       float64        `json:"medianPeak"`
	MedianMin        float64        `json:"medianMin"`
	Trials           int            `json:"trials"`
}

// PlanResult bundles everything computed for one plan.
type PlanResult struct {
	Plan           *PlanParameters      `json:"plan"`
	Settings       SimulationSettings   `json:"settings"`
	AverageReturns map[string][]float64 `json:"averageReturns,omitempty"`
	Projection     []ProjectionYear     `json:"projection"`
	Distribution   DistributionSummary  `json:"distribution"`
	GeneratedAt    time.Time            `json:"generatedAt"`
}

// FinalYear returns the last projection year, if any.
func (r *PlanResult) FinalYear() (ProjectionYear, bool) {
	if r == nil || len(r.Projection) == 0 {
		return ProjectionYear{}, false
	}
	return r.Projection[len(r.Projection)-1], true
}
