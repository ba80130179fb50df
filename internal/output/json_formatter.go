package output

import (
	"encoding/json"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// JSONFormatter emits the full result together with its derived metrics.
type JSONFormatter struct {
	Indent bool
}

func (j JSONFormatter) Name() string { return "json" }

type jsonMetrics struct {
	TotalCurrentSavings  string `json:"totalCurrentSavings"`
	YearsUntilRetirement int    `json:"yearsUntilRetirement"`
	PeakBalance          string `json:"peakBalance"`
	SuccessRate          string `json:"successRate"`
	DepletionAge         int    `json:"depletionAge,omitempty"`
	RiskLevel            string `json:"riskLevel"`
}

func (j JSONFormatter) Format(result *domain.PlanResult) ([]byte, error) {
	m := Analyze(result)
	payload := struct {
		*domain.PlanResult
		Metrics jsonMetrics `json:"metrics"`
	}{
		PlanResult: result,
		Metrics: jsonMetrics{
			TotalCurrentSavings:  m.TotalCurrentSavings.StringFixed(2),
			YearsUntilRetirement: m.YearsUntilRetirement,
			PeakBalance:          m.PeakBalance.StringFixed(2),
			SuccessRate:          m.SuccessRate.StringFixed(2),
			DepletionAge:         m.DepletionAge,
			RiskLevel:            m.Risk.Label,
		},
	}
	if j.Indent {
		return json.MarshalIndent(payload, "", "  ")
	}
	return json.Marshal(payload)
}
