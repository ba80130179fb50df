package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":    FormatCurrency,
	"money":   FormatCurrencyFloat,
	"compact": FormatCompact,
	"pct":     FormatPercentage,
	"label":   AccountLabel,
	"barpct":  barPercent,
}).Parse(htmlTemplateSource))

type htmlAccountColumn struct {
	Key   string
	Label string
	Color string
}

type htmlRow struct {
	domain.ProjectionYear
	Cells []float64
}

func (h HTMLFormatter) Format(result *domain.PlanResult) ([]byte, error) {
	var buf bytes.Buffer

	columns := make([]htmlAccountColumn, len(result.Plan.Accounts))
	for i, acct := range result.Plan.Accounts {
		columns[i] = htmlAccountColumn{Key: acct.Key, Label: AccountLabel(acct.Key, acct.Config.Label), Color: acct.Config.Color}
	}
	rows := make([]htmlRow, len(result.Projection))
	for i, y := range result.Projection {
		cells := make([]float64, len(columns))
		for j, c := range columns {
			cells[j] = y.Balance(c.Key)
		}
		rows[i] = htmlRow{ProjectionYear: y, Cells: cells}
	}

	data := struct {
		*domain.PlanResult
		Metrics     PlanMetrics
		Columns     []htmlAccountColumn
		Rows        []htmlRow
		PeakMax     float64
		MinMax      float64
		Assumptions []string
	}{
		PlanResult:  result,
		Metrics:     Analyze(result),
		Columns:     columns,
		Rows:        rows,
		PeakMax:     maxPercentage(result.Distribution.PeakDistribution),
		MinMax:      maxPercentage(result.Distribution.MinDistribution),
		Assumptions: DefaultAssumptions,
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func maxPercentage(bins []domain.HistogramBin) float64 {
	m := 0.0
	for _, b := range bins {
		if b.PercentageOfTrials > m {
			m = b.PercentageOfTrials
		}
	}
	return m
}

// barPercent scales v against max to a 0-100 bar height.
func barPercent(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max * 100
}
