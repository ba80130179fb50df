package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// ProjectionCSVFormatter writes one row per projection year with a balance
// column per account.
type ProjectionCSVFormatter struct{}

func (c ProjectionCSVFormatter) Name() string { return "csv" }

func (c ProjectionCSVFormatter) Format(result *domain.PlanResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"Age", "CalendarYear"}
	for _, key := range result.Plan.Accounts.Keys() {
		header = append(header, key+"Balance")
	}
	header = append(header, "TotalBalance", "Withdrawal")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, y := range result.Projection {
		row := []string{strconv.Itoa(y.Age), strconv.Itoa(y.CalendarYear)}
		for _, key := range result.Plan.Accounts.Keys() {
			row = append(row, Money(y.Balance(key)).StringFixed(2))
		}
		row = append(row, Money(y.TotalBalance).StringFixed(2), Money(y.Withdrawal).StringFixed(2))
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// HistogramCSVFormatter writes the peak and minimum histograms as bin rows.
type HistogramCSVFormatter struct{}

func (h HistogramCSVFormatter) Name() string { return "histogram-csv" }

func (h HistogramCSVFormatter) Format(result *domain.PlanResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Distribution", "Bin", "BinCenterValue", "PercentageOfTrials"}); err != nil {
		return nil, err
	}

	write := func(name string, bins []domain.HistogramBin) error {
		for i, b := range bins {
			row := []string{
				name,
				strconv.Itoa(i),
				Money(b.BinCenterValue).StringFixed(2),
				strconv.FormatFloat(b.PercentageOfTrials, 'f', 4, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write("peak", result.Distribution.PeakDistribution); err != nil {
		return nil, err
	}
	if err := write("min", result.Distribution.MinDistribution); err != nil {
		return nil, err
	}
	if err := w.Write([]string{"median_peak", "", Money(result.Distribution.MedianPeak).StringFixed(2), ""}); err != nil {
		return nil, err
	}
	if err := w.Write([]string{"median_min", "", Money(result.Distribution.MedianMin).StringFixed(2), ""}); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
