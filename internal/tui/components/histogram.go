package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/nestcast/internal/domain"
	"github.com/rgehrsitz/nestcast/internal/output"
	"github.com/rgehrsitz/nestcast/internal/tui/tuistyles"
)

// Histogram draws distribution bins as horizontal bars, one row per bin.
type Histogram struct {
	Title string
	Bins  []domain.HistogramBin
	// Median is marked on the row whose bin contains it.
	Median  float64
	Width   int
	MaxRows int
	Color   lipgloss.Color
}

// NewHistogram creates a histogram of bins
func NewHistogram(title string, bins []domain.HistogramBin) *Histogram {
	return &Histogram{
		Title:   title,
		Bins:    bins,
		Width:   40,
		MaxRows: 12,
		Color:   tuistyles.ColorPrimary,
	}
}

// WithMedian sets the value to mark
func (h *Histogram) WithMedian(median float64) *Histogram {
	h.Median = median
	return h
}

// WithSize sets the bar width and the maximum number of rows
func (h *Histogram) WithSize(width, maxRows int) *Histogram {
	h.Width = width
	h.MaxRows = maxRows
	return h
}

// WithColor sets the bar color
func (h *Histogram) WithColor(color lipgloss.Color) *Histogram {
	h.Color = color
	return h
}

// Regroup merges adjacent bins so at most rows remain. Percentages are summed
// and centers are weighted by their share of trials.
func Regroup(bins []domain.HistogramBin, rows int) []domain.HistogramBin {
	if rows <= 0 || len(bins) <= rows {
		return bins
	}
	size := int(math.Ceil(float64(len(bins)) / float64(rows)))
	grouped := make([]domain.HistogramBin, 0, rows)
	for start := 0; start < len(bins); start += size {
		end := min(start+size, len(bins))
		var pct, weighted, plain float64
		for _, b := range bins[start:end] {
			pct += b.PercentageOfTrials
			weighted += b.BinCenterValue * b.PercentageOfTrials
			plain += b.BinCenterValue
		}
		center := plain / float64(end-start)
		if pct > 0 {
			center = weighted / pct
		}
		grouped = append(grouped, domain.HistogramBin{BinCenterValue: center, PercentageOfTrials: pct})
	}
	return grouped
}

// Render returns the styled histogram
func (h *Histogram) Render() string {
	var sb strings.Builder
	if h.Title != "" {
		sb.WriteString(tuistyles.TitleStyle.Render(h.Title))
		sb.WriteString("\n")
	}
	if len(h.Bins) == 0 {
		sb.WriteString(tuistyles.InfoStyle.Render("No trials"))
		return sb.String()
	}

	rows := Regroup(h.Bins, h.MaxRows)
	var peak float64
	for _, b := range rows {
		peak = math.Max(peak, b.PercentageOfTrials)
	}

	medianRow := nearestRow(rows, h.Median)
	bar := lipgloss.NewStyle().Foreground(h.Color)
	for i, b := range rows {
		n := 0
		if peak > 0 {
			n = int(math.Round(b.PercentageOfTrials / peak * float64(h.Width)))
		}
		marker := "  "
		if i == medianRow {
			marker = lipgloss.NewStyle().Foreground(tuistyles.ColorAccent).Render(" ◂")
		}
		sb.WriteString(fmt.Sprintf("%9s │%s%s %5.1f%%%s\n",
			output.FormatCompact(b.BinCenterValue),
			bar.Render(strings.Repeat("█", n)),
			strings.Repeat(" ", h.Width-n),
			b.PercentageOfTrials,
			marker))
	}
	sb.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("median %s", output.FormatCompact(h.Median))))
	return sb.String()
}

func nearestRow(rows []domain.HistogramBin, v float64) int {
	best, dist := -1, math.Inf(1)
	for i, b := range rows {
		if d := math.Abs(b.BinCenterValue - v); d < dist {
			best, dist = i, d
		}
	}
	return best
}
