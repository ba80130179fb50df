package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/nestcast/internal/tui/tuistyles"
)

// MetricCard shows one headline number with a label and an optional detail line.
type MetricCard struct {
	Label  string
	Value  string
	Detail string
	Accent lipgloss.Color
	Width  int
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 22,
	}
}

// WithDetail adds a muted line under the value
func (m *MetricCard) WithDetail(detail string) *MetricCard {
	m.Detail = detail
	return m
}

// WithAccent colors the value and the border
func (m *MetricCard) WithAccent(color lipgloss.Color) *MetricCard {
	m.Accent = color
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the styled card
func (m *MetricCard) Render() string {
	valueStyle := tuistyles.MetricValueStyle
	border := tuistyles.ColorBorder
	if m.Accent != "" {
		valueStyle = valueStyle.Foreground(m.Accent)
		border = m.Accent
	}

	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Value)
	if m.Detail != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Detail)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricGrid lays cards out in rows of columns cards.
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	columns = max(columns, 1)

	var rows []string
	var row []string
	for i, card := range cards {
		row = append(row, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
