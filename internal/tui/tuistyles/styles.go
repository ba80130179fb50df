// Package tuistyles holds the dashboard palette and lipgloss styles shared by
// the tui package and its components.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/nestcast/internal/output"
)

// Colors
var (
	ColorPrimary   = lipgloss.Color("#4299e1")
	ColorSecondary = lipgloss.Color("#9f7aea")
	ColorAccent    = lipgloss.Color("#ed8936")
	ColorSuccess   = lipgloss.Color("#48bb78")
	ColorWarning   = lipgloss.Color("#ecc94b")
	ColorDanger    = lipgloss.Color("#f56565")
	ColorInfo      = lipgloss.Color("#38b2ac")

	ColorForeground = lipgloss.Color("#e2e8f0")
	ColorMuted      = lipgloss.Color("#718096")
	ColorBorder     = lipgloss.Color("#4a5568")
)

// Base styles
var (
	AppStyle = lipgloss.NewStyle().Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(lipgloss.Color("#2d3748")).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground).
			Background(ColorPrimary).
			Padding(0, 1)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ActiveBorderStyle = BorderStyle.
				BorderForeground(ColorPrimary)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	ParameterLabelStyle = lipgloss.NewStyle().
				Foreground(ColorForeground)

	ParameterValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorInfo)

	SliderTrackStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	SliderThumbStyle = lipgloss.NewStyle().Foreground(ColorPrimary)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorDanger)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Italic(true)
)

// MetricTrendStyle colors a change green when it is good and red otherwise.
func MetricTrendStyle(positive bool) lipgloss.Style {
	if positive {
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	}
	return lipgloss.NewStyle().Foreground(ColorDanger)
}

// TrendIndicator returns an arrow for the direction of a change.
func TrendIndicator(positive bool) string {
	if positive {
		return "▲"
	}
	return "▼"
}

// RiskColor maps a risk label from output.CalculateRiskLevel to a color.
func RiskColor(label string) lipgloss.Color {
	switch label {
	case "LOW RISK":
		return ColorSuccess
	case "MODERATE RISK":
		return ColorWarning
	case "HIGH RISK":
		return ColorAccent
	default:
		return ColorDanger
	}
}

// AccountColor returns the configured color of an account, or a palette
// color picked by position when none is set.
func AccountColor(configured string, index int) lipgloss.Color {
	if configured != "" {
		return lipgloss.Color(configured)
	}
	palette := []lipgloss.Color{ColorSuccess, ColorPrimary, ColorSecondary, ColorAccent, ColorDanger, ColorInfo}
	return palette[index%len(palette)]
}

// FormatCurrency formats a whole-dollar amount for the dashboard.
func FormatCurrency(v float64) string {
	return output.FormatCurrencyFloat(v)
}
