package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/nestcast/internal/tui/tuistyles"
)

// ParameterSlider is an adjustable value on a fixed grid between Min and Max.
type ParameterSlider struct {
	Label     string
	Value     float64
	Min       float64
	Max       float64
	Step      float64
	Width     int
	IsFocused bool
	// FormatValue renders values; defaults to two decimals.
	FormatValue func(float64) string
}

// NewParameterSlider creates a slider; value is clamped into [min, max].
func NewParameterSlider(label string, value, min, max, step float64) *ParameterSlider {
	p := &ParameterSlider{
		Label: label,
		Min:   min,
		Max:   max,
		Step:  step,
		Width: 24,
	}
	p.SetValue(value)
	return p
}

// WithFormat sets the value formatter
func (p *ParameterSlider) WithFormat(format func(float64) string) *ParameterSlider {
	p.FormatValue = format
	return p
}

// WithUnit formats values with printf verb and a suffix, e.g. ("%.1f", "%").
func (p *ParameterSlider) WithUnit(verb, unit string) *ParameterSlider {
	p.FormatValue = func(v float64) string { return fmt.Sprintf(verb, v) + unit }
	return p
}

// WithWidth sets the bar width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment moves the value up by n steps, stopping at Max.
func (p *ParameterSlider) Increment(n int) {
	p.SetValue(p.Value + float64(n)*p.Step)
}

// Decrement moves the value down by n steps, stopping at Min.
func (p *ParameterSlider) Decrement(n int) {
	p.SetValue(p.Value - float64(n)*p.Step)
}

// SetValue clamps value into range and snaps it to the step grid.
func (p *ParameterSlider) SetValue(value float64) {
	if p.Step > 0 {
		steps := math.Round((value - p.Min) / p.Step)
		value = p.Min + steps*p.Step
		// keep values like 7.1 from drifting to 7.1000000000000005
		value = math.Round(value*1e6) / 1e6
	}
	p.Value = math.Max(p.Min, math.Min(p.Max, value))
}

// Percentage returns the position of the value within the range, 0 to 1.
func (p *ParameterSlider) Percentage() float64 {
	if p.Max <= p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

func (p *ParameterSlider) format(v float64) string {
	if p.FormatValue != nil {
		return p.FormatValue(v)
	}
	return fmt.Sprintf("%.2f", v)
}

// Render returns a single line: label, bar and value.
func (p *ParameterSlider) Render() string {
	labelStyle := tuistyles.ParameterLabelStyle.Width(22)
	valueStyle := tuistyles.ParameterValueStyle
	cursor := "  "
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary).Bold(true)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
		cursor = lipgloss.NewStyle().Foreground(tuistyles.ColorAccent).Render("▸ ")
	}
	return cursor + labelStyle.Render(p.Label) + " " + p.renderBar() + " " + valueStyle.Render(p.format(p.Value))
}

// RenderRange returns the min and max labels, muted.
func (p *ParameterSlider) RenderRange() string {
	return tuistyles.SubtitleStyle.Render(p.format(p.Min) + " ─ " + p.format(p.Max))
}

func (p *ParameterSlider) renderBar() string {
	width := max(p.Width, 3)
	pos := int(math.Round(float64(width-1) * p.Percentage()))

	thumb := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumb = thumb.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	if pos > 0 {
		bar.WriteString(thumb.Render(strings.Repeat("━", pos)))
	}
	bar.WriteString(thumb.Render("●"))
	if rest := width - pos - 1; rest > 0 {
		bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", rest)))
	}
	bar.WriteString("]")
	return bar.String()
}
