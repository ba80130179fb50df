package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/nestcast/internal/domain"
	"github.com/rgehrsitz/nestcast/internal/output"
	"github.com/rgehrsitz/nestcast/internal/tui/components"
	"github.com/rgehrsitz/nestcast/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch m.currentScene {
	case SceneDashboard:
		content = m.renderDashboard()
	case SceneParameters:
		content = m.renderParameters()
	case SceneProjection:
		content = m.renderProjection()
	case SceneDistribution:
		content = m.renderDistribution()
	case SceneHelp:
		content = m.renderHelp()
	}

	return tuistyles.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitleBar(),
		"",
		content,
		"",
		m.renderStatusBar(),
		m.help.View(m.keys),
	))
}

// renderTitleBar renders the title and the scene tabs
func (m Model) renderTitleBar() string {
	tabs := make([]string, 0, 4)
	for s := SceneDashboard; s <= SceneDistribution; s++ {
		label := fmt.Sprintf("%d %s", int(s)+1, s)
		if s == m.currentScene {
			tabs = append(tabs, tuistyles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, tuistyles.TabStyle.Render(label))
		}
	}
	title := tuistyles.TitleStyle.Render("nestcast") + tuistyles.SubtitleStyle.Render("  retirement projection")
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderStatusBar shows calculation progress, errors and the last action
func (m Model) renderStatusBar() string {
	var parts []string
	switch {
	case m.err != nil:
		parts = append(parts, tuistyles.ErrorStyle.Render("✗ "+m.err.Error()))
	case m.computing:
		parts = append(parts, m.spinner.View()+" Simulating...")
	case m.result != nil:
		parts = append(parts, fmt.Sprintf("%d trials · %d accounts", m.result.Distribution.Trials, len(m.plan.Accounts)))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return tuistyles.StatusBarStyle.Width(max(m.width-2, 20)).Render(strings.Join(parts, " · "))
}

func (m Model) renderDashboard() string {
	if m.result == nil {
		return tuistyles.InfoStyle.Render("Waiting for the first simulation...")
	}
	mt := m.metrics

	depletion := "never"
	if mt.DepletionAge > 0 {
		depletion = fmt.Sprintf("age %d", mt.DepletionAge)
	}
	cards := []*components.MetricCard{
		components.NewMetricCard("Current Savings", output.FormatCurrency(mt.TotalCurrentSavings)).
			WithDetail(fmt.Sprintf("retire in %d years", mt.YearsUntilRetirement)),
		components.NewMetricCard("Success Rate", mt.SuccessRate.StringFixed(1)+"%").
			WithDetail(mt.Risk.Label).
			WithAccent(tuistyles.RiskColor(mt.Risk.Label)),
		components.NewMetricCard("Peak Balance", output.FormatCompact(mt.PeakBalance.InexactFloat64())).
			WithDetail("funds run out: " + depletion),
		components.NewMetricCard("Median Peak", output.FormatCompact(mt.MedianPeak.InexactFloat64())).
			WithDetail("median min " + output.FormatCompact(mt.MedianMin.InexactFloat64())),
	}

	columns := 4
	if m.width < 100 {
		columns = 2
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		components.MetricGrid(cards, columns),
		"",
		m.balanceChart().Render(),
	)
}

// balanceChart plots the projected total and each account by age.
func (m Model) balanceChart() *components.ASCIIChart {
	proj := m.result.Projection
	chart := components.NewASCIIChart("Projected balances").WithSize(max(m.width-4, 40), max(m.height-22, 8))

	totals := make([]float64, len(proj))
	labels := make([]string, len(proj))
	for i, y := range proj {
		totals[i] = y.TotalBalance
		labels[i] = fmt.Sprint(y.Age)
	}
	chart.AddSeries("Total", totals, tuistyles.ColorForeground).WithLabels(labels)

	for j, acct := range m.result.Plan.Accounts {
		points := make([]float64, len(proj))
		for i, y := range proj {
			points[i] = y.Balance(acct.Key)
		}
		chart.AddSeries(output.AccountLabel(acct.Key, acct.Config.Label), points, tuistyles.AccountColor(acct.Config.Color, j))
	}
	return chart
}

func (m Model) renderParameters() string {
	var left strings.Builder
	left.WriteString(tuistyles.TitleStyle.Render("Plan"))
	left.WriteString("\n")
	for i, f := range m.fields {
		if i == planFieldCount {
			acct, _ := m.focusedAccount()
			left.WriteString("\n")
			left.WriteString(tuistyles.TitleStyle.Render(fmt.Sprintf("Account: %s (%d/%d)",
				output.AccountLabel(acct.Key, acct.Config.Label), m.account+1, len(m.plan.Accounts))))
			left.WriteString("\n")
		}
		left.WriteString(f.slider.Render())
		left.WriteString("\n")
	}
	if len(m.fields) > 0 {
		left.WriteString(m.fields[m.focused].slider.RenderRange())
	}

	cards := make([]string, 0, len(m.plan.Accounts))
	for i, acct := range m.plan.Accounts {
		cards = append(cards, components.NewAccountCard(acct, tuistyles.AccountColor(acct.Config.Color, i)).
			SetSelected(i == m.account).
			Render())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		left.String(),
		"   ",
		lipgloss.JoinVertical(lipgloss.Left, cards...),
	)
}

func (m Model) renderProjection() string {
	if m.result == nil {
		return tuistyles.InfoStyle.Render("No projection yet")
	}
	return tuistyles.BorderStyle.Render(m.table.View())
}

func (m Model) renderDistribution() string {
	if m.result == nil {
		return tuistyles.InfoStyle.Render("No simulation yet")
	}
	dist := m.result.Distribution
	width := max((m.width-40)/2, 10)
	rows := max(m.height-14, 6)

	peak := components.NewHistogram("Peak total balance", dist.PeakDistribution).
		WithMedian(dist.MedianPeak).
		WithSize(width, rows).
		WithColor(tuistyles.ColorSuccess)
	low := components.NewHistogram("Minimum total balance", dist.MinDistribution).
		WithMedian(dist.MedianMin).
		WithSize(width, rows).
		WithColor(tuistyles.ColorAccent)

	note := tuistyles.SubtitleStyle.Render(fmt.Sprintf(
		"%d trials of growth and contributions only; withdrawals are not simulated here.", dist.Trials))
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, peak.Render(), "    ", low.Render()),
		"",
		note,
	)
}

func (m Model) renderHelp() string {
	full := m.help
	full.ShowAll = true
	text := strings.Join([]string{
		"Sliders edit the plan; every change reruns the simulation.",
		"Withdrawals draw from " + strings.Join(domain.WithdrawalPriority, ", ") + " in that order.",
		"",
		full.View(m.keys),
	}, "\n")
	return tuistyles.BorderStyle.Render(text)
}
