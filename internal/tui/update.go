package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/nestcast/internal/output"
	"github.com/rgehrsitz/nestcast/internal/transform"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(m.height-9, 5))
		return m, nil

	case NavigateMsg:
		m.navigate(msg.Scene)
		return m, nil

	case CalculationCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.computing = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.result = msg.Result
		m.metrics = output.Analyze(msg.Result)
		m.refreshTable()
		return m, nil

	case PlanSavedMsg:
		if msg.Err != nil {
			m.err = msg.Err
		} else {
			m.status = fmt.Sprintf("Saved plan to %s", msg.Path)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.computing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) navigate(scene Scene) {
	if scene == m.currentScene {
		return
	}
	m.previousScene = m.currentScene
	m.currentScene = scene
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.currentScene == SceneHelp {
			m.navigate(m.previousScene)
		} else {
			m.navigate(SceneHelp)
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.currentScene != SceneDashboard {
			m.navigate(SceneDashboard)
		}
		return m, nil

	case key.Matches(msg, m.keys.Dashboard):
		m.navigate(SceneDashboard)
		return m, nil
	case key.Matches(msg, m.keys.Parameters):
		m.navigate(SceneParameters)
		return m, nil
	case key.Matches(msg, m.keys.Projection):
		m.navigate(SceneProjection)
		return m, nil
	case key.Matches(msg, m.keys.Distribution):
		m.navigate(SceneDistribution)
		return m, nil

	case key.Matches(msg, m.keys.NextAccount):
		m.cycleAccount(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevAccount):
		m.cycleAccount(-1)
		return m, nil

	case key.Matches(msg, m.keys.AddAccount):
		return m.applyTransform(&transform.AddAccount{}, func(m *Model) {
			m.account = len(m.plan.Accounts) - 1
			acct, _ := m.focusedAccount()
			m.status = fmt.Sprintf("Added %s", acct.Key)
		})

	case key.Matches(msg, m.keys.RemoveAccount):
		acct, ok := m.focusedAccount()
		if !ok {
			return m, nil
		}
		return m.applyTransform(&transform.RemoveAccount{Key: acct.Key}, func(m *Model) {
			m.status = fmt.Sprintf("Removed %s", acct.Key)
		})

	case key.Matches(msg, m.keys.Reset):
		m.plan = m.original.Clone()
		m.rebuildFields()
		m.status = "Plan reset"
		return m, m.recompute()

	case key.Matches(msg, m.keys.Save):
		if m.planPath == "" {
			m.status = "No plan file to write; start with a plan path to enable saving"
			return m, nil
		}
		return m, savePlanCmd(m.planPath, m.plan.Clone(), m.settings)
	}

	switch m.currentScene {
	case SceneParameters:
		return m.updateParameters(msg)
	case SceneProjection:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applyTransform replaces the plan with t applied to it. Failures leave the
// plan unchanged and are shown in the status line.
func (m Model) applyTransform(t transform.PlanTransform, after func(m *Model)) (tea.Model, tea.Cmd) {
	next, err := transform.ApplyTransforms(m.plan, []transform.PlanTransform{t})
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.plan = next
	after(&m)
	m.rebuildFields()
	return m, m.recompute()
}

func (m *Model) cycleAccount(delta int) {
	n := len(m.plan.Accounts)
	if n == 0 {
		return
	}
	m.account = ((m.account+delta)%n + n) % n
	m.rebuildFields()
}

// updateParameters moves slider focus and applies slider changes.
func (m Model) updateParameters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.fields) == 0 {
		return m, nil
	}
	f := m.fields[m.focused]
	before := f.slider.Value

	switch {
	case key.Matches(msg, m.keys.Up):
		m.setFocus(m.focused - 1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.setFocus(m.focused + 1)
		return m, nil
	case key.Matches(msg, m.keys.Decrease):
		f.slider.Decrement(1)
	case key.Matches(msg, m.keys.Increase):
		f.slider.Increment(1)
	case key.Matches(msg, m.keys.DecreaseMore):
		f.slider.Decrement(10)
	case key.Matches(msg, m.keys.IncreaseMore):
		f.slider.Increment(10)
	default:
		return m, nil
	}

	if f.slider.Value == before {
		return m, nil
	}
	f.apply(m.plan, f.slider.Value)
	m.status = ""
	return m, m.recompute()
}

// refreshTable rebuilds the projection table for the current result.
func (m *Model) refreshTable() {
	if m.result == nil {
		return
	}
	plan := m.result.Plan

	cols := []table.Column{{Title: "Age", Width: 4}, {Title: "Year", Width: 5}}
	for _, acct := range plan.Accounts {
		cols = append(cols, table.Column{Title: truncate(output.AccountLabel(acct.Key, acct.Config.Label), 12), Width: 12})
	}
	cols = append(cols, table.Column{Title: "Total", Width: 13}, table.Column{Title: "Withdrawal", Width: 11})

	rows := make([]table.Row, 0, len(m.result.Projection))
	for _, y := range m.result.Projection {
		row := table.Row{fmt.Sprint(y.Age), fmt.Sprint(y.CalendarYear)}
		for _, acct := range plan.Accounts {
			row = append(row, output.FormatCompact(y.Balance(acct.Key)))
		}
		row = append(row, output.FormatCurrencyFloat(y.TotalBalance), output.FormatCompact(y.Withdrawal))
		rows = append(rows, row)
	}

	// rows must never be wider than the columns while they are swapped
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
