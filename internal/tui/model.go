// Package tui is the interactive dashboard: plan sliders on one side, the
// projection and outcome distributions recomputed on every change.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/nestcast/internal/calculation"
	"github.com/rgehrsitz/nestcast/internal/config"
	"github.com/rgehrsitz/nestcast/internal/domain"
	"github.com/rgehrsitz/nestcast/internal/output"
	"github.com/rgehrsitz/nestcast/internal/tui/tuistyles"
)

// Cache sizing for the dashboard engine.
const (
	resultCacheSize = 64
	resultCacheTTL  = 30 * time.Minute
)

// Options configures a dashboard session
type Options struct {
	Plan     *domain.PlanParameters
	Settings domain.SimulationSettings
	// PlanPath is where "write plan" saves; empty disables saving.
	PlanPath string
	// Engine overrides the engine built from Settings.
	Engine *calculation.CachedEngine
}

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	planPath string
	settings domain.SimulationSettings
	original *domain.PlanParameters
	plan     *domain.PlanParameters

	engine     *calculation.CachedEngine
	generation int
	computing  bool

	result  *domain.PlanResult
	metrics output.PlanMetrics

	fields  []field
	focused int
	account int

	table   table.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	status string
	err    error
}

// NewModel creates a dashboard for opts.Plan, or the default plan when nil.
func NewModel(opts Options) Model {
	plan := opts.Plan
	if plan == nil {
		plan = config.DefaultPlan()
	}
	settings := opts.Settings.WithDefaults()

	engine := opts.Engine
	if engine == nil {
		engine = calculation.NewCachedEngine(calculation.NewEngineWithSettings(settings), resultCacheSize, resultCacheTTL)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tuistyles.InfoStyle

	tbl := table.New(table.WithFocused(true), table.WithHeight(15))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(tuistyles.ColorPrimary)
	styles.Selected = styles.Selected.Foreground(tuistyles.ColorForeground).Background(tuistyles.ColorBorder)
	tbl.SetStyles(styles)

	m := Model{
		currentScene: SceneDashboard,
		width:        100,
		height:       30,
		planPath:     opts.PlanPath,
		settings:     settings,
		original:     plan.Clone(),
		plan:         plan.Clone(),
		engine:       engine,
		generation:   1,
		computing:    true,
		table:        tbl,
		spinner:      sp,
		help:         help.New(),
		keys:         defaultKeyMap(),
	}
	m.fields = buildFields(m.plan, m.account)
	m.setFocus(0)
	if err := config.ValidatePlan(m.plan); err != nil {
		m.err = err
		m.computing = false
	}
	return m
}

// Init starts the first calculation
func (m Model) Init() tea.Cmd {
	if !m.computing {
		return nil
	}
	return tea.Batch(m.spinner.Tick, calculateCmd(m.engine, m.plan.Clone(), m.generation))
}

// calculateCmd runs the engine off the update loop.
func calculateCmd(engine *calculation.CachedEngine, plan *domain.PlanParameters, generation int) tea.Cmd {
	return func() tea.Msg {
		res, err := engine.Run(context.Background(), plan)
		return CalculationCompleteMsg{Generation: generation, Result: res, Err: err}
	}
}

// savePlanCmd writes the plan and settings to path.
func savePlanCmd(path string, plan *domain.PlanParameters, settings domain.SimulationSettings) tea.Cmd {
	return func() tea.Msg {
		file := &domain.PlanFile{Plan: *plan, Simulation: settings}
		return PlanSavedMsg{Path: path, Err: config.SaveConfiguration(file, path)}
	}
}

// recompute validates the edited plan and, when valid, starts a new
// calculation that supersedes any still running.
func (m *Model) recompute() tea.Cmd {
	m.generation++
	if err := config.ValidatePlan(m.plan); err != nil {
		m.err = err
		m.computing = false
		return nil
	}
	m.err = nil
	m.computing = true
	return tea.Batch(m.spinner.Tick, calculateCmd(m.engine, m.plan.Clone(), m.generation))
}

// rebuildFields recreates the sliders after the plan or the focused account
// changed, keeping the focused row when it still exists.
func (m *Model) rebuildFields() {
	if m.account >= len(m.plan.Accounts) {
		m.account = len(m.plan.Accounts) - 1
	}
	if m.account < 0 {
		m.account = 0
	}
	m.fields = buildFields(m.plan, m.account)
	m.setFocus(m.focused)
}

func (m *Model) setFocus(i int) {
	if len(m.fields) == 0 {
		return
	}
	i = max(0, min(i, len(m.fields)-1))
	for j, f := range m.fields {
		f.slider.SetFocused(j == i)
	}
	m.focused = i
}

// focusedAccount returns the account the account sliders edit.
func (m Model) focusedAccount() (domain.Account, bool) {
	if m.account < 0 || m.account >= len(m.plan.Accounts) {
		return domain.Account{}, false
	}
	return m.plan.Accounts[m.account], true
}

// Plan returns a copy of the plan as currently edited
func (m Model) Plan() *domain.PlanParameters {
	return m.plan.Clone()
}

// Result returns the latest completed result, nil before the first one
func (m Model) Result() *domain.PlanResult {
	return m.result
}
