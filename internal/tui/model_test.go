package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/nestcast/internal/config"
	"github.com/rgehrsitz/nestcast/internal/domain"
)

func testPlan() *domain.PlanParameters {
	return &domain.PlanParameters{
		CurrentAge:     40,
		RetirementAge:  45,
		LifeExpectancy: 60,
		AnnualExpenses: 30000,
		InflationRate:  2,
		Accounts: domain.Accounts{
			{Key: domain.AccountHSA, Config: domain.AccountConfig{Balance: 20000, AnnualContribution: 3000, ExpectedReturn: 6, StdDev: 10, Label: "HSA"}},
			{Key: domain.AccountBrokerage, Config: domain.AccountConfig{Balance: 200000, AnnualContribution: 10000, ExpectedReturn: 7, StdDev: 15}},
		},
	}
}

func newTestModel(t *testing.T, path string) Model {
	t.Helper()
	return NewModel(Options{
		Plan:     testPlan(),
		PlanPath: path,
		Settings: domain.SimulationSettings{Iterations: 40, Bins: 8, Seed: 11, BaseYear: 2026},
	})
}

// runCmd executes cmd and every command batched inside it, returning the
// messages they produce. Spinner ticks are skipped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func feed(t *testing.T, m Model, msgs []tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		if _, ok := msg.(CalculationCompleteMsg); !ok {
			if _, ok := msg.(PlanSavedMsg); !ok {
				continue
			}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func started(t *testing.T) Model {
	t.Helper()
	m := newTestModel(t, "")
	return feed(t, m, runCmd(m.Init()))
}

func TestModel_InitComputes(t *testing.T) {
	m := newTestModel(t, "")
	assert.True(t, m.computing)
	assert.Nil(t, m.Result())

	m = feed(t, m, runCmd(m.Init()))
	require.NotNil(t, m.Result())
	assert.False(t, m.computing)
	assert.NoError(t, m.err)
	assert.Len(t, m.Result().Projection, 20)
	assert.Len(t, m.table.Rows(), 20)
	assert.Len(t, m.table.Columns(), 6)
	assert.True(t, m.metrics.SuccessRate.IsPositive())
}

func TestModel_InvalidPlanDoesNotCompute(t *testing.T) {
	plan := testPlan()
	plan.RetirementAge = 30
	m := NewModel(Options{Plan: plan, Settings: domain.SimulationSettings{Iterations: 10, Seed: 1}})

	assert.Error(t, m.err)
	assert.False(t, m.computing)
	assert.Nil(t, m.Init())
}

func TestModel_StaleResultIgnored(t *testing.T) {
	m := started(t)
	first := m.Result()

	next, _ := m.Update(CalculationCompleteMsg{Generation: m.generation - 1, Result: &domain.PlanResult{}})
	assert.Same(t, first, next.(Model).Result())
}

func TestModel_Navigation(t *testing.T) {
	m := started(t)

	m, _ = press(t, m, runes("2"))
	assert.Equal(t, SceneParameters, m.currentScene)
	m, _ = press(t, m, runes("?"))
	assert.Equal(t, SceneHelp, m.currentScene)
	m, _ = press(t, m, runes("?"))
	assert.Equal(t, SceneParameters, m.currentScene)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, SceneDashboard, m.currentScene)

	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_SliderRecomputes(t *testing.T) {
	m := started(t)
	m, _ = press(t, m, runes("2"))

	// focus Annual Expenses
	for i := 0; i < 3; i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	require.Equal(t, 3, m.focused)

	gen := m.generation
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, cmd)
	assert.Equal(t, 31000.0, m.plan.AnnualExpenses)
	assert.Equal(t, gen+1, m.generation)
	assert.True(t, m.computing)

	m = feed(t, m, runCmd(cmd))
	assert.False(t, m.computing)
	assert.Equal(t, 31000.0, m.Result().Plan.AnnualExpenses)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftLeft})
	assert.Equal(t, 21000.0, m.plan.AnnualExpenses)
}

func TestModel_AccountSliderEditsFocusedAccount(t *testing.T) {
	m := started(t)
	m, _ = press(t, m, runes("2"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.account)

	// focus Expected Return of the brokerage account
	for i := 0; i < planFieldCount+2; i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})

	cfg, _ := m.plan.Accounts.Get(domain.AccountBrokerage)
	assert.Equal(t, 7.1, cfg.ExpectedReturn)
	hsa, _ := m.plan.Accounts.Get(domain.AccountHSA)
	assert.Equal(t, 6.0, hsa.ExpectedReturn)
}

func TestModel_InvalidEditShowsError(t *testing.T) {
	m := started(t)
	m, _ = press(t, m, runes("2"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}) // Retirement Age

	var cmd tea.Cmd
	for i := 0; i < 5; i++ {
		m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	assert.Equal(t, 40, m.plan.RetirementAge)
	assert.Nil(t, cmd)
	assert.Error(t, m.err)
	assert.False(t, m.computing)
	assert.Contains(t, m.View(), "retirement_age")
}

func TestModel_AddAndRemoveAccount(t *testing.T) {
	m := started(t)

	m, cmd := press(t, m, runes("a"))
	require.NotNil(t, cmd)
	require.Len(t, m.plan.Accounts, 3)
	assert.Equal(t, "account3", m.plan.Accounts[2].Key)
	assert.Equal(t, 2, m.account)
	assert.Equal(t, "Added account3", m.status)

	m = feed(t, m, runCmd(cmd))
	assert.Len(t, m.Result().Plan.Accounts, 3)
	assert.Len(t, m.table.Columns(), 7)

	m, cmd = press(t, m, runes("x"))
	require.NotNil(t, cmd)
	assert.Equal(t, []string{domain.AccountHSA, domain.AccountBrokerage}, m.plan.Accounts.Keys())
	assert.Equal(t, 1, m.account)
	m = feed(t, m, runCmd(cmd))
	assert.Len(t, m.table.Columns(), 6)

	m, _ = press(t, m, runes("x"))
	m, cmd = press(t, m, runes("x"))
	assert.Nil(t, cmd)
	assert.Len(t, m.plan.Accounts, 1)
	assert.Contains(t, m.status, "cannot remove the last account")
}

func TestModel_Reset(t *testing.T) {
	m := started(t)
	m, _ = press(t, m, runes("a"))
	m, cmd := press(t, m, runes("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, testPlan(), m.Plan())
	assert.Equal(t, "Plan reset", m.status)
}

func TestModel_Save(t *testing.T) {
	m := started(t)
	_, cmd := press(t, m, runes("w"))
	assert.Nil(t, cmd, "no path, no save")

	path := filepath.Join(t.TempDir(), "plan.yaml")
	m = newTestModel(t, path)
	m, cmd = press(t, m, runes("a"))
	m = feed(t, m, runCmd(cmd))

	m, cmd = press(t, m, runes("w"))
	require.NotNil(t, cmd)
	m = feed(t, m, runCmd(cmd))
	assert.Equal(t, "Saved plan to "+path, m.status)

	file, err := config.NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.AccountHSA, domain.AccountBrokerage, "account3"}, file.Plan.Accounts.Keys())
	assert.Equal(t, 40, file.Simulation.Iterations)
}

func TestModel_Views(t *testing.T) {
	m := started(t)
	m.width, m.height = 120, 40

	assert.Contains(t, m.View(), "Success Rate")
	assert.Contains(t, m.View(), "Projected balances")

	m.currentScene = SceneParameters
	view := m.View()
	assert.Contains(t, view, "Annual Expenses")
	assert.Contains(t, view, "Account: HSA (1/2)")
	assert.Contains(t, view, "brokerage")

	m.currentScene = SceneProjection
	assert.Contains(t, m.View(), "Withdrawal")

	m.currentScene = SceneDistribution
	view = m.View()
	assert.Contains(t, view, "Peak total balance")
	assert.Contains(t, view, "40 trials")

	m.currentScene = SceneHelp
	assert.Contains(t, m.View(), "hsa, retirement401k, brokerage, rothIra")
}

func TestModel_DefaultPlan(t *testing.T) {
	m := NewModel(Options{Settings: domain.SimulationSettings{Iterations: 5, Seed: 2}})
	assert.Len(t, m.plan.Accounts, 5)
	assert.NoError(t, m.err)
}
