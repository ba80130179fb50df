package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up            key.Binding
	Down          key.Binding
	Decrease      key.Binding
	Increase      key.Binding
	DecreaseMore  key.Binding
	IncreaseMore  key.Binding
	NextAccount   key.Binding
	PrevAccount   key.Binding
	AddAccount    key.Binding
	RemoveAccount key.Binding
	Reset         key.Binding
	Save          key.Binding
	Dashboard     key.Binding
	Parameters    key.Binding
	Projection    key.Binding
	Distribution  key.Binding
	Help          key.Binding
	Back          key.Binding
	Quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
		Decrease:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		Increase:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		DecreaseMore:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "decrease ×10")),
		IncreaseMore:  key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "increase ×10")),
		NextAccount:   key.NewBinding(key.WithKeys("tab", "]"), key.WithHelp("tab", "next account")),
		PrevAccount:   key.NewBinding(key.WithKeys("shift+tab", "["), key.WithHelp("shift+tab", "previous account")),
		AddAccount:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add account")),
		RemoveAccount: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove account")),
		Reset:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset plan")),
		Save:          key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write plan")),
		Dashboard:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
		Parameters:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "parameters")),
		Projection:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "projection")),
		Distribution:  key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "distribution")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dashboard, k.Parameters, k.Projection, k.Distribution, k.AddAccount, k.RemoveAccount, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Dashboard, k.Parameters, k.Projection, k.Distribution, k.Help, k.Back},
		{k.Up, k.Down, k.Decrease, k.Increase, k.DecreaseMore, k.IncreaseMore},
		{k.NextAccount, k.PrevAccount, k.AddAccount, k.RemoveAccount},
		{k.Reset, k.Save, k.Quit},
	}
}
