package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/nestcast/internal/config"
	"github.com/rgehrsitz/nestcast/internal/domain"
	"github.com/rgehrsitz/nestcast/internal/tui"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	opts, err := options(os.Args[1:])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		tui.NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// options loads the plan named on the command line, or the built-in starter
// plan when none is given. Saving is only enabled for a named file.
func options(args []string) (tui.Options, error) {
	if len(args) == 0 {
		settings, err := config.ApplyEnvOverrides(domain.DefaultSimulationSettings())
		if err != nil {
			return tui.Options{}, err
		}
		return tui.Options{Plan: config.DefaultPlan(), Settings: settings}, nil
	}

	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return tui.Options{}, fmt.Errorf("plan file not found: %s (create one with \"nestcast init %s\")", path, path)
	}
	file, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return tui.Options{}, err
	}
	return tui.Options{Plan: &file.Plan, Settings: file.Simulation, PlanPath: path}, nil
}
