package tui

import (
	"github.com/rgehrsitz/nestcast/internal/domain"
)

// Scene represents the screens of the dashboard
type Scene int

const (
	SceneDashboard Scene = iota
	SceneParameters
	SceneProjection
	SceneDistribution
	SceneHelp
)

var sceneNames = []string{"Dashboard", "Parameters", "Projection", "Distribution", "Help"}

func (s Scene) String() string {
	if s < 0 || int(s) >= len(sceneNames) {
		return "Unknown"
	}
	return sceneNames[s]
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// CalculationCompleteMsg carries the result of one engine run. Generation
// identifies the plan edit it was started for; results of superseded edits
// are dropped.
type CalculationCompleteMsg struct {
	Generation int
	Result     *domain.PlanResult
	Err        error
}

// PlanSavedMsg reports the outcome of writing the plan back to disk
type PlanSavedMsg struct {
	Path string
	Err  error
}
