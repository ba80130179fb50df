package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// SaveConfiguration writes a plan file as YAML, creating parent directories.
func SaveConfiguration(file *domain.PlanFile, filename string) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}
