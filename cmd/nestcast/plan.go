package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/nestcast/internal/config"
	"github.com/rgehrsitz/nestcast/internal/domain"
	"github.com/rgehrsitz/nestcast/internal/output"
)

// emit formats result with the named formatter and writes it to stdout, or
// to a timestamped file in outDir when one is given.
func emit(cmd *cobra.Command, result *domain.PlanResult, format, outDir string) error {
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format %q (available: %v, aliases: %v)",
			format, output.AvailableFormatterNames(), output.AvailableFormatAliases())
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path, err := output.WriteFormatted(f, result, outDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	}

	data, err := f.Format(result)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func addOutputFlags(cmd *cobra.Command, defaultFormat string) {
	cmd.Flags().StringP("format", "f", defaultFormat, fmt.Sprintf("Output format %v", output.AvailableFormatterNames()))
	cmd.Flags().StringP("output", "o", "", "Write to a timestamped file in this directory instead of stdout")
}

func outputFlags(cmd *cobra.Command) (format, outDir string) {
	format, _ = cmd.Flags().GetString("format")
	outDir, _ = cmd.Flags().GetString("output")
	return format, outDir
}

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project <plan.yaml>",
		Short: "Build the year-by-year projection with retirement withdrawals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadPlan(cmd, args[0])
			if err != nil {
				return err
			}
			engine := newEngine(cmd, file.Simulation)
			projection, err := engine.BuildProjection(cmd.Context(), &file.Plan)
			if err != nil {
				return err
			}
			result := &domain.PlanResult{
				Plan:        file.Plan.Clone(),
				Settings:    engine.Settings(),
				Projection:  projection,
				GeneratedAt: time.Now(),
			}
			format, outDir := outputFlags(cmd)
			return emit(cmd, result, format, outDir)
		},
	}
	addSimulationFlags(cmd)
	addOutputFlags(cmd, "console")
	return cmd
}

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <plan.yaml>",
		Short: "Simulate the distribution of peak and minimum balances",
		Long: `Simulate runs independent accumulation-only trials (growth and
contributions, no withdrawals) and reports histograms of each trial's peak
and minimum total balance.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadPlan(cmd, args[0])
			if err != nil {
				return err
			}
			engine := newEngine(cmd, file.Simulation)
			dist, err := engine.SimulateDistribution(cmd.Context(), &file.Plan)
			if err != nil {
				return err
			}
			result := &domain.PlanResult{
				Plan:         file.Plan.Clone(),
				Settings:     engine.Settings(),
				Projection:   []domain.ProjectionYear{},
				Distribution: dist,
				GeneratedAt:  time.Now(),
			}
			format, outDir := outputFlags(cmd)
			return emit(cmd, result, format, outDir)
		},
	}
	addSimulationFlags(cmd)
	addOutputFlags(cmd, "histogram-csv")
	return cmd
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <plan.yaml>",
		Short: "Run the projection and the distribution simulation",
		Example: `  nestcast run plan.yaml
  nestcast run plan.yaml --format html --output reports/
  nestcast run plan.yaml --iterations 50000 --workers 8 --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadPlan(cmd, args[0])
			if err != nil {
				return err
			}
			start := time.Now()
			engine := newEngine(cmd, file.Simulation)
			result, err := engine.Run(cmd.Context(), &file.Plan)
			if err != nil {
				return err
			}
			engine.Logger.Debugf("run finished in %s", time.Since(start).Round(time.Millisecond))
			format, outDir := outputFlags(cmd)
			return emit(cmd, result, format, outDir)
		},
	}
	addSimulationFlags(cmd)
	addOutputFlags(cmd, "console")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plan.yaml>",
		Short: "Validate a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := config.NewInputParser().LoadFromFile(args[0])
			var verrs config.ValidationErrors
			if errors.As(err, &verrs) {
				fmt.Fprintf(cmd.OutOrStdout(), "✗ %s has %d problem(s):\n", args[0], len(verrs))
				for _, e := range verrs {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", e)
				}
				return fmt.Errorf("%s is invalid", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", args[0])
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter plan file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "plan.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveConfiguration(config.DefaultPlanFile(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote starter plan to %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}
