package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/nestcast/internal/breakeven"
)

func solveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <plan.yaml>",
		Short: "Find the break-even retirement age or annual expenses",
		Long: `Solve searches for the earliest retirement age, or the largest annual
expenses, at which the averaged projection keeps the target share of years
funded. Every candidate uses the same return estimates as the plan.`,
		Example: `  nestcast solve plan.yaml
  nestcast solve plan.yaml --target retirement_age --success 95
  nestcast solve plan.yaml --target expenses --max-expenses 120000 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadPlan(cmd, args[0])
			if err != nil {
				return err
			}
			if file.Simulation.Seed == 0 {
				file.Simulation.Seed = compareSeed
			}

			targetName, _ := cmd.Flags().GetString("target")
			target, err := breakeven.ParseTarget(targetName)
			if err != nil {
				return err
			}
			constraints, err := solveConstraints(cmd)
			if err != nil {
				return err
			}

			solver := breakeven.NewDefaultSolver(newEngine(cmd, file.Simulation))
			format, _ := cmd.Flags().GetString("format")
			table := &breakeven.TableFormatter{}
			js := &breakeven.JSONFormatter{Pretty: true}
			if format != "table" && format != "json" {
				return fmt.Errorf("unsupported solve format %q (use table or json)", format)
			}

			var out string
			if target == breakeven.OptimizeAll {
				md, err := solver.OptimizeAllTargets(cmd.Context(), &file.Plan, constraints)
				if err != nil {
					return err
				}
				if format == "json" {
					out, err = js.FormatMultiDimensional(md)
				} else {
					out = table.FormatMultiDimensional(md)
				}
				if err != nil {
					return err
				}
			} else {
				res, err := solver.Optimize(cmd.Context(), breakeven.OptimizationRequest{
					BasePlan:    &file.Plan,
					Target:      target,
					Constraints: constraints,
				})
				if err != nil {
					return err
				}
				if format == "json" {
					out, err = js.Format(res)
				} else {
					out = table.Format(res)
				}
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	addSimulationFlags(cmd)
	cmd.Flags().StringP("target", "t", "all", "What to solve for: retirement_age, annual_expenses or all")
	cmd.Flags().Float64("success", 100, "Target percentage of funded projection years")
	cmd.Flags().Int("min-age", 0, "Earliest retirement age to consider")
	cmd.Flags().Int("max-age", 0, "Latest retirement age to consider")
	cmd.Flags().String("min-expenses", "", "Smallest annual expenses to consider")
	cmd.Flags().String("max-expenses", "", "Largest annual expenses to consider (default: 3x the plan)")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, json")
	return cmd
}

func solveConstraints(cmd *cobra.Command) (breakeven.Constraints, error) {
	flags := cmd.Flags()
	success, _ := flags.GetFloat64("success")
	c := breakeven.Constraints{TargetSuccessRate: decimal.NewFromFloat(success)}

	for name, dst := range map[string]**int{"min-age": &c.MinRetirementAge, "max-age": &c.MaxRetirementAge} {
		if flags.Changed(name) {
			v, _ := flags.GetInt(name)
			*dst = &v
		}
	}
	for name, dst := range map[string]**decimal.Decimal{"min-expenses": &c.MinExpenses, "max-expenses": &c.MaxExpenses} {
		if !flags.Changed(name) {
			continue
		}
		s, _ := flags.GetString(name)
		d, err := decimal.NewFromString(s)
		if err != nil {
			return c, fmt.Errorf("invalid --%s %q: %w", name, s, err)
		}
		*dst = &d
	}
	return c, c.Validate()
}
