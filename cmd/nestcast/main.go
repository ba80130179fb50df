package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/nestcast/internal/calculation"
	"github.com/rgehrsitz/nestcast/internal/config"
	"github.com/rgehrsitz/nestcast/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// slogLogger implements calculation.Logger on top of log/slog
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Debugf(format string, args ...any) { s.l.Debug(fmt.Sprintf(format, args...)) }
func (s slogLogger) Infof(format string, args ...any)  { s.l.Info(fmt.Sprintf(format, args...)) }
func (s slogLogger) Warnf(format string, args ...any)  { s.l.Warn(fmt.Sprintf(format, args...)) }
func (s slogLogger) Errorf(format string, args ...any) { s.l.Error(fmt.Sprintf(format, args...)) }

func newLogger(w io.Writer, debugMode bool) slogLogger {
	level := slog.LevelWarn
	if debugMode {
		level = slog.LevelDebug
	}
	return slogLogger{l: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nestcast %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" && cmd.Flags().Changed("verbose") {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nestcast",
		Short: "Multi-account retirement projection and Monte Carlo simulator",
		Long: `nestcast projects retirement savings across several accounts.

Each account grows by a normally distributed annual return. "project" builds a
year-by-year projection from averaged returns with retirement withdrawals,
"simulate" runs many accumulation-only trials and reports the distribution of
peak and minimum balances, and "run" does both.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFiles, _ := cmd.Flags().GetStringSlice("env-file")
			return config.LoadEnv(envFiles...)
		},
	}
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")
	root.PersistentFlags().StringSlice("env-file", []string{".env"}, "Env files with NESTCAST_* overrides (missing files are ignored)")

	verCmd := versionCmd()
	verCmd.Flags().BoolP("verbose", "v", false, "Include Go build information")

	root.AddCommand(
		projectCmd(),
		simulateCmd(),
		runCmd(),
		validateCmd(),
		initCmd(),
		compareCmd(),
		solveCmd(),
		verCmd,
	)
	return root
}

// loadPlan reads a plan file and applies simulation flag overrides.
func loadPlan(cmd *cobra.Command, path string) (*domain.PlanFile, error) {
	parser := config.NewInputParser()
	file, err := parser.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := applySimulationFlags(cmd, &file.Simulation); err != nil {
		return nil, err
	}
	if err := parser.ValidateConfiguration(file); err != nil {
		return nil, err
	}
	return file, nil
}

func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("iterations", "n", 0, "Monte Carlo iterations (overrides the plan file)")
	cmd.Flags().IntP("bins", "b", 0, "Histogram bins (overrides the plan file)")
	cmd.Flags().Uint64("seed", 0, "Random seed; 0 draws a fresh seed every run")
	cmd.Flags().IntP("workers", "w", 0, "Parallel workers (overrides the plan file)")
	cmd.Flags().Int("base-year", 0, "Calendar year of the first projection year (default: this year)")
}

func applySimulationFlags(cmd *cobra.Command, s *domain.SimulationSettings) error {
	flags := cmd.Flags()
	for name, dst := range map[string]*int{
		"iterations": &s.Iterations,
		"bins":       &s.Bins,
		"workers":    &s.Workers,
		"base-year":  &s.BaseYear,
	} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	if flags.Changed("seed") {
		seed, err := flags.GetUint64("seed")
		if err != nil {
			return err
		}
		s.Seed = seed
	}
	return nil
}

func newEngine(cmd *cobra.Command, settings domain.SimulationSettings) *calculation.Engine {
	engine := calculation.NewEngineWithSettings(settings)
	debugMode, _ := cmd.Flags().GetBool("debug")
	engine.SetLogger(newLogger(cmd.ErrOrStderr(), debugMode))
	return engine
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
