package calculation

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// Stream ids are built as run<<17 | purpose<<16 | worker, so the estimator and
// the simulator never draw from the same stream.
const (
	purposeEstimator uint64 = 0
	purposeSimulator uint64 = 1
	maxWorkers              = 1 << 16
)

// SourceFactory builds the random source for one worker.
type SourceFactory func(seed, stream uint64) RandomSource

// Engine runs projections and distribution simulations. The zero value is not
// usable; create engines with NewEngine or NewEngineWithSettings.
type Engine struct {
	Logger     Logger
	Iterations int
	Bins       int
	// Workers > 1 splits trials across goroutines.
	Workers int
	// Seed 0 draws a fresh seed per call; any other value makes every call
	// with the same parameters reproducible.
	Seed uint64
	// BaseYear 0 means the current year.
	BaseYear int

	SourceFactory SourceFactory

	runs atomic.Uint64
}

// NewEngine creates an engine with the default simulation width.
func NewEngine() *Engine {
	return NewEngineWithSettings(domain.DefaultSimulationSettings())
}

// NewEngineWithSettings creates an engine from simulation settings.
func NewEngineWithSettings(s domain.SimulationSettings) *Engine {
	s = s.WithDefaults()
	return &Engine{
		Logger:        NopLogger{},
		Iterations:    s.Iterations,
		Bins:          s.Bins,
		Workers:       s.Workers,
		Seed:          s.Seed,
		BaseYear:      s.BaseYear,
		SourceFactory: NewRandomSource,
	}
}

// SetLogger sets the logger; nil restores the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Settings reports the engine configuration.
func (e *Engine) Settings() domain.SimulationSettings {
	return domain.SimulationSettings{
		Iterations: e.Iterations,
		Bins:       e.Bins,
		Seed:       e.Seed,
		Workers:    e.Workers,
		BaseYear:   e.BaseYear,
	}
}

func (e *Engine) baseYear() int {
	if e.BaseYear != 0 {
		return e.BaseYear
	}
	return nowFunc().Year()
}

// streams picks the seed and run number for one call.
func (e *Engine) streams() (seed, run uint64) {
	if e.Seed != 0 {
		return e.Seed, 0
	}
	return seedFunc(), e.runs.Add(1)
}

func (e *Engine) sampler(seed, run, purpose uint64, worker int) *ReturnSampler {
	factory := e.SourceFactory
	if factory == nil {
		factory = NewRandomSource
	}
	stream := run<<17 | purpose<<16 | uint64(worker)
	return NewReturnSampler(factory(seed, stream))
}

// split divides iterations across workers; earlier workers take the remainder.
func (e *Engine) split(iterations int) []int {
	workers := e.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if iterations > 0 && workers > iterations {
		workers = iterations
	}
	chunks := make([]int, workers)
	for w := range chunks {
		chunks[w] = iterations / workers
		if w < iterations%workers {
			chunks[w]++
		}
	}
	return chunks
}

func (e *Engine) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

// EstimateAverageReturns runs the average-returns estimator.
func (e *Engine) EstimateAverageReturns(ctx context.Context, params *domain.PlanParameters) (map[string][]float64, error) {
	seed, run := e.streams()
	return e.estimate(ctx, params, seed, run)
}

func (e *Engine) estimate(ctx context.Context, params *domain.PlanParameters, seed, run uint64) (map[string][]float64, error) {
	chunks := e.split(e.Iterations)
	e.logger().Debugf("estimating average returns: %d accounts, %d years, %d iterations, %d workers",
		len(params.Accounts), params.Years(), e.Iterations, len(chunks))

	if len(chunks) == 1 {
		acc, err := accumulateReturns(ctx, params, chunks[0], e.sampler(seed, run, purposeEstimator, 0))
		if err != nil {
			return nil, fmt.Errorf("estimate average returns: %w", err)
		}
		return acc.means, nil
	}

	partials := make([]*returnAccumulator, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for w, n := range chunks {
		g.Go(func() error {
			acc, err := accumulateReturns(gctx, params, n, e.sampler(seed, run, purposeEstimator, w))
			if err != nil {
				return err
			}
			partials[w] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("estimate average returns: %w", err)
	}

	merged := partials[0]
	for _, p := range partials[1:] {
		merged.merge(p)
	}
	return merged.means, nil
}

// BuildProjection estimates average returns and builds the deterministic
// projection from them.
func (e *Engine) BuildProjection(ctx context.Context, params *domain.PlanParameters) ([]domain.ProjectionYear, error) {
	avg, err := e.EstimateAverageReturns(ctx, params)
	if err != nil {
		return nil, err
	}
	return BuildProjection(params, avg, e.baseYear()), nil
}

// SimulateDistribution runs the outcome-distribution simulation.
func (e *Engine) SimulateDistribution(ctx context.Context, params *domain.PlanParameters) (domain.DistributionSummary, error) {
	seed, run := e.streams()
	return e.simulate(ctx, params, seed, run)
}

func (e *Engine) simulate(ctx context.Context, params *domain.PlanParameters, seed, run uint64) (domain.DistributionSummary, error) {
	chunks := e.split(e.Iterations)
	e.logger().Debugf("simulating distribution: %d trials, %d bins, %d workers", e.Iterations, e.Bins, len(chunks))

	if len(chunks) == 1 {
		peaks, mins, err := runTrials(ctx, params, chunks[0], e.sampler(seed, run, purposeSimulator, 0))
		if err != nil {
			return domain.DistributionSummary{}, fmt.Errorf("simulate distribution: %w", err)
		}
		return summarizeTrials(peaks, mins, e.Bins), nil
	}

	peakParts := make([][]float64, len(chunks))
	minParts := make([][]float64, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for w, n := range chunks {
		g.Go(func() error {
			peaks, mins, err := runTrials(gctx, params, n, e.sampler(seed, run, purposeSimulator, w))
			if err != nil {
				return err
			}
			peakParts[w], minParts[w] = peaks, mins
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.DistributionSummary{}, fmt.Errorf("simulate distribution: %w", err)
	}

	var peaks, mins []float64
	for w := range chunks {
		peaks = append(peaks, peakParts[w]...)
		mins = append(mins, minParts[w]...)
	}
	return summarizeTrials(peaks, mins, e.Bins), nil
}

// Run computes the projection and the distribution for params. Input is not
// validated; see config.ValidatePlan.
func (e *Engine) Run(ctx context.Context, params *domain.PlanParameters) (*domain.PlanResult, error) {
	seed, run := e.streams()
	log := e.logger()
	log.Infof("running plan: ages %d/%d/%d, %d accounts", params.CurrentAge, params.RetirementAge, params.LifeExpectancy, len(params.Accounts))

	avg, err := e.estimate(ctx, params, seed, run)
	if err != nil {
		return nil, err
	}
	projection := BuildProjection(params, avg, e.baseYear())

	dist, err := e.simulate(ctx, params, seed, run)
	if err != nil {
		return nil, err
	}
	log.Debugf("plan done: %d projection years, median peak %.0f, median min %.0f", len(projection), dist.MedianPeak, dist.MedianMin)

	return &domain.PlanResult{
		Plan:           params.Clone(),
		Settings:       e.Settings(),
		AverageReturns: avg,
		Projection:     projection,
		Distribution:   dist,
		GeneratedAt:    nowFunc(),
	}, nil
}
