package calculation

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

func volatilePlan() *domain.PlanParameters {
	params := zeroVariancePlan()
	for i := range params.Accounts {
		params.Accounts[i].Config.StdDev = 15
	}
	return params
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine()

	assert.NotNil(t, engine, "Should create engine")
	assert.Equal(t, domain.DefaultIterations, engine.Iterations)
	assert.Equal(t, domain.DefaultBins, engine.Bins)
	assert.Equal(t, 1, engine.Workers)
	assert.NotNil(t, engine.Logger, "Should initialize logger")
	assert.NotNil(t, engine.SourceFactory)
}

func TestEngine_SetLogger(t *testing.T) {
	engine := NewEngine()

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	engine.SetLogger(nil)
	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestEngine_RunZeroVariance(t *testing.T) {
	engine := NewEngineWithSettings(domain.SimulationSettings{Iterations: 200, Bins: 20, Seed: 9, BaseYear: 2026})
	logger := &TestLogger{}
	engine.SetLogger(logger)
	params := zeroVariancePlan()

	result, err := engine.Run(context.Background(), params)
	require.NoError(t, err)

	require.Len(t, result.Projection, params.Years())
	assert.Equal(t, 2026, result.Projection[0].CalendarYear)
	for _, v := range result.AverageReturns[domain.AccountHSA] {
		assert.Equal(t, 9.2/100, v)
	}
	require.Len(t, result.Distribution.PeakDistribution, 1)
	assert.Equal(t, 100.0, result.Distribution.PeakDistribution[0].PercentageOfTrials)
	assert.NotSame(t, params, result.Plan, "result keeps its own copy of the plan")
	assert.NotEmpty(t, logger.messages)
}

func TestEngine_FixedSeedIsReproducible(t *testing.T) {
	settings := domain.SimulationSettings{Iterations: 300, Bins: 25, Seed: 1234, BaseYear: 2026}
	params := volatilePlan()

	a, err := NewEngineWithSettings(settings).Run(context.Background(), params)
	require.NoError(t, err)
	b, err := NewEngineWithSettings(settings).Run(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, a.Projection, b.Projection)
	assert.Equal(t, a.Distribution, b.Distribution)
}

func TestEngine_UnseededRunsDiffer(t *testing.T) {
	SetSeedFunc(func() uint64 { return 77 })
	defer SetSeedFunc(func() uint64 { return uint64(time.Now().UnixNano()) })

	engine := NewEngineWithSettings(domain.SimulationSettings{Iterations: 50, Bins: 10})
	params := volatilePlan()

	a, err := engine.SimulateDistribution(context.Background(), params)
	require.NoError(t, err)
	b, err := engine.SimulateDistribution(context.Background(), params)
	require.NoError(t, err)

	assert.NotEqual(t, a.MedianPeak, b.MedianPeak, "each call draws fresh randomness")
}

func TestEngine_ParallelWorkers(t *testing.T) {
	engine := NewEngineWithSettings(domain.SimulationSettings{Iterations: 1001, Bins: 30, Seed: 5, Workers: 4})
	params := volatilePlan()

	dist, err := engine.SimulateDistribution(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 1001, dist.Trials)
	assert.InDelta(t, 100, sumPercent(dist.PeakDistribution), 1e-9)

	again, err := engine.SimulateDistribution(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, dist, again, "worker merge order is deterministic")

	avg, err := engine.EstimateAverageReturns(context.Background(), zeroVariancePlan())
	require.NoError(t, err)
	for _, v := range avg[domain.AccountRealEstate] {
		assert.Equal(t, 4.0/100, v, "merged partial means stay exact")
	}
}

func TestEngine_WorkerStreamsAreDistinct(t *testing.T) {
	var streams streamRecorder
	engine := NewEngineWithSettings(domain.SimulationSettings{Iterations: 8, Bins: 5, Seed: 3, Workers: 4})
	engine.SourceFactory = func(seed, stream uint64) RandomSource {
		streams.add(stream)
		return NewRandomSource(seed, stream)
	}

	_, err := engine.Run(context.Background(), volatilePlan())
	require.NoError(t, err)
	assert.Equal(t, int32(8), streams.count.Load(), "4 estimator + 4 simulator streams")
	assert.Len(t, streams.seen(), 8)
}

func TestEngine_SplitCapsWorkers(t *testing.T) {
	engine := &Engine{Workers: 8}
	assert.Equal(t, []int{1, 1, 1}, engine.split(3))

	engine.Workers = 3
	assert.Equal(t, []int{4, 3, 3}, engine.split(10))

	engine.Workers = 0
	assert.Equal(t, []int{10}, engine.split(10))
}

func TestEngine_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		engine := NewEngineWithSettings(domain.SimulationSettings{Iterations: 100, Workers: workers, Seed: 1})
		_, err := engine.Run(ctx, volatilePlan())
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestEngine_DefaultBaseYear(t *testing.T) {
	SetNowFunc(func() time.Time { return time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC) })
	defer SetNowFunc(time.Now)

	engine := NewEngineWithSettings(domain.SimulationSettings{Iterations: 5, Seed: 2})
	proj, err := engine.BuildProjection(context.Background(), zeroVariancePlan())
	require.NoError(t, err)
	assert.Equal(t, 2031, proj[0].CalendarYear)
}

// streamRecorder records stream ids handed to a SourceFactory from several goroutines.
type streamRecorder struct {
	count atomic.Int32
	ids   [16]atomic.Uint64
}

func (s *streamRecorder) add(id uint64) {
	n := s.count.Add(1)
	s.ids[n-1].Store(id)
}

func (s *streamRecorder) seen() map[uint64]bool {
	out := map[uint64]bool{}
	for i := int32(0); i < s.count.Load(); i++ {
		out[s.ids[i].Load()] = true
	}
	return out
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}
