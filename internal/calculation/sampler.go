package calculation

import (
	"math"
	"math/rand/v2"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a PCG-backed source. Distinct stream values give
// independent, non-overlapping sequences for the same seed.
func NewRandomSource(seed, stream uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, stream))
}

// SequenceSource replays a fixed list of uniforms, wrapping at the end.
type SequenceSource struct {
	values []float64
	next   int
}

// NewSequenceSource creates a source that cycles through values.
func NewSequenceSource(values ...float64) *SequenceSource {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	return &SequenceSource{values: values}
}

// Float64 returns the next value in the sequence.
func (s *SequenceSource) Float64() float64 {
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}

// ReturnSampler draws Normal annual returns from a RandomSource. It is not
// safe for concurrent use; give each goroutine its own sampler.
type ReturnSampler struct {
	src RandomSource
}

// NewReturnSampler wraps src.
func NewReturnSampler(src RandomSource) *ReturnSampler {
	return &ReturnSampler{src: src}
}

// SampleAnnualReturn draws one return from Normal(mean/100, stdDev/100) using
// the Box-Muller transform. Both arguments are percentages; the result is a
// fraction (0.092 for 9.2%).
func (s *ReturnSampler) SampleAnnualReturn(meanPercent, stdDevPercent float64) float64 {
	u1 := s.src.Float64()
	for u1 == 0 {
		u1 = s.src.Float64()
	}
	u2 := s.src.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return meanPercent/100 + stdDevPercent/100*z
}

// SampleAnnualReturnSequence draws years independent returns.
func (s *ReturnSampler) SampleAnnualReturnSequence(years int, meanPercent, stdDevPercent float64) []float64 {
	if years <= 0 {
		return []float64{}
	}
	seq := make([]float64, years)
	for i := range seq {
		seq[i] = s.SampleAnnualReturn(meanPercent, stdDevPercent)
	}
	return seq
}
