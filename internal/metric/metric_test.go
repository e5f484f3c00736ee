package metric_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/sysmond/internal/metric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesZeroValue(t *testing.T) {
	var s metric.Series[float64]

	_, ok := s.Current()
	assert.False(t, ok, "Expected no current value on a fresh series")
	_, ok = s.SessionMin()
	assert.False(t, ok)
	_, ok = s.SessionMax()
	assert.False(t, ok)
	assert.Zero(t, s.Len())
	assert.Nil(t, s.Export(time.Now()))
}

func TestSeriesFirstUpdateSeedsBounds(t *testing.T) {
	var s metric.Series[float64]

	s.Update(42.5)

	current, ok := s.Current()
	require.True(t, ok)
	assert.InDelta(t, 42.5, current, 0.0001)

	minValue, ok := s.SessionMin()
	require.True(t, ok)
	assert.InDelta(t, 42.5, minValue, 0.0001)

	maxValue, ok := s.SessionMax()
	require.True(t, ok)
	assert.InDelta(t, 42.5, maxValue, 0.0001)

	assert.Equal(t, 1, s.Len())
}

func TestSeriesBoundsTighten(t *testing.T) {
	var s metric.Series[float64]

	for _, v := range []float64{50, 30, 80, 60} {
		s.Update(v)
	}

	current, _ := s.Current()
	minValue, _ := s.SessionMin()
	maxValue, _ := s.SessionMax()

	assert.InDelta(t, 60.0, current, 0.0001)
	assert.InDelta(t, 30.0, minValue, 0.0001)
	assert.InDelta(t, 80.0, maxValue, 0.0001)
	assert.Equal(t, 4, s.Len())
}

func TestSeriesBoundsInvariant(t *testing.T) {
	var s metric.Series[uint32]

	values := []uint32{1500, 900, 2100, 1800, 600, 3000}
	for _, v := range values {
		s.Update(v)

		current, _ := s.Current()
		minValue, _ := s.SessionMin()
		maxValue, _ := s.SessionMax()
		assert.LessOrEqual(t, minValue, current)
		assert.LessOrEqual(t, current, maxValue)
	}
}

func TestSeriesBoolOrdering(t *testing.T) {
	var s metric.Series[bool]

	s.Update(true)
	s.Update(false)
	s.Update(true)

	minValue, ok := s.SessionMin()
	require.True(t, ok)
	assert.False(t, minValue, "Expected false as session minimum")

	maxValue, ok := s.SessionMax()
	require.True(t, ok)
	assert.True(t, maxValue, "Expected true as session maximum")
}

func TestSeriesHistoryOrder(t *testing.T) {
	var s metric.Series[float64]

	origin := time.Now()
	for i := 0; i < 5; i++ {
		s.UpdateAt(origin.Add(time.Duration(i)*time.Second), float64(i*10))
	}

	history := s.History()
	require.Len(t, history, 5)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp.Before(history[i-1].Timestamp),
			"History must stay in insertion order")
	}
	assert.InDelta(t, 40.0, history[4].Value, 0.0001)
}

func TestSeriesExport(t *testing.T) {
	var s metric.Series[uint64]

	origin := time.Now()
	s.UpdateAt(origin.Add(1500*time.Millisecond), 2048)
	s.UpdateAt(origin.Add(2*time.Second), 4096)

	points := s.Export(origin)
	require.Len(t, points, 2)

	assert.InDelta(t, 1.5, points[0].Time, 0.0001, "Expected fractional seconds since origin")
	assert.InDelta(t, 2048.0, points[0].Value, 0.0001)
	assert.InDelta(t, 2.0, points[1].Time, 0.0001)
	assert.InDelta(t, 4096.0, points[1].Value, 0.0001)
}

func TestSeriesExportIdempotent(t *testing.T) {
	var s metric.Series[float64]

	origin := time.Now()
	s.UpdateAt(origin.Add(time.Second), 10)
	s.UpdateAt(origin.Add(2*time.Second), 20)

	first := s.Export(origin)
	second := s.Export(origin)

	assert.Equal(t, first, second, "Export must not mutate the series")
	assert.Equal(t, 2, s.Len())
}

func TestFloat64Projection(t *testing.T) {
	assert.InDelta(t, 1.0, metric.Float64(true), 0.0001)
	assert.InDelta(t, 0.0, metric.Float64(false), 0.0001)
	assert.InDelta(t, 7.0, metric.Float64(uint32(7)), 0.0001)
	assert.InDelta(t, 9.5, metric.Float64(9.5), 0.0001)
	assert.InDelta(t, 3.0, metric.Float64(uint64(3)), 0.0001)
}
