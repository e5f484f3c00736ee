// Package metric provides the generic time-series container backing every
// telemetry channel: last sample, session min/max and the full session
// history in insertion order.
package metric

import "time"

// Value constrains the sample types a channel may carry. Ordering for
// min/max tracking is defined through Float64, which coincides with the
// natural ordering of each type (false < true for bools).
type Value interface {
	~bool | ~int | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Sample is one timestamped history entry.
type Sample[T Value] struct {
	Timestamp time.Time
	Value     T
}

// Series tracks a single channel for the lifetime of a session. The zero
// value is ready to use: no current value, no bounds, empty history.
type Series[T Value] struct {
	current    T
	sessionMin T
	sessionMax T
	seeded     bool
	history    []Sample[T]
}

// Update records value with the current wall-clock timestamp.
func (s *Series[T]) Update(value T) {
	s.UpdateAt(time.Now(), value)
}

// UpdateAt records value with a caller-supplied timestamp. The first call
// seeds the session bounds; later calls tighten them by pairwise
// comparison. History is append-only, so insertion order is chronological
// as long as callers supply non-decreasing timestamps. Duplicate
// timestamps are retained.
func (s *Series[T]) UpdateAt(ts time.Time, value T) {
	s.current = value

	if !s.seeded {
		s.sessionMin = value
		s.sessionMax = value
		s.seeded = true
	} else {
		if less(value, s.sessionMin) {
			s.sessionMin = value
		}
		if less(s.sessionMax, value) {
			s.sessionMax = value
		}
	}

	s.history = append(s.history, Sample[T]{Timestamp: ts, Value: value})
}

// Current returns the last recorded sample, if any.
func (s *Series[T]) Current() (T, bool) {
	return s.current, s.seeded
}

// SessionMin returns the smallest sample recorded this session, if any.
func (s *Series[T]) SessionMin() (T, bool) {
	return s.sessionMin, s.seeded
}

// SessionMax returns the largest sample recorded this session, if any.
func (s *Series[T]) SessionMax() (T, bool) {
	return s.sessionMax, s.seeded
}

// Len returns the number of history entries.
func (s *Series[T]) Len() int {
	return len(s.history)
}

// History returns the underlying history slice. Callers must not mutate
// it and must hold at least read access to the owning state while using it.
func (s *Series[T]) History() []Sample[T] {
	return s.history
}

// Export maps the history into plottable points: elapsed fractional
// seconds since origin against the float64 projection of each value. An
// empty series exports an empty (nil) slice.
func (s *Series[T]) Export(origin time.Time) []Point {
	if len(s.history) == 0 {
		return nil
	}

	points := make([]Point, 0, len(s.history))
	for _, sample := range s.history {
		points = append(points, Point{
			Time:  sample.Timestamp.Sub(origin).Seconds(),
			Value: Float64(sample.Value),
		})
	}

	return points
}

// Float64 projects a sample value onto the plotting axis. Booleans map to
// 1.0 and 0.0.
func Float64[T Value](value T) float64 {
	switch v := any(value).(type) {
	case bool:
		if v {
			return 1.0
		}
		return 0.0
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	default:
		return 0.0
	}
}

func less[T Value](a, b T) bool {
	return Float64(a) < Float64(b)
}
