package metric

// Point is one exported plot sample: elapsed seconds since the session
// origin and the projected value.
type Point struct {
	Time  float64
	Value float64
}

// ValueAt answers "what was the value at time t" against a sparse series
// sorted ascending by time (Export output qualifies). Between two samples
// the value is linearly interpolated; beyond either end the nearest
// sample's value is used unchanged. The second return is false only for
// an empty series.
func ValueAt(points []Point, t float64) (float64, bool) {
	if len(points) == 0 {
		return 0, false
	}

	before := -1
	after := -1
	for i, p := range points {
		if p.Time <= t {
			before = i
		}
		if p.Time >= t && after < 0 {
			after = i
			break
		}
	}

	switch {
	case before >= 0 && after >= 0 && before == after:
		return points[before].Value, true
	case before >= 0 && after >= 0:
		t1, v1 := points[before].Time, points[before].Value
		t2, v2 := points[after].Time, points[after].Value
		if t2 == t1 {
			// Duplicate timestamps; avoid dividing by zero.
			return v1, true
		}
		ratio := (t - t1) / (t2 - t1)
		return v1 + ratio*(v2-v1), true
	case before >= 0:
		return points[before].Value, true
	default:
		return points[after].Value, true
	}
}
