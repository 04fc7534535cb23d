package jump

import (
	"fmt"
	"math"
)

// Verdict is the classifier's decision on one interval.
type Verdict struct {
	Accepted bool
	Reason   string
	Midpoint float64
	Vertices []float64
}

// Classifier accepts an interval as a jump when every fitted parabola opens
// upward in image coordinates and its vertex sits within Tolerance frames
// of the interval midpoint.
type Classifier struct {
	MidpointTolerance float64
}

// Classify screens a split against its fitted quadratics, one per landmark.
func (c Classifier) Classify(split Split, fits []Quadratic) Verdict {
	v := Verdict{Midpoint: split.Midpoint()}
	if len(fits) == 0 {
		v.Reason = "no fitted curve"
		return v
	}
	if split.Landing <= split.Launch {
		v.Reason = fmt.Sprintf("landing %d not after launch %d", split.Landing, split.Launch)
		return v
	}

	for i, q := range fits {
		vertex, err := q.Vertex()
		if err != nil {
			v.Reason = fmt.Sprintf("curve %d: %v", i, err)
			return v
		}
		v.Vertices = append(v.Vertices, vertex)

		if q.A <= 0 {
			v.Reason = fmt.Sprintf("curve %d opens downward (a=%.4g)", i, q.A)
			return v
		}
		if off := math.Abs(v.Midpoint - vertex); off > c.MidpointTolerance {
			v.Reason = fmt.Sprintf("curve %d vertex %.1f is %.1f frames from midpoint %.1f", i, vertex, off, v.Midpoint)
			return v
		}
	}

	v.Accepted = true
	return v
}
