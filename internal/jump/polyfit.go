package jump

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// minCurvature is the smallest |A| for which a quadratic has a usable vertex.
const minCurvature = 1e-9

// maxFitCondition rejects least-squares systems too ill-conditioned to trust.
const maxFitCondition = 1e12

// Linear is y = Slope·t + Intercept.
type Linear struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at t.
func (l Linear) At(t float64) float64 {
	return l.Slope*t + l.Intercept
}

// Quadratic is y = A·t² + B·t + C with t in frame indices.
type Quadratic struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// At evaluates the quadratic at t.
func (q Quadratic) At(t float64) float64 {
	return (q.A*t+q.B)*t + q.C
}

// Vertex returns the abscissa of the turning point, -B/2A.
func (q Quadratic) Vertex() (float64, error) {
	if math.Abs(q.A) < minCurvature || math.IsNaN(q.A) {
		return 0, fmt.Errorf("%w: leading coefficient %g", ErrDegenerateFit, q.A)
	}
	return -q.B / (2 * q.A), nil
}

// polyFit is a least-squares polynomial. coeffs are for the raw abscissa,
// highest degree first.
type polyFit struct {
	coeffs []float64
	sse    float64
}

func (p polyFit) linear() Linear {
	return Linear{Slope: p.coeffs[0], Intercept: p.coeffs[1]}
}

func (p polyFit) quadratic() Quadratic {
	return Quadratic{A: p.coeffs[0], B: p.coeffs[1], C: p.coeffs[2]}
}

// fitPolynomial solves the least-squares polynomial of the given degree
// through (t, y) by QR on a centred, scaled abscissa and maps the result
// back to raw t. Fewer than degree+1 points, a constant abscissa, or an
// ill-conditioned system are reported as ErrDegenerateFit.
func fitPolynomial(t, y []float64, degree int) (polyFit, error) {
	n := len(t)
	if n != len(y) {
		return polyFit{}, fmt.Errorf("fit: %d abscissae for %d values", n, len(y))
	}
	if n < degree+1 {
		return polyFit{}, fmt.Errorf("%w: %d points for degree %d", ErrDegenerateFit, n, degree)
	}

	centre := stat.Mean(t, nil)
	scale := math.Max(floats.Max(t)-centre, centre-floats.Min(t))
	if scale == 0 {
		if degree > 0 {
			return polyFit{}, fmt.Errorf("%w: constant abscissa", ErrDegenerateFit)
		}
		scale = 1
	}

	cols := degree + 1
	design := mat.NewDense(n, cols, nil)
	for i, ti := range t {
		s := (ti - centre) / scale
		p := 1.0
		for j := degree; j >= 0; j-- {
			design.Set(i, j, p)
			p *= s
		}
	}

	var qr mat.QR
	qr.Factorize(design)
	if c := qr.Cond(); c > maxFitCondition || math.IsNaN(c) {
		return polyFit{}, fmt.Errorf("%w: condition number %g", ErrDegenerateFit, c)
	}

	var x mat.VecDense
	if err := qr.SolveVecTo(&x, false, mat.NewVecDense(n, append([]float64(nil), y...))); err != nil {
		return polyFit{}, fmt.Errorf("%w: %v", ErrDegenerateFit, err)
	}

	var pred mat.VecDense
	pred.MulVec(design, &x)
	resid := make([]float64, n)
	floats.SubTo(resid, pred.RawVector().Data, y)

	// x holds scaled coefficients, highest first.
	scaled := make([]float64, cols)
	for k := 0; k < cols; k++ {
		scaled[k] = x.AtVec(degree - k)
	}

	return polyFit{
		coeffs: unscaleCoefficients(scaled, centre, scale),
		sse:    floats.Dot(resid, resid),
	}, nil
}

// unscaleCoefficients converts ascending coefficients of s = (t-centre)/scale
// into descending coefficients of t.
func unscaleCoefficients(q []float64, centre, scale float64) []float64 {
	deg := len(q) - 1
	raw := make([]float64, len(q)) // ascending in t
	for k, qk := range q {
		if qk == 0 {
			continue
		}
		f := qk / math.Pow(scale, float64(k))
		for j := 0; j <= k; j++ {
			raw[j] += f * binomial(k, j) * math.Pow(-centre, float64(k-j))
		}
	}
	out := make([]float64, len(raw))
	for j := range raw {
		out[deg-j] = raw[j]
	}
	return out
}

func binomial(n, k int) float64 {
	r := 1.0
	for i := 1; i <= k; i++ {
		r = r * float64(n-k+i) / float64(i)
	}
	return r
}

// trimOutliers drops points farther than k population standard deviations
// from the mean of y. It returns the inputs unchanged when k is not
// positive, when nothing is trimmed, or when trimming would leave fewer
// than minKeep points.
func trimOutliers(t, y []float64, k float64, minKeep int) ([]float64, []float64) {
	if k <= 0 || len(y) == 0 {
		return t, y
	}
	mean, variance := stat.PopMeanVariance(y, nil)
	limit := k * math.Sqrt(variance)

	kept := 0
	for _, v := range y {
		if math.Abs(v-mean) <= limit {
			kept++
		}
	}
	if kept == len(y) || kept < minKeep {
		return t, y
	}

	tt := make([]float64, 0, kept)
	yy := make([]float64, 0, kept)
	for i, v := range y {
		if math.Abs(v-mean) <= limit {
			tt = append(tt, t[i])
			yy = append(yy, v)
		}
	}
	return tt, yy
}
