package srf

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/integrate"
)

// Band is the tabulated response function of a single instrument band,
// interpolated linearly between samples.
type Band struct {
	wavelengths []float64
	values      []float64
}

func NewBand(wavelengths, values []float64) (*Band, error) {
	if len(wavelengths) < 2 {
		return nil, fmt.Errorf("band response requires at least 2 samples, got %d", len(wavelengths))
	}
	if len(wavelengths) != len(values) {
		return nil, fmt.Errorf("band response sample count mismatch: %d wavelengths, %d values", len(wavelengths), len(values))
	}

	for i := 1; i < len(wavelengths); i++ {
		if wavelengths[i] <= wavelengths[i-1] {
			return nil, fmt.Errorf("band response wavelengths must be strictly increasing at index %d", i)
		}
	}
	for i, v := range values {
		if v < 0 {
			return nil, fmt.Errorf("negative band response value %g at index %d", v, i)
		}
	}

	if values[0] != 0 || values[len(values)-1] != 0 {
		log.Warn("Band response table has no leading and trailing zero; consider trimming with padding.")
	}

	b := &Band{
		wavelengths: make([]float64, len(wavelengths)),
		values:      make([]float64, len(values)),
	}
	copy(b.wavelengths, wavelengths)
	copy(b.values, values)

	return b, nil
}

func (b *Band) Wavelengths() []float64 {
	result := make([]float64, len(b.wavelengths))
	copy(result, b.wavelengths)
	return result
}

func (b *Band) Values() []float64 {
	result := make([]float64, len(b.values))
	copy(result, b.values)
	return result
}

func (b *Band) Support() []Interval {
	return []Interval{{Lower: b.wavelengths[0], Upper: b.wavelengths[len(b.wavelengths)-1]}}
}

func (b *Band) Eval(w float64) (float64, error) {
	if w < b.wavelengths[0] || w > b.wavelengths[len(b.wavelengths)-1] {
		return 0, &DomainError{Wavelength: w, Support: b.Support()}
	}
	return b.interpolate(w), nil
}

// evalClamped is the zero-extended evaluation used by the integration
// helpers, which build meshes that may exceed the table bounds.
func (b *Band) evalClamped(w float64) float64 {
	if w < b.wavelengths[0] || w > b.wavelengths[len(b.wavelengths)-1] {
		return 0
	}
	return b.interpolate(w)
}

func (b *Band) interpolate(w float64) float64 {
	i := sort.SearchFloat64s(b.wavelengths, w)
	if i < len(b.wavelengths) && b.wavelengths[i] == w {
		return b.values[i]
	}

	// SearchFloat64s returned the upper segment bound
	w0, w1 := b.wavelengths[i-1], b.wavelengths[i]
	v0, v1 := b.values[i-1], b.values[i]
	return v0 + (v1-v0)*(w-w0)/(w1-w0)
}

// Integrate returns the trapezoid-rule integral of the response on
// [wmin, wmax]. The integration mesh merges the interval bounds with the
// table samples they enclose.
func (b *Band) Integrate(wmin, wmax float64) float64 {
	mesh := []float64{wmin}
	for _, w := range b.wavelengths {
		if w > wmin && w < wmax {
			mesh = append(mesh, w)
		}
	}
	mesh = append(mesh, wmax)

	values := make([]float64, len(mesh))
	for i, w := range mesh {
		values[i] = b.evalClamped(w)
	}

	return integrate.Trapezoidal(mesh, values)
}

// IntegrateCumulative returns the cumulative trapezoid-rule integral of the
// response on the given mesh. The result has length len(mesh)-1.
func (b *Band) IntegrateCumulative(mesh []float64) []float64 {
	result := make([]float64, len(mesh)-1)

	sum := 0.0
	for i := 1; i < len(mesh); i++ {
		sum += 0.5 * (b.evalClamped(mesh[i-1]) + b.evalClamped(mesh[i])) * (mesh[i] - mesh[i-1])
		result[i-1] = sum
	}

	return result
}
