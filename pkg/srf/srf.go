package srf

import (
	"fmt"
	"sort"
)

// Interval is a closed wavelength interval [Lower, Upper]. Degenerate
// intervals (Lower == Upper) are used for delta responses.
type Interval struct {
	Lower float64
	Upper float64
}

func (i Interval) Contains(w float64) bool {
	return w >= i.Lower && w <= i.Upper
}

func (i Interval) Overlaps(lower, upper float64) bool {
	return i.Upper > lower && i.Lower < upper
}

// DomainError reports an evaluation outside the support of a response
// function. Values are never extrapolated or clamped.
type DomainError struct {
	Wavelength float64
	Support    []Interval
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("wavelength %g nm outside of the response function support %v", e.Wavelength, e.Support)
}

// ResponseFunction is the spectral response function of an instrument or a
// synthetic filter.
type ResponseFunction interface {
	// Support returns the sorted, non-overlapping intervals outside of which
	// the function is identically zero.
	Support() []Interval

	// Eval returns the response weight at the given wavelength. Uniform and
	// band responses return a DomainError outside of their support; callers
	// are expected to pre-filter against Support.
	Eval(w float64) (float64, error)
}

// Uniform is a response function with constant value on a preset interval.
type Uniform struct {
	WMin  float64
	WMax  float64
	Value float64
}

func NewUniform(wmin, wmax, value float64) (Uniform, error) {
	if wmin >= wmax {
		return Uniform{}, fmt.Errorf("invalid uniform response interval [%g, %g]", wmin, wmax)
	}
	if value < 0 {
		return Uniform{}, fmt.Errorf("negative uniform response value %g", value)
	}
	return Uniform{WMin: wmin, WMax: wmax, Value: value}, nil
}

func (u Uniform) Support() []Interval {
	return []Interval{{Lower: u.WMin, Upper: u.WMax}}
}

func (u Uniform) Eval(w float64) (float64, error) {
	if w < u.WMin || w > u.WMax {
		return 0, &DomainError{Wavelength: w, Support: u.Support()}
	}
	return u.Value, nil
}

// MultiDelta is a set of idealized infinitesimally narrow responses. Its
// support is a list of degenerate intervals and evaluation never fails:
// wavelengths other than the listed ones map to zero.
type MultiDelta struct {
	wavelengths []float64
}

func NewMultiDelta(wavelengths []float64) (MultiDelta, error) {
	if len(wavelengths) == 0 {
		return MultiDelta{}, fmt.Errorf("no delta wavelengths specified")
	}

	sorted := make([]float64, len(wavelengths))
	copy(sorted, wavelengths)
	sort.Float64s(sorted)

	// Deduplicate in place
	unique := sorted[:1]
	for _, w := range sorted[1:] {
		if w != unique[len(unique)-1] {
			unique = append(unique, w)
		}
	}

	for _, w := range unique {
		if w <= 0 {
			return MultiDelta{}, fmt.Errorf("non-positive delta wavelength %g", w)
		}
	}

	return MultiDelta{wavelengths: unique}, nil
}

func (d MultiDelta) Wavelengths() []float64 {
	result := make([]float64, len(d.wavelengths))
	copy(result, d.wavelengths)
	return result
}

func (d MultiDelta) Support() []Interval {
	result := make([]Interval, len(d.wavelengths))
	for i, w := range d.wavelengths {
		result[i] = Interval{Lower: w, Upper: w}
	}
	return result
}

func (d MultiDelta) Eval(w float64) (float64, error) {
	i := sort.SearchFloat64s(d.wavelengths, w)
	if i < len(d.wavelengths) && d.wavelengths[i] == w {
		return 1, nil
	}
	return 0, nil
}
