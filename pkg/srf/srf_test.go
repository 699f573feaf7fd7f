package srf

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformEval(t *testing.T) {
	u, err := NewUniform(538, 570, 1)
	assert.NoError(t, err)

	v, err := u.Eval(550)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, v)

	_, err = u.Eval(600)
	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, 600.0, domainErr.Wavelength)
}

func TestUniformSupport(t *testing.T) {
	u, _ := NewUniform(300, 2500, 1)
	support := u.Support()

	assert.Len(t, support, 1)
	assert.Equal(t, Interval{Lower: 300, Upper: 2500}, support[0])
}

func TestMultiDeltaEval(t *testing.T) {
	d, err := NewMultiDelta([]float64{660, 440, 550, 440})
	assert.NoError(t, err)

	// Deduplicated and sorted
	assert.Equal(t, []float64{440, 550, 660}, d.Wavelengths())

	v, err := d.Eval(550)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, v)

	// Evaluation never fails for a multi-delta response
	v, err = d.Eval(551)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestMultiDeltaSupportIsDegenerate(t *testing.T) {
	d, _ := NewMultiDelta([]float64{440, 550})
	support := d.Support()

	assert.Len(t, support, 2)
	for _, iv := range support {
		assert.Equal(t, iv.Lower, iv.Upper)
	}
}

func TestBandEval(t *testing.T) {
	b, err := NewBand(
		[]float64{500, 510, 520, 530},
		[]float64{0, 1, 1, 0},
	)
	assert.NoError(t, err)

	tests := []struct {
		testName   string
		wavelength float64
		expected   float64
	}{
		{testName: "sample_point", wavelength: 510, expected: 1},
		{testName: "rising_edge_midpoint", wavelength: 505, expected: 0.5},
		{testName: "plateau", wavelength: 515, expected: 1},
		{testName: "falling_edge", wavelength: 527.5, expected: 0.25},
		{testName: "support_boundary", wavelength: 500, expected: 0},
	}

	for _, test := range tests {
		t.Run(test.testName, func(t *testing.T) {
			v, err := b.Eval(test.wavelength)
			assert.NoError(t, err)
			assert.InDelta(t, test.expected, v, 1e-12)
		})
	}

	_, err = b.Eval(499.9)
	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
}

func TestBandValidation(t *testing.T) {
	_, err := NewBand([]float64{500}, []float64{1})
	assert.Error(t, err)

	_, err = NewBand([]float64{500, 500}, []float64{0, 0})
	assert.Error(t, err)

	_, err = NewBand([]float64{500, 510}, []float64{0, -1})
	assert.Error(t, err)

	_, err = NewBand([]float64{500, 510, 520}, []float64{0, 1})
	assert.Error(t, err)
}

func TestBandIntegrate(t *testing.T) {
	// Triangle of height 1 over [500, 520]: total area 10
	b, _ := NewBand(
		[]float64{500, 510, 520},
		[]float64{0, 1, 0},
	)

	assert.InDelta(t, 10.0, b.Integrate(500, 520), 1e-12)
	assert.InDelta(t, 5.0, b.Integrate(500, 510), 1e-12)
	// Bounds beyond the support contribute nothing
	assert.InDelta(t, 10.0, b.Integrate(490, 530), 1e-12)
}

func TestBandIntegrateCumulative(t *testing.T) {
	b, _ := NewBand(
		[]float64{500, 510, 520},
		[]float64{0, 1, 0},
	)

	cumulative := b.IntegrateCumulative([]float64{500, 510, 520})
	assert.Len(t, cumulative, 2)
	assert.InDelta(t, 5.0, cumulative[0], 1e-12)
	assert.InDelta(t, 10.0, cumulative[1], 1e-12)
}

func TestMakeGaussian(t *testing.T) {
	b, err := MakeGaussian(550, 10, 3, 0.5)
	assert.NoError(t, err)

	wavelengths := b.Wavelengths()
	values := b.Values()

	// Zero-padded on both sides
	assert.Equal(t, 0.0, values[0])
	assert.Equal(t, 0.0, values[len(values)-1])

	// Unit peak at the central wavelength
	peak := 0.0
	peakW := 0.0
	for i, v := range values {
		if v > peak {
			peak = v
			peakW = wavelengths[i]
		}
	}
	assert.InDelta(t, 1.0, peak, 1e-12)
	assert.InDelta(t, 550.0, peakW, 0.5)

	// Half maximum at center +/- fwhm/2
	v, err := b.Eval(555)
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, v, 0.01)

	if math.IsNaN(peak) {
		t.Error("Gaussian response contains NaN values.")
	}
}
