package srf

import (
	"fmt"
	"math"
	"os"

	"github.com/gocarina/gocsv"
)

type bandRecord struct {
	Wavelength float64 `csv:"wavelength"`
	Value      float64 `csv:"value"`
}

// LoadBand reads a tabulated band response from a CSV file with
// "wavelength,value" columns.
func LoadBand(path string) (*Band, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open response function dataset: %w", err)
	}
	defer f.Close()

	var records []bandRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("failed to parse response function dataset %s: %w", path, err)
	}

	wavelengths := make([]float64, len(records))
	values := make([]float64, len(records))
	for i, r := range records {
		wavelengths[i] = r.Wavelength
		values[i] = r.Value
	}

	return NewBand(wavelengths, values)
}

// SaveBand writes a tabulated band response to a CSV file in the format
// accepted by LoadBand.
func SaveBand(b *Band, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	wavelengths := b.Wavelengths()
	values := b.Values()
	records := make([]bandRecord, len(wavelengths))
	for i := range wavelengths {
		records[i] = bandRecord{Wavelength: wavelengths[i], Value: values[i]}
	}

	return gocsv.MarshalFile(&records, f)
}

// MakeGaussian synthesizes a band response with a Gaussian profile from its
// central wavelength and full width at half maximum. The profile is sampled
// on a regular mesh with the given resolution, cut off at the given multiple
// of the standard deviation, normalized to a peak value of 1, and padded
// with one zero sample on each side.
func MakeGaussian(center, fwhm, cutoff, resolution float64) (*Band, error) {
	if fwhm <= 0 {
		return nil, fmt.Errorf("fwhm must be positive, got %g", fwhm)
	}
	if cutoff <= 0 {
		return nil, fmt.Errorf("cutoff must be positive, got %g", cutoff)
	}
	if resolution <= 0 {
		return nil, fmt.Errorf("resolution must be positive, got %g", resolution)
	}

	sigma := 0.5 * fwhm / math.Sqrt(2.0*math.Log(2.0))
	wmin := center - cutoff*sigma
	wmax := center + cutoff*sigma

	wavelengths := []float64{wmin - resolution}
	values := []float64{0}
	for w := wmin; w <= wmax+0.5*resolution; w += resolution {
		wavelengths = append(wavelengths, w)
		values = append(values, math.Exp(-0.5*math.Pow((w-center)/sigma, 2)))
	}
	wavelengths = append(wavelengths, wavelengths[len(wavelengths)-1]+resolution)
	values = append(values, 0)

	// Normalize to unit peak
	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	for i := range values {
		values[i] /= peak
	}

	return NewBand(wavelengths, values)
}
