package srf

import (
	"fmt"

	"gonum.org/v1/gonum/integrate"
)

// DefaultRetention is the fraction of the raw band integral preserved by
// TrimBand when no explicit retention is configured.
const DefaultRetention = 0.999

// TrimBand crops the tails of a band response table while the retained
// integral stays at or above retention times the raw integral, then re-pads
// the cropped table with one zero-weight sample on each side to avoid
// discontinuities.
//
// Tail samples are removed greedily, always from the tail whose outermost
// segment contributes less to the integral; when both tails contribute
// equally, the lower-wavelength tail is cropped first. The result is unique
// for a given table and retention.
func TrimBand(b *Band, retention float64) (*Band, error) {
	if retention <= 0 || retention > 1 {
		return nil, fmt.Errorf("retention must be within ]0, 1], got %g", retention)
	}

	w := b.Wavelengths()
	v := b.Values()

	raw := integrate.Trapezoidal(w, v)
	if raw <= 0 {
		return nil, fmt.Errorf("band response has zero integral, cannot trim")
	}

	lo, hi := 0, len(w)-1
	kept := raw

	segment := func(i int) float64 {
		return 0.5 * (v[i] + v[i+1]) * (w[i+1] - w[i])
	}

	for hi-lo >= 2 {
		left := segment(lo)
		right := segment(hi - 1)

		// Dropping the smaller contribution is always attempted first; if
		// it already violates the retention target, so does the other side.
		if left <= right {
			if kept-left < retention*raw {
				break
			}
			kept -= left
			lo++
		} else {
			if kept-right < retention*raw {
				break
			}
			kept -= right
			hi--
		}
	}

	// Re-pad with one zero sample immediately outside each new boundary.
	// When a sample was cropped on a side, its position is reused; an
	// uncropped side is extended by the width of its outermost segment.
	var padLo, padHi float64
	if lo > 0 {
		padLo = w[lo-1]
	} else {
		padLo = w[0] - (w[1] - w[0])
	}
	if hi < len(w)-1 {
		padHi = w[hi+1]
	} else {
		padHi = w[len(w)-1] + (w[len(w)-1] - w[len(w)-2])
	}

	trimmedW := append([]float64{padLo}, w[lo:hi+1]...)
	trimmedW = append(trimmedW, padHi)
	trimmedV := append([]float64{0}, v[lo:hi+1]...)
	trimmedV = append(trimmedV, 0)

	return NewBand(trimmedW, trimmedV)
}
