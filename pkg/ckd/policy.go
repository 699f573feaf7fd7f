package ckd

import (
	"fmt"
	"math"
)

// DefaultErrorTarget is the transmittance error target used by the minimum
// error policy when no explicit target is configured.
const DefaultErrorTarget = 1e-3

// SaturationWarning records that an error-driven policy exhausted a bin's
// maximum node count before reaching its target. It is non-fatal: the
// resolved quadrature proceeds with the maximum node count and the achieved
// error is attached to the result metadata.
type SaturationWarning struct {
	BinID     string
	NodeCount int
	Target    float64
	Achieved  float64
}

func (w *SaturationWarning) String() string {
	return fmt.Sprintf("bin %s: error target %g not reached with %d nodes, achieved %g",
		w.BinID, w.Target, w.NodeCount, w.Achieved)
}

// Policy decides how many quadrature nodes a bin receives.
type Policy interface {
	// NodeCount returns the resolved node count for the given bin table,
	// the achieved transmittance error estimate (NaN when the table carries
	// no error curve), and whether an error target was left unmet.
	NodeCount(t *BinTable) (n int, achieved float64, saturated bool)
}

// FixedPolicy always requests the configured node count, capped at the
// bin's maximum and rounded up to the nearest node count the table was
// actually precomputed for. Rounding up, never down, avoids under-resolving
// the bin.
type FixedPolicy struct {
	N int
}

func (p FixedPolicy) NodeCount(t *BinTable) (int, float64, bool) {
	n := roundUpAvailable(t, minInt(p.N, t.NGMax))
	return n, errorAt(t, n), false
}

// MinErrorPolicy grows the node count from 1 until the tabulated
// transmittance error estimate falls at or below the target, or the bin's
// maximum node count is reached.
type MinErrorPolicy struct {
	Target float64
}

func (p MinErrorPolicy) NodeCount(t *BinTable) (int, float64, bool) {
	target := p.Target
	if target <= 0 {
		target = DefaultErrorTarget
	}
	return searchNodeCount(t, target)
}

// ErrorThresholdPolicy performs the same search as MinErrorPolicy against an
// explicit user-supplied error threshold.
type ErrorThresholdPolicy struct {
	Threshold float64
}

func (p ErrorThresholdPolicy) NodeCount(t *BinTable) (int, float64, bool) {
	return searchNodeCount(t, p.Threshold)
}

func searchNodeCount(t *BinTable, target float64) (int, float64, bool) {
	if len(t.ErrorCurve) == 0 {
		// No error information: the maximum node count is the only safe pick
		return roundUpAvailable(t, t.NGMax), math.NaN(), false
	}

	for n := 1; n <= t.NGMax && n <= len(t.ErrorCurve); n++ {
		if t.ErrorCurve[n-1] <= target {
			n = roundUpAvailable(t, n)
			return n, errorAt(t, n), false
		}
	}

	n := roundUpAvailable(t, t.NGMax)
	return n, errorAt(t, n), true
}

// roundUpAvailable maps a requested node count to the nearest precomputed
// node count at or above it, falling back to the largest one available.
func roundUpAvailable(t *BinTable, n int) int {
	if len(t.Available) == 0 {
		return n
	}

	for _, a := range t.Available {
		if a >= n {
			return a
		}
	}

	return t.Available[len(t.Available)-1]
}

func errorAt(t *BinTable, n int) float64 {
	if n < 1 || n > len(t.ErrorCurve) {
		return math.NaN()
	}
	return t.ErrorCurve[n-1]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
