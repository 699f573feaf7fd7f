package spectral

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/raysim/spectral/pkg/ckd"
	"github.com/raysim/spectral/pkg/grid"
	"github.com/raysim/spectral/pkg/srf"
)

// FailurePolicy selects how aggregation reacts to indexes whose kernel
// evaluation failed (reported as missing results).
type FailurePolicy int

const (
	// FailFast aborts the whole measurement on the first failed index.
	FailFast FailurePolicy = iota

	// BestEffort drops failed indexes, renormalizes the remaining weights so
	// the aggregate stays a valid weighted mean, and reports the dropped
	// count on the result.
	BestEffort
)

// IndexEvaluationError reports a spectral index whose kernel evaluation
// failed permanently. It is fatal under the FailFast policy.
type IndexEvaluationError struct {
	Index Index
}

func (e *IndexEvaluationError) Error() string {
	return fmt.Sprintf("kernel evaluation failed for spectral index %v", e.Index)
}

// Result is the aggregated spectral estimate of one measurement, with the
// realized per-index weights kept for diagnostic inspection.
type Result struct {
	RunID   string
	Value   []float64
	Weights map[Index]float64

	// Warnings carries the quadrature saturation warnings collected during
	// plan enumeration, so result consumers see the achieved error targets
	// without holding the plan.
	Warnings []*ckd.SaturationWarning

	// Dropped counts the indexes discarded under the BestEffort policy.
	Dropped int
}

// Aggregate folds per-index kernel results into the measurement's spectral
// estimate. In the discrete regime the result is the response-weighted mean
// over all wavelengths; in the binned regime each bin is first reduced with
// its quadrature weights, then bins are combined by response weight at their
// central wavelength. The reduction is keyed by index identity and therefore
// independent of the order results were produced in.
func Aggregate(plan *Plan, results Results, rf srf.ResponseFunction, policy FailurePolicy) (*Result, error) {
	width, err := resultWidth(plan, results)
	if err != nil {
		return nil, err
	}

	if _, ok := plan.Grid.(grid.Binned); ok {
		return aggregateBinned(plan, results, rf, policy, width)
	}
	return aggregateDiscrete(plan, results, rf, policy, width)
}

func aggregateDiscrete(plan *Plan, results Results, rf srf.ResponseFunction, policy FailurePolicy, width int) (*Result, error) {
	num := make([]float64, width)
	den := 0.0
	raw := make(map[Index]float64, len(plan.Indexes))
	dropped := 0

	for _, idx := range plan.Indexes {
		v, ok := results[idx]
		if !ok {
			if policy == FailFast {
				return nil, &IndexEvaluationError{Index: idx}
			}
			dropped++
			continue
		}

		w := responseWeight(rf, idx.Wavelength)
		for j := range num {
			num[j] += w * v[j]
		}
		den += w
		raw[idx] = w
	}

	return finalize(plan, num, den, raw, dropped)
}

func aggregateBinned(plan *Plan, results Results, rf srf.ResponseFunction, policy FailurePolicy, width int) (*Result, error) {
	byBin := make(map[string][]Index, len(plan.Indexes))
	for _, idx := range plan.Indexes {
		byBin[idx.BinID] = append(byBin[idx.BinID], idx)
	}

	num := make([]float64, width)
	den := 0.0
	raw := make(map[Index]float64, len(plan.Indexes))
	dropped := 0

	for _, b := range plan.Grid.(grid.Binned).Bins() {
		// Reduce within the bin using quadrature weights. Renormalizing by
		// the realized weight sum keeps the per-bin estimate a valid
		// weighted mean when nodes were dropped.
		binVal := make([]float64, width)
		wsum := 0.0
		var kept []Index

		for _, idx := range byBin[b.ID] {
			v, ok := results[idx]
			if !ok {
				if policy == FailFast {
					return nil, &IndexEvaluationError{Index: idx}
				}
				dropped++
				continue
			}

			wsum += idx.Weight
			for j := range binVal {
				binVal[j] += idx.Weight * v[j]
			}
			kept = append(kept, idx)
		}

		if wsum == 0 {
			// Every node of the bin was dropped
			continue
		}

		bw := responseWeight(rf, b.Center())
		for j := range num {
			num[j] += bw * binVal[j] / wsum
		}
		den += bw

		for _, idx := range kept {
			raw[idx] = bw * idx.Weight / wsum
		}
	}

	return finalize(plan, num, den, raw, dropped)
}

func finalize(plan *Plan, num []float64, den float64, raw map[Index]float64, dropped int) (*Result, error) {
	if den == 0 {
		return nil, fmt.Errorf("run %s: all response weights are zero, no aggregate can be formed", plan.RunID)
	}

	if dropped > 0 {
		log.Warnf("Run %s: dropped %d spectral indexes, weights renormalized", plan.RunID, dropped)
	}

	value := make([]float64, len(num))
	for j := range num {
		value[j] = num[j] / den
	}

	weights := make(map[Index]float64, len(raw))
	for idx, w := range raw {
		weights[idx] = w / den
	}

	return &Result{
		RunID:    plan.RunID,
		Value:    value,
		Weights:  weights,
		Warnings: plan.Warnings,
		Dropped:  dropped,
	}, nil
}

// responseWeight evaluates the response function at an aggregation
// wavelength. Wavelengths outside the support contribute zero weight: bins
// that straddle a support boundary are kept whole at grid-build time, so
// their centers may fall outside. A multi-delta response weights all of its
// selection targets equally.
func responseWeight(rf srf.ResponseFunction, w float64) float64 {
	if _, ok := rf.(srf.MultiDelta); ok {
		return 1
	}

	for _, iv := range rf.Support() {
		if iv.Contains(w) {
			v, err := rf.Eval(w)
			if err != nil {
				return 0
			}
			return v
		}
	}

	return 0
}

func resultWidth(plan *Plan, results Results) (int, error) {
	width := -1
	for _, idx := range plan.Indexes {
		v, ok := results[idx]
		if !ok {
			continue
		}
		if width < 0 {
			width = len(v)
		} else if len(v) != width {
			return 0, fmt.Errorf("run %s: kernel result length mismatch: got %d, want %d", plan.RunID, len(v), width)
		}
	}

	if width <= 0 {
		return 0, fmt.Errorf("run %s: no kernel results to aggregate", plan.RunID)
	}

	return width, nil
}
