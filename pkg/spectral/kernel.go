package spectral

import (
	log "github.com/sirupsen/logrus"
)

// Kernel evaluates the rendering kernel for one fixed spectral index and
// returns a scalar or small fixed-size vector result (e.g. per-direction
// radiance). All results of one plan must share the same length.
//
// Kernel evaluations are embarrassingly parallel: each index reads only
// immutable shared inputs. The engine does not mandate a scheduling model;
// Evaluate below is the simple sequential driver, and callers running their
// own worker pools only need to fill a Results map keyed by Index.
type Kernel func(idx Index) ([]float64, error)

// Results collects kernel outputs keyed by spectral index identity, so
// out-of-order or concurrent completion does not corrupt aggregation.
type Results map[Index][]float64

// Evaluate runs the kernel sequentially over all indexes of a plan. Failed
// evaluations are logged and left out of the result map; the aggregation
// failure policy decides whether they abort the measurement.
func Evaluate(plan *Plan, kernel Kernel) Results {
	results := make(Results, len(plan.Indexes))

	for _, idx := range plan.Indexes {
		value, err := kernel(idx)
		if err != nil {
			log.Warnf("Run %s: kernel evaluation failed for index %v: %v", plan.RunID, idx, err)
			continue
		}
		results[idx] = value
	}

	return results
}
