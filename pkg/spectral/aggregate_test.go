package spectral

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raysim/spectral/pkg/ckd"
	"github.com/raysim/spectral/pkg/grid"
	"github.com/raysim/spectral/pkg/quad"
	"github.com/raysim/spectral/pkg/srf"
)

// evaluateAll fills a result map from a wavelength-dependent scalar model.
func evaluateAll(plan *Plan, model func(idx Index) float64) Results {
	results := make(Results, len(plan.Indexes))
	for _, idx := range plan.Indexes {
		results[idx] = []float64{model(idx)}
	}
	return results
}

func TestAggregateDiscreteUniform(t *testing.T) {
	g := grid.NewDiscrete([]float64{540, 550, 560})
	rf, _ := srf.NewUniform(535, 565, 1)

	plan, err := Enumerate(g, nil, nil)
	assert.NoError(t, err)

	results := Results{
		plan.Indexes[0]: {1.0},
		plan.Indexes[1]: {2.0},
		plan.Indexes[2]: {6.0},
	}

	result, err := Aggregate(plan, results, rf, FailFast)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Dropped)
	assert.InDelta(t, 3.0, result.Value[0], 1e-12)

	// Realized weights are normalized
	sum := 0.0
	for _, w := range result.Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestAggregateDiscreteBandWeighting(t *testing.T) {
	g := grid.NewDiscrete([]float64{505, 510, 515})
	rf, err := srf.NewBand(
		[]float64{500, 510, 520},
		[]float64{0, 1, 0},
	)
	assert.NoError(t, err)

	plan, _ := Enumerate(g, nil, nil)
	results := evaluateAll(plan, func(idx Index) float64 { return idx.Wavelength })

	result, err := Aggregate(plan, results, rf, FailFast)
	assert.NoError(t, err)

	// Weights 0.5, 1, 0.5: the estimate is the response-weighted mean
	expected := (0.5*505 + 1*510 + 0.5*515) / 2.0
	assert.InDelta(t, expected, result.Value[0], 1e-12)
}

func TestAggregatePermutationInvariance(t *testing.T) {
	g := grid.NewDiscrete([]float64{500, 510, 520, 530, 540, 550})
	rf, _ := srf.NewUniform(495, 555, 1)

	plan, _ := Enumerate(g, nil, nil)
	results := evaluateAll(plan, func(idx Index) float64 { return idx.Wavelength * 0.01 })

	reference, err := Aggregate(plan, results, rf, FailFast)
	assert.NoError(t, err)

	shuffled := &Plan{RunID: plan.RunID, Grid: plan.Grid}
	shuffled.Indexes = append(shuffled.Indexes, plan.Indexes...)
	r := rand.New(rand.NewSource(123456789))
	r.Shuffle(len(shuffled.Indexes), func(i, j int) {
		shuffled.Indexes[i], shuffled.Indexes[j] = shuffled.Indexes[j], shuffled.Indexes[i]
	})

	permuted, err := Aggregate(shuffled, results, rf, FailFast)
	assert.NoError(t, err)
	assert.InDelta(t, reference.Value[0], permuted.Value[0], 1e-12)
}

func TestAggregateBinned(t *testing.T) {
	g, err := grid.NewBinnedArange(535, 555, 10)
	assert.NoError(t, err)
	rf, _ := srf.NewUniform(535, 555, 1)

	plan, err := Enumerate(g, testDataset(t), ckd.FixedPolicy{N: 2})
	assert.NoError(t, err)

	// Constant value per bin: the per-bin quadrature collapses to that
	// value, bins then combine with equal response weights
	results := evaluateAll(plan, func(idx Index) float64 {
		if idx.BinID == "540" {
			return 2.0
		}
		return 4.0
	})

	result, err := Aggregate(plan, results, rf, FailFast)
	assert.NoError(t, err)
	assert.InDelta(t, 3.0, result.Value[0], 1e-12)
}

func TestAggregateBinnedQuadrature(t *testing.T) {
	g, _ := grid.NewBinnedArange(535, 545, 10)
	rf, _ := srf.NewUniform(535, 545, 1)

	plan, _ := Enumerate(g, testDataset(t), ckd.FixedPolicy{N: 4})
	assert.Len(t, plan.Indexes, 4)

	// Linear in g: the quadrature reproduces the integral of g over [0, 1]
	results := evaluateAll(plan, func(idx Index) float64 { return idx.G })

	result, err := Aggregate(plan, results, rf, FailFast)
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, result.Value[0], 1e-12)
}

func TestAggregateCarriesSaturationWarnings(t *testing.T) {
	g, _ := grid.NewBinnedArange(535, 555, 10)
	rf, _ := srf.NewUniform(535, 555, 1)

	// Error curves stay above the target through the full node budget, so
	// both bins saturate at their maximum node count
	ds, err := ckd.NewDataset([]*ckd.BinTable{
		{BinID: "540", Lower: 535, Upper: 545, QuadType: quad.GaussLegendre, NGMax: 4,
			ErrorCurve: []float64{0.5, 0.25, 0.125, 0.0625}},
		{BinID: "550", Lower: 545, Upper: 555, QuadType: quad.GaussLegendre, NGMax: 4,
			ErrorCurve: []float64{0.4, 0.2, 0.1, 0.05}},
	})
	assert.NoError(t, err)

	plan, err := Enumerate(g, ds, ckd.MinErrorPolicy{Target: 1e-3})
	assert.NoError(t, err)
	assert.Len(t, plan.Warnings, 2)

	results := evaluateAll(plan, func(idx Index) float64 { return 1 })

	result, err := Aggregate(plan, results, rf, FailFast)
	assert.NoError(t, err)
	assert.Equal(t, plan.Warnings, result.Warnings)
}

func TestAggregateFailFast(t *testing.T) {
	g := grid.NewDiscrete([]float64{540, 550, 560})
	rf, _ := srf.NewUniform(535, 565, 1)

	plan, _ := Enumerate(g, nil, nil)
	results := evaluateAll(plan, func(idx Index) float64 { return 1 })
	delete(results, plan.Indexes[1])

	_, err := Aggregate(plan, results, rf, FailFast)

	var evalErr *IndexEvaluationError
	assert.True(t, errors.As(err, &evalErr))
	assert.Equal(t, plan.Indexes[1], evalErr.Index)
}

func TestAggregateBestEffort(t *testing.T) {
	g := grid.NewDiscrete([]float64{540, 550, 560})
	rf, _ := srf.NewUniform(535, 565, 1)

	plan, _ := Enumerate(g, nil, nil)
	results := Results{
		plan.Indexes[0]: {2.0},
		plan.Indexes[2]: {4.0},
	}

	result, err := Aggregate(plan, results, rf, BestEffort)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Dropped)

	// Weights renormalized over the surviving indexes
	assert.InDelta(t, 3.0, result.Value[0], 1e-12)
	sum := 0.0
	for _, w := range result.Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestAggregateVectorResults(t *testing.T) {
	g := grid.NewDiscrete([]float64{540, 560})
	rf, _ := srf.NewUniform(535, 565, 1)

	plan, _ := Enumerate(g, nil, nil)
	results := Results{
		plan.Indexes[0]: {1.0, 10.0},
		plan.Indexes[1]: {3.0, 30.0},
	}

	result, err := Aggregate(plan, results, rf, FailFast)
	assert.NoError(t, err)
	assert.Len(t, result.Value, 2)
	assert.InDelta(t, 2.0, result.Value[0], 1e-12)
	assert.InDelta(t, 20.0, result.Value[1], 1e-12)
}

func TestAggregateWidthMismatch(t *testing.T) {
	g := grid.NewDiscrete([]float64{540, 560})
	rf, _ := srf.NewUniform(535, 565, 1)

	plan, _ := Enumerate(g, nil, nil)
	results := Results{
		plan.Indexes[0]: {1.0, 10.0},
		plan.Indexes[1]: {3.0},
	}

	_, err := Aggregate(plan, results, rf, FailFast)
	assert.Error(t, err)
}

func TestEvaluateSequential(t *testing.T) {
	g := grid.NewDiscrete([]float64{540, 550, 560})

	plan, _ := Enumerate(g, nil, nil)
	kernel := func(idx Index) ([]float64, error) {
		if idx.Wavelength == 550 {
			return nil, &IndexEvaluationError{Index: idx}
		}
		return []float64{idx.Wavelength}, nil
	}

	results := Evaluate(plan, kernel)
	assert.Len(t, results, 2)
	_, ok := results[plan.Indexes[1]]
	assert.False(t, ok)
}
