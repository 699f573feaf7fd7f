package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raysim/spectral/pkg/grid"
	"github.com/raysim/spectral/pkg/spectral"
	"github.com/raysim/spectral/pkg/srf"
)

func TestWriteResultAndWeights(t *testing.T) {
	g := grid.NewDiscrete([]float64{540, 550, 560})
	rf, _ := srf.NewUniform(535, 565, 1)

	plan, err := spectral.Enumerate(g, nil, nil)
	assert.NoError(t, err)

	results := spectral.Results{
		plan.Indexes[0]: {1.0},
		plan.Indexes[1]: {2.0},
		plan.Indexes[2]: {3.0},
	}
	result, err := spectral.Aggregate(plan, results, rf, spectral.FailFast)
	assert.NoError(t, err)

	dir := t.TempDir()

	resultPath := filepath.Join(dir, "result.csv")
	assert.NoError(t, WriteResult(result, resultPath))

	content, err := os.ReadFile(resultPath)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "run_id")
	assert.Contains(t, lines[1], result.RunID)

	weightsPath := filepath.Join(dir, "weights.csv")
	assert.NoError(t, WriteWeights(plan, result, weightsPath))

	content, err = os.ReadFile(weightsPath)
	assert.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(content)), "\n")
	// Header plus one row per index, in plan order
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[1], "540")
}
