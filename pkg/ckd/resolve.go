package ckd

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/raysim/spectral/pkg/grid"
	"github.com/raysim/spectral/pkg/quad"
)

// Node is one resolved quadrature node of a bin: its stable 0-based index,
// its cumulative-probability coordinate, and its weight. Weights of a
// resolved bin sum to 1.
type Node struct {
	Index  int
	G      float64
	Weight float64
}

// Resolve converts a selected bin and its quadrature table into a concrete
// list of quadrature nodes according to the node-count policy. A non-nil
// SaturationWarning signals that an error-driven policy exhausted the bin's
// node budget before reaching its target.
func Resolve(bin grid.Bin, table *BinTable, policy Policy) ([]Node, *SaturationWarning, error) {
	if table == nil {
		return nil, nil, fmt.Errorf("bin %s has no quadrature table", bin.ID)
	}
	if table.BinID != bin.ID {
		return nil, nil, fmt.Errorf("quadrature table %s does not match bin %s", table.BinID, bin.ID)
	}

	n, achieved, saturated := policy.NodeCount(table)

	rule, err := quad.New(table.QuadType, n)
	if err != nil {
		return nil, nil, fmt.Errorf("bin %s: %w", bin.ID, err)
	}

	nodes := make([]Node, n)
	for i := 0; i < n; i++ {
		nodes[i] = Node{Index: i, G: rule.Nodes[i], Weight: rule.Weights[i]}
	}

	var warning *SaturationWarning
	if saturated {
		warning = &SaturationWarning{
			BinID:     bin.ID,
			NodeCount: n,
			Achieved:  achieved,
		}
		if p, ok := policy.(ErrorThresholdPolicy); ok {
			warning.Target = p.Threshold
		} else if p, ok := policy.(MinErrorPolicy); ok {
			warning.Target = p.Target
			if warning.Target <= 0 {
				warning.Target = DefaultErrorTarget
			}
		}
		log.Warn(warning.String())
	}

	return nodes, warning, nil
}
