package spectral

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/raysim/spectral/pkg/ckd"
	"github.com/raysim/spectral/pkg/grid"
)

// Plan is the ordered sequence of spectral indexes covering one measurement,
// together with the effective grid they were enumerated from and the
// saturation warnings collected while resolving quadratures.
type Plan struct {
	RunID    string
	Grid     grid.Grid
	Indexes  []Index
	Warnings []*ckd.SaturationWarning
}

// Enumerate expands an effective spectral grid into the full ordered index
// sequence: one index per wavelength in the discrete regime, one index per
// resolved quadrature node per bin in the binned regime.
func Enumerate(g grid.Grid, ds *ckd.Dataset, policy ckd.Policy) (*Plan, error) {
	plan := &Plan{
		RunID: uuid.New().String(),
		Grid:  g,
	}

	switch g := g.(type) {
	case grid.Discrete:
		for _, w := range g.Wavelengths() {
			plan.Indexes = append(plan.Indexes, Index{Wavelength: w, Weight: 1})
		}

	case grid.Binned:
		if ds == nil {
			return nil, fmt.Errorf("binned grid enumeration requires an absorption dataset")
		}
		if policy == nil {
			return nil, fmt.Errorf("binned grid enumeration requires a node-count policy")
		}

		for _, b := range g.Bins() {
			table, ok := ds.Table(b.ID)
			if !ok {
				return nil, fmt.Errorf("absorption dataset has no table for bin %s", b.ID)
			}

			nodes, warning, err := ckd.Resolve(b, table, policy)
			if err != nil {
				return nil, err
			}
			if warning != nil {
				plan.Warnings = append(plan.Warnings, warning)
			}

			for _, n := range nodes {
				plan.Indexes = append(plan.Indexes, Index{
					Wavelength: b.Center(),
					BinID:      b.ID,
					Node:       n.Index,
					G:          n.G,
					Weight:     n.Weight,
				})
			}
		}

	default:
		return nil, fmt.Errorf("unsupported spectral grid type %T", g)
	}

	log.Debugf("Run %s: enumerated %d spectral indexes", plan.RunID, len(plan.Indexes))

	return plan, nil
}
