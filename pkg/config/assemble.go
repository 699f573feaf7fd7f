package config

import (
	"fmt"

	"github.com/raysim/spectral/pkg/ckd"
	"github.com/raysim/spectral/pkg/grid"
	"github.com/raysim/spectral/pkg/spectral"
	"github.com/raysim/spectral/pkg/srf"
)

// ResponseFunction assembles the configured SRF variant. Band responses are
// trimmed to the configured retention (default 99.9% of the raw integral).
func (c RunConfiguration) ResponseFunction() (srf.ResponseFunction, error) {
	switch c.SRFType {
	case "uniform":
		value := c.SRFValue
		if value == 0 {
			value = 1
		}
		return srf.NewUniform(c.SRFWMin, c.SRFWMax, value)

	case "band":
		band, err := srf.LoadBand(c.SRFPath)
		if err != nil {
			return nil, err
		}
		retention := c.SRFRetention
		if retention == 0 {
			retention = srf.DefaultRetention
		}
		return srf.TrimBand(band, retention)

	case "multi_delta":
		return srf.NewMultiDelta(c.SRFWavelengths)

	default:
		return nil, fmt.Errorf("unknown SRF type '%s'", c.SRFType)
	}
}

// DefaultGrid assembles the configured default spectral grid.
func (c RunConfiguration) DefaultGrid() (grid.Grid, error) {
	switch c.GridType {
	case "discrete":
		return grid.NewDiscreteArange(c.GridStart, c.GridStop, c.GridStep), nil
	case "binned":
		return grid.NewBinnedArange(c.GridStart, c.GridStop, c.GridStep)
	default:
		return nil, fmt.Errorf("unknown grid type '%s'", c.GridType)
	}
}

// QuadraturePolicy assembles the configured node-count policy.
func (c RunConfiguration) QuadraturePolicy() ckd.Policy {
	switch c.QuadPolicy {
	case "min_error":
		return ckd.MinErrorPolicy{Target: c.QuadErrorTarget}
	case "error_threshold":
		return ckd.ErrorThresholdPolicy{Threshold: c.QuadErrorTarget}
	default:
		n := c.QuadNodeCount
		if n < 1 {
			n = 1
		}
		return ckd.FixedPolicy{N: n}
	}
}

func (c RunConfiguration) AggregationPolicy() spectral.FailurePolicy {
	if c.FailurePolicy == "best_effort" {
		return spectral.BestEffort
	}
	return spectral.FailFast
}
