package export

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/raysim/spectral/pkg/spectral"
)

// WeightRecord is one realized per-index weight of an aggregated
// measurement, written out for diagnostic inspection.
type WeightRecord struct {
	Wavelength float64 `csv:"wavelength"`
	Bin        string  `csv:"bin"`
	Node       int     `csv:"node"`
	G          float64 `csv:"g"`
	Weight     float64 `csv:"weight"`
}

// ResultRecord is one component of the aggregated spectral estimate.
type ResultRecord struct {
	RunID     string  `csv:"run_id"`
	Component int     `csv:"component"`
	Value     float64 `csv:"value"`
	Dropped   int     `csv:"dropped"`
}

// WriteWeights writes the realized weights of a result in plan order.
func WriteWeights(plan *spectral.Plan, result *spectral.Result, path string) error {
	records := make([]WeightRecord, 0, len(result.Weights))
	for _, idx := range plan.Indexes {
		w, ok := result.Weights[idx]
		if !ok {
			continue
		}
		records = append(records, WeightRecord{
			Wavelength: idx.Wavelength,
			Bin:        idx.BinID,
			Node:       idx.Node,
			G:          idx.G,
			Weight:     w,
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create weight export file: %w", err)
	}
	defer f.Close()

	return gocsv.MarshalFile(&records, f)
}

// WriteResult writes the aggregated estimate, one row per result component.
func WriteResult(result *spectral.Result, path string) error {
	records := make([]ResultRecord, len(result.Value))
	for i, v := range result.Value {
		records[i] = ResultRecord{
			RunID:     result.RunID,
			Component: i,
			Value:     v,
			Dropped:   result.Dropped,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create result export file: %w", err)
	}
	defer f.Close()

	return gocsv.MarshalFile(&records, f)
}
