package ckd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/raysim/spectral/pkg/grid"
	"github.com/raysim/spectral/pkg/quad"
)

// State holds the atmospheric state variables parameterizing an absorption
// coefficient lookup.
type State struct {
	Altitude    float64
	Pressure    float64
	Temperature float64
}

// DomainError reports a state lookup outside the tabulated domain of an
// absorption table. Coefficients are never extrapolated.
type DomainError struct {
	BinID    string
	Altitude float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("altitude %g outside of the tabulated domain of bin %s", e.Altitude, e.BinID)
}

// AbsorptionRecord is one sample of an absorption coefficient table, keyed
// by (bin, quadrature node) and the atmospheric state level.
type AbsorptionRecord struct {
	Bin         string  `csv:"bin"`
	Node        int     `csv:"node"`
	G           float64 `csv:"g"`
	Altitude    float64 `csv:"altitude"`
	Pressure    float64 `csv:"pressure"`
	Temperature float64 `csv:"temperature"`
	K           float64 `csv:"k"`
}

// BinTable is the per-bin quadrature table of an absorption dataset: the
// cumulative-probability representation of the absorption spectrum inside
// one bin, plus the metadata driving quadrature resolution.
type BinTable struct {
	BinID string
	Lower float64
	Upper float64

	QuadType quad.Type

	// NGMax is the maximum node count available for this bin.
	NGMax int

	// Available lists the node counts the table was precomputed for, sorted
	// ascending. Empty means every count from 1 to NGMax is available.
	Available []int

	// ErrorCurve[i] is the transmittance error estimate achieved with i+1
	// quadrature nodes.
	ErrorCurve []float64

	records []AbsorptionRecord
}

// AbsorptionCoefficient returns the tabulated absorption coefficient for the
// given quadrature node at the nearest tabulated state level at or below the
// requested altitude. States below the lowest or above the highest tabulated
// level yield a DomainError, never an extrapolated coefficient.
func (t *BinTable) AbsorptionCoefficient(node int, state State) (float64, error) {
	best := -1
	above := false
	for i, r := range t.records {
		if r.Node != node {
			continue
		}
		if r.Altitude >= state.Altitude {
			above = true
		}
		if r.Altitude > state.Altitude {
			continue
		}
		if best < 0 || r.Altitude > t.records[best].Altitude {
			best = i
		}
	}

	if best < 0 || !above {
		return 0, &DomainError{BinID: t.BinID, Altitude: state.Altitude}
	}

	return t.records[best].K, nil
}

// Dataset maps bin identifiers to their quadrature tables. It is the
// engine-side view of an absorbing medium's tabulated spectral data.
type Dataset struct {
	tables map[string]*BinTable
}

func NewDataset(tables []*BinTable) (*Dataset, error) {
	byID := make(map[string]*BinTable, len(tables))
	for _, t := range tables {
		if _, ok := byID[t.BinID]; ok {
			return nil, fmt.Errorf("duplicate bin table %s", t.BinID)
		}
		if t.NGMax < 1 {
			return nil, fmt.Errorf("bin table %s has non-positive maximum node count %d", t.BinID, t.NGMax)
		}
		byID[t.BinID] = t
	}
	return &Dataset{tables: byID}, nil
}

func (ds *Dataset) Table(binID string) (*BinTable, bool) {
	t, ok := ds.tables[binID]
	return t, ok
}

func (ds *Dataset) Len() int {
	return len(ds.tables)
}

// Grid reconstructs the binned spectral grid carried by the dataset. It is
// the medium-supplied grid override passed to the grid builder when an
// absorbing atmospheric component is present.
func (ds *Dataset) Grid() (grid.Binned, error) {
	bins := make([]grid.Bin, 0, len(ds.tables))
	for _, t := range ds.tables {
		bins = append(bins, grid.Bin{ID: t.BinID, Lower: t.Lower, Upper: t.Upper})
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Lower < bins[j].Lower })
	return grid.NewBinned(bins)
}

type binRecord struct {
	Bin         string  `csv:"bin"`
	Lower       float64 `csv:"lower"`
	Upper       float64 `csv:"upper"`
	Quadrature  string  `csv:"quadrature"`
	NGMax       int     `csv:"ng_max"`
	NGAvailable string  `csv:"ng_available"`
	ErrorCurve  string  `csv:"error_curve"`
}

// LoadDataset reads an absorption dataset directory holding a bins.csv
// metadata table and an absorption.csv coefficient table.
func LoadDataset(dir string) (*Dataset, error) {
	binsFile, err := os.Open(filepath.Join(dir, "bins.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to open absorption dataset metadata: %w", err)
	}
	defer binsFile.Close()

	var binRecords []binRecord
	if err := gocsv.UnmarshalFile(binsFile, &binRecords); err != nil {
		return nil, fmt.Errorf("failed to parse absorption dataset metadata: %w", err)
	}

	absorptionFile, err := os.Open(filepath.Join(dir, "absorption.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to open absorption dataset: %w", err)
	}
	defer absorptionFile.Close()

	var records []AbsorptionRecord
	if err := gocsv.UnmarshalFile(absorptionFile, &records); err != nil {
		return nil, fmt.Errorf("failed to parse absorption dataset: %w", err)
	}

	recordsByBin := make(map[string][]AbsorptionRecord)
	for _, r := range records {
		recordsByBin[r.Bin] = append(recordsByBin[r.Bin], r)
	}

	tables := make([]*BinTable, 0, len(binRecords))
	for _, r := range binRecords {
		quadType, err := quad.ParseType(r.Quadrature)
		if err != nil {
			return nil, fmt.Errorf("bin %s: %w", r.Bin, err)
		}

		available, err := parseIntList(r.NGAvailable)
		if err != nil {
			return nil, fmt.Errorf("bin %s: invalid node count list: %w", r.Bin, err)
		}

		errorCurve, err := parseFloatList(r.ErrorCurve)
		if err != nil {
			return nil, fmt.Errorf("bin %s: invalid error curve: %w", r.Bin, err)
		}

		tables = append(tables, &BinTable{
			BinID:      r.Bin,
			Lower:      r.Lower,
			Upper:      r.Upper,
			QuadType:   quadType,
			NGMax:      r.NGMax,
			Available:  available,
			ErrorCurve: errorCurve,
			records:    recordsByBin[r.Bin],
		})
	}

	return NewDataset(tables)
}

func parseIntList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ";")
	result := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	sort.Ints(result)

	return result, nil
}

func parseFloatList(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ";")
	result := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}

	return result, nil
}
