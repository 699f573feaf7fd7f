package grid

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/raysim/spectral/pkg/srf"
)

// Grid is a spectral discretization: either a sequence of discrete
// wavelengths or a partition of a spectral range into contiguous bins.
type Grid interface {
	// Wavelengths returns the characteristic wavelengths of the grid (the
	// wavelengths themselves for a discrete grid, bin centers for a binned
	// grid).
	Wavelengths() []float64

	// Len returns the number of grid points or bins.
	Len() int

	// Select returns the subset of the grid overlapping the support of the
	// given response function. The result may be empty.
	Select(rf srf.ResponseFunction) Grid
}

// EmptySpectralGridError reports that a response function support does not
// intersect the grid it is evaluated against. This is a configuration error
// and is surfaced at grid-build time.
type EmptySpectralGridError struct {
	Support []srf.Interval
}

func (e *EmptySpectralGridError) Error() string {
	return fmt.Sprintf("response function support %v does not intersect the spectral grid", e.Support)
}

// Build computes the effective grid for one measurement. The medium override
// replaces the default grid entirely when present: absorption features vary
// on a far finer scale than any other scene property and must dictate the
// resolution. The result is then restricted to the support of rf.
func Build(defaultGrid, mediumOverride Grid, rf srf.ResponseFunction) (Grid, error) {
	g := defaultGrid
	if mediumOverride != nil {
		g = mediumOverride
	}

	selected := g.Select(rf)
	if selected.Len() == 0 {
		return nil, &EmptySpectralGridError{Support: rf.Support()}
	}

	return selected, nil
}

// Discrete is a strictly increasing, duplicate-free sequence of wavelengths.
type Discrete struct {
	wavelengths []float64
}

func NewDiscrete(wavelengths []float64) Discrete {
	sorted := make([]float64, len(wavelengths))
	copy(sorted, wavelengths)
	sort.Float64s(sorted)

	if len(sorted) == 0 {
		return Discrete{wavelengths: sorted}
	}

	unique := sorted[:1]
	for _, w := range sorted[1:] {
		if w != unique[len(unique)-1] {
			unique = append(unique, w)
		}
	}

	return Discrete{wavelengths: unique}
}

// NewDiscreteArange builds a regular discrete grid from start to stop
// (inclusive, within a tolerance of a tenth of the step). A non-positive
// step yields an empty grid.
func NewDiscreteArange(start, stop, step float64) Discrete {
	if step <= 0 {
		return Discrete{}
	}

	var wavelengths []float64
	for w := start; w <= stop+0.1*step; w += step {
		wavelengths = append(wavelengths, w)
	}
	return Discrete{wavelengths: wavelengths}
}

func (g Discrete) Wavelengths() []float64 {
	result := make([]float64, len(g.wavelengths))
	copy(result, g.wavelengths)
	return result
}

func (g Discrete) Len() int {
	return len(g.wavelengths)
}

func (g Discrete) Select(rf srf.ResponseFunction) Grid {
	// A multi-delta response fully determines the discrete grid: its listed
	// wavelengths are definitionally inside the support and are the only
	// points of interest.
	if d, ok := rf.(srf.MultiDelta); ok {
		return NewDiscrete(d.Wavelengths())
	}

	support := rf.Support()
	var selected []float64
	for _, w := range g.wavelengths {
		for _, iv := range support {
			if iv.Contains(w) {
				selected = append(selected, w)
				break
			}
		}
	}

	return Discrete{wavelengths: selected}
}

// Bin is one contiguous wavelength sub-interval of a binned grid. Its ID
// keys the absorption dataset table attached to the bin.
type Bin struct {
	ID    string
	Lower float64
	Upper float64
}

func (b Bin) Center() float64 {
	return 0.5 * (b.Lower + b.Upper)
}

// contains follows the half-open ]lower, upper] convention: a wavelength on
// a boundary shared by two bins belongs to the lower bin.
func (b Bin) contains(w float64) bool {
	return w > b.Lower && w <= b.Upper
}

// FormatBinID derives the conventional bin identifier from its center
// wavelength.
func FormatBinID(center float64) string {
	return strconv.FormatFloat(center, 'g', -1, 64)
}

// Binned is a partition of a spectral range into sorted, non-overlapping
// bins.
type Binned struct {
	bins []Bin
}

func NewBinned(bins []Bin) (Binned, error) {
	sorted := make([]Bin, len(bins))
	copy(sorted, bins)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lower < sorted[j].Lower })

	for i, b := range sorted {
		if b.Upper <= b.Lower {
			return Binned{}, fmt.Errorf("bin %s has non-positive width [%g, %g]", b.ID, b.Lower, b.Upper)
		}
		if i > 0 && sorted[i-1].Upper > b.Lower {
			return Binned{}, fmt.Errorf("bins %s and %s overlap", sorted[i-1].ID, b.ID)
		}
	}

	return Binned{bins: sorted}, nil
}

// NewBinnedFromNodes builds a contiguous binned grid from a sorted sequence
// of bin boundary nodes.
func NewBinnedFromNodes(nodes []float64) (Binned, error) {
	if len(nodes) < 2 {
		return Binned{}, fmt.Errorf("binned grid requires at least 2 boundary nodes, got %d", len(nodes))
	}

	bins := make([]Bin, len(nodes)-1)
	for i := range bins {
		lower, upper := nodes[i], nodes[i+1]
		bins[i] = Bin{
			ID:    FormatBinID(0.5 * (lower + upper)),
			Lower: lower,
			Upper: upper,
		}
	}

	return NewBinned(bins)
}

// NewBinnedArange builds a contiguous binned grid of fixed-width bins
// spanning [start, stop].
func NewBinnedArange(start, stop, width float64) (Binned, error) {
	if width <= 0 {
		return Binned{}, fmt.Errorf("binned grid requires a positive bin width, got %g", width)
	}

	var nodes []float64
	for w := start; w <= stop+0.1*width; w += width {
		nodes = append(nodes, w)
	}
	return NewBinnedFromNodes(nodes)
}

func (g Binned) Bins() []Bin {
	result := make([]Bin, len(g.bins))
	copy(result, g.bins)
	return result
}

func (g Binned) Wavelengths() []float64 {
	result := make([]float64, len(g.bins))
	for i, b := range g.bins {
		result[i] = b.Center()
	}
	return result
}

func (g Binned) Len() int {
	return len(g.bins)
}

// FindBin locates the bin containing a wavelength by binary search.
func (g Binned) FindBin(w float64) (Bin, bool) {
	low := 0
	high := len(g.bins) - 1

	for low <= high {
		mid := (low + high) / 2

		if g.bins[mid].contains(w) {
			return g.bins[mid], true
		} else if w <= g.bins[mid].Lower {
			high = mid - 1
		} else {
			low = mid + 1
		}
	}

	return Bin{}, false
}

func (g Binned) Select(rf srf.ResponseFunction) Grid {
	var selected []Bin

	switch rf := rf.(type) {
	case srf.MultiDelta:
		// Keep bins containing at least one listed wavelength
		hit := make(map[string]bool)
		for _, w := range rf.Wavelengths() {
			if b, ok := g.FindBin(w); ok && !hit[b.ID] {
				hit[b.ID] = true
				selected = append(selected, b)
			}
		}
		sort.Slice(selected, func(i, j int) bool { return selected[i].Lower < selected[j].Lower })

	case *srf.Band:
		// A bin is selected when the response integral over it is nonzero,
		// so zero plateaus inside the table do not select bins. Bins that
		// straddle the support boundary are kept whole.
		for _, b := range g.bins {
			if rf.Integrate(b.Lower, b.Upper) > 0 {
				selected = append(selected, b)
			}
		}

	default:
		for _, b := range g.bins {
			for _, iv := range rf.Support() {
				if iv.Overlaps(b.Lower, b.Upper) {
					selected = append(selected, b)
					break
				}
			}
		}
	}

	return Binned{bins: selected}
}
