package spectral

import (
	"fmt"
)

// Index is the atomic unit of spectral evaluation dispatched to the
// rendering kernel: a single wavelength in the discrete regime, or one
// (bin, quadrature node) pair in the binned regime. Indexes are immutable
// value objects with no identity beyond their content and are valid map
// keys, so kernel results can be collected out of order.
type Index struct {
	// Wavelength is the evaluation wavelength: the grid wavelength in the
	// discrete regime, the bin center in the binned regime.
	Wavelength float64

	// BinID identifies the bin in the binned regime and is empty in the
	// discrete regime.
	BinID string

	// Node is the 0-based quadrature node index within the bin.
	Node int

	// G is the cumulative-probability coordinate of the quadrature node.
	G float64

	// Weight is the quadrature node weight. Discrete indexes carry an
	// implicit weight of 1.
	Weight float64
}

func (idx Index) IsBinned() bool {
	return idx.BinID != ""
}

func (idx Index) String() string {
	if idx.IsBinned() {
		return fmt.Sprintf("%g nm [bin %s, g=%.3f]", idx.Wavelength, idx.BinID, idx.G)
	}
	return fmt.Sprintf("%g nm", idx.Wavelength)
}
