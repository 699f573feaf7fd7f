package quad

import (
	"fmt"
	"math"

	gquad "gonum.org/v1/gonum/integrate/quad"
)

// Type selects a quadrature rule family.
type Type int

const (
	GaussLegendre Type = iota
	GaussLobatto
)

func ParseType(name string) (Type, error) {
	switch name {
	case "gauss_legendre":
		return GaussLegendre, nil
	case "gauss_lobatto":
		return GaussLobatto, nil
	default:
		return 0, fmt.Errorf("unknown quadrature type '%s'", name)
	}
}

func (t Type) String() string {
	switch t {
	case GaussLegendre:
		return "gauss_legendre"
	case GaussLobatto:
		return "gauss_lobatto"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Rule holds quadrature nodes and weights on the cumulative-probability
// domain [0, 1]. Weights sum to 1.
type Rule struct {
	Type    Type
	Nodes   []float64
	Weights []float64
}

// New builds a quadrature rule of the given family with n points.
func New(t Type, n int) (Rule, error) {
	switch t {
	case GaussLegendre:
		return newGaussLegendre(n)
	case GaussLobatto:
		return newGaussLobatto(n)
	default:
		return Rule{}, fmt.Errorf("unknown quadrature type '%v'", t)
	}
}

// Integrate evaluates the rule for the given node values, approximating the
// integral of the sampled function over [0, 1].
func (r Rule) Integrate(values []float64) float64 {
	sum := 0.0
	for i, w := range r.Weights {
		sum += w * values[i]
	}
	return sum
}

func newGaussLegendre(n int) (Rule, error) {
	if n < 1 {
		return Rule{}, fmt.Errorf("gauss_legendre requires at least 1 point, got %d", n)
	}

	nodes := make([]float64, n)
	weights := make([]float64, n)
	gquad.Legendre{}.FixedLocations(nodes, weights, 0, 1)

	// gonum fills Legendre abscissas in descending order; node indexes must
	// ascend in g so they line up with tabulated per-node data.
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
		weights[i], weights[j] = weights[j], weights[i]
	}

	return Rule{Type: GaussLegendre, Nodes: nodes, Weights: weights}, nil
}

// newGaussLobatto computes Lobatto nodes and weights on [0, 1]. Interior
// nodes are the roots of the derivative of the Legendre polynomial of degree
// n-1, found by the fixed-point iteration of the Legendre-Gauss-Lobatto
// collocation construction; the endpoints are always included.
func newGaussLobatto(n int) (Rule, error) {
	if n < 2 {
		return Rule{}, fmt.Errorf("gauss_lobatto requires at least 2 points, got %d", n)
	}

	deg := n - 1
	nodes := make([]float64, n)
	weights := make([]float64, n)

	for i := 0; i < n; i++ {
		// Chebyshev-Gauss-Lobatto initial guess
		x := math.Cos(math.Pi * float64(n-1-i) / float64(deg))

		for iter := 0; iter < 100; iter++ {
			p, pPrev := legendrePair(deg, x)
			dx := (x*p - pPrev) / (float64(n) * p)
			x -= dx
			if math.Abs(dx) < 1e-15 {
				break
			}
		}

		p, _ := legendrePair(deg, x)
		// Map from [-1, 1] to [0, 1]: node (x+1)/2, weight halved
		nodes[i] = 0.5 * (x + 1)
		weights[i] = 1 / (float64(deg) * float64(n) * p * p)
	}

	// Pin the endpoints exactly
	nodes[0], nodes[n-1] = 0, 1
	endpoint := 1 / (float64(deg) * float64(n))
	weights[0], weights[n-1] = endpoint, endpoint

	return Rule{Type: GaussLobatto, Nodes: nodes, Weights: weights}, nil
}

// legendrePair evaluates the Legendre polynomials of degree deg and deg-1 at
// x using the three-term recurrence.
func legendrePair(deg int, x float64) (p, pPrev float64) {
	pPrev, p = 1, x
	for k := 2; k <= deg; k++ {
		pPrev, p = p, ((2*float64(k)-1)*x*p-(float64(k)-1)*pPrev)/float64(k)
	}
	return p, pPrev
}
