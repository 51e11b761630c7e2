// Package genome defines the evolvable representation of a subdivision
// plan: a fixed-structure vector of values in [0,1] that the decoder turns
// into roads and lots. Genetic operators act only on this representation;
// Repair guarantees structural validity after any operator.
package genome

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
)

// Gene positions. The vector has a fixed shape: a handful of scalar genes,
// a block of secondary-road cut positions that must stay sorted, and one
// lot-width factor per potential block.
const (
	// GenePrimaryPos places the primary road across the parcel's minor axis.
	GenePrimaryPos = 0
	// GeneAxis selects the primary road orientation: < 0.5 runs the road
	// along the parcel's long axis, >= 0.5 along the short axis.
	GeneAxis = 1
	// GeneLotDepth scales lot depth within the allowed aspect-ratio range.
	GeneLotDepth = 2
	// GeneGreenBias steers which leftover fragments are preferred when
	// topping up green space.
	GeneGreenBias = 3
	// GeneCutCount maps to the number of active secondary-road cuts.
	GeneCutCount = 4

	headerLen = 5

	// MaxCuts is the maximum number of secondary roads per side.
	MaxCuts = 8
	// MaxBlocks is the maximum block count the decoder can produce:
	// up to MaxCuts+1 columns on each side of the primary road.
	MaxBlocks = 2 * (MaxCuts + 1)

	cutsOffset  = headerLen
	widthOffset = cutsOffset + MaxCuts

	// Length is the total gene count.
	Length = widthOffset + MaxBlocks
)

// Genome is the fixed-length value vector. It is owned by exactly one
// individual; operators that combine genomes always return fresh slices.
type Genome []float64

// New returns a genome with every gene at its midpoint.
func New() Genome {
	g := make(Genome, Length)
	for i := range g {
		g[i] = 0.5
	}
	return g
}

// NewRandom draws every gene uniformly from [0,1) and repairs the result.
func NewRandom(rng *rand.Rand) Genome {
	g := make(Genome, Length)
	for i := range g {
		g[i] = rng.Float64()
	}
	return Repair(g)
}

// Clone returns an independent copy.
func (g Genome) Clone() Genome {
	out := make(Genome, len(g))
	copy(out, g)
	return out
}

// Cuts returns the sorted secondary-road cut positions.
func (g Genome) Cuts() []float64 {
	return g[cutsOffset:widthOffset]
}

// ActiveCuts maps GeneCutCount onto the number of cuts the decoder uses.
func (g Genome) ActiveCuts() int {
	n := int(g[GeneCutCount] * float64(MaxCuts+1))
	if n > MaxCuts {
		n = MaxCuts
	}
	return n
}

// WidthFactor returns the lot-width factor for block i, wrapping when the
// decoder produces more blocks than slots.
func (g Genome) WidthFactor(i int) float64 {
	return g[widthOffset+i%MaxBlocks]
}

// Hash returns a stable 64-bit key over the exact gene values. Decoding is
// pure, so the hash is a valid cache key for layouts and oracle scores.
func (g Genome) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range g {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Repair clamps every gene into [0,1], replaces non-finite values, fixes the
// vector length and restores the sorted-cuts invariant. It is total (any
// input yields a valid genome) and idempotent.
func Repair(g Genome) Genome {
	if len(g) != Length {
		fixed := New()
		copy(fixed, g)
		g = fixed
	}
	for i, v := range g {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			g[i] = 0.5
		case v < 0:
			g[i] = 0
		case v > 1:
			g[i] = 1
		}
	}
	cuts := g[cutsOffset:widthOffset]
	sort.Float64s(cuts)
	return g
}
