// Package count implements the probabilistic cardinality estimator used to
// approximate the number of distinct items in a stream with fixed memory.
// Refer: https://static.googleusercontent.com/media/research.google.com/en//pubs/archive/40671.pdf
//
// The package provides both an in-memory and a Redis backed variant. The
// in-memory variant performs no locking; concurrent writers should either
// partition the stream over per-worker instances and Merge the results, or
// serialize their calls externally.
package count

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/streamprobe/streamprobe/hash"
)

const (
	minPrecision = 4
	maxPrecision = 18
)

// abstractHyperLogLog carries the estimator state shared by the in-memory
// and Redis backed variants: the precision, the register count m = 2^p and
// the bias correction constant fixed at creation.
type abstractHyperLogLog struct {
	precision      uint8
	numRegisters   uint64
	correctionBias float64
}

func makeAbstractHyperLogLog(precision uint8) (*abstractHyperLogLog, error) {
	if precision < minPrecision || precision > maxPrecision {
		return nil, fmt.Errorf("streamprobe: hyperloglog precision %d out of range [%d, %d]", precision, minPrecision, maxPrecision)
	}
	h := &abstractHyperLogLog{}
	h.precision = precision
	h.numRegisters = 1 << precision
	h.correctionBias = getAlpha(h.numRegisters)
	return h, nil
}

func (h *abstractHyperLogLog) Precision() uint8 {
	return h.precision
}

func (h *abstractHyperLogLog) NumRegisters() uint64 {
	return h.numRegisters
}

// Accuracy returns the expected relative standard error of the estimate.
func (h *abstractHyperLogLog) Accuracy() float64 {
	return 1.04 / math.Sqrt(float64(h.numRegisters))
}

func getAlpha(m uint64) (result float64) {
	switch m {
	case 16:
		result = 0.673
	case 32:
		result = 0.697
	case 64:
		result = 0.709
	default:
		result = 0.7213 / (1.0 + 1.079/float64(m))
	}
	return result
}

// registerIndexAndRank splits the 64-bit digest of _item_ into a register
// index (the top precision bits) and the rank of the remaining suffix: one
// plus its leading zero count, an all-zero suffix ranking 64-precision+1.
func (h *abstractHyperLogLog) registerIndexAndRank(item string) (uint64, uint8) {
	digest := hash.Sum64String(item)
	index := digest >> (64 - h.precision)
	suffix := digest << h.precision
	if suffix == 0 {
		return index, uint8(64-h.precision) + 1
	}
	return index, uint8(bits.LeadingZeros64(suffix)) + 1
}

// estimate turns the harmonic mean of the registers into the corrected
// cardinality estimate: linear counting while registers are still mostly
// zero, logarithmic correction near the 2^64 hash-space ceiling.
func (h *abstractHyperLogLog) estimate(inverseSum float64, zeroRegisters uint64) float64 {
	m := float64(h.numRegisters)
	estimation := h.correctionBias * m * m / inverseSum
	if estimation <= 2.5*m && zeroRegisters > 0 {
		estimation = m * math.Log(m/float64(zeroRegisters))
	}
	twoPow64 := math.Pow(2, 64)
	if estimation > twoPow64/30 {
		estimation = -twoPow64 * math.Log(1-estimation/twoPow64)
	}
	return estimation
}
