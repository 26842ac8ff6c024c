package count

import (
	"fmt"
	"math"
)

// HyperLogLog is the in-memory cardinality estimator. Each register holds
// the maximum observed rank for its bucket, so registers only ever grow
// and memory stays at m bytes no matter how many items are added.
type HyperLogLog struct {
	abstractHyperLogLog
	registers []uint8
}

// NewHyperLogLog creates an estimator with 2^precision registers.
// Precision must lie in [4, 18].
func NewHyperLogLog(precision uint8) (*HyperLogLog, error) {
	abstractLog, err := makeAbstractHyperLogLog(precision)
	if err != nil {
		return nil, err
	}
	return &HyperLogLog{*abstractLog, make([]uint8, abstractLog.numRegisters)}, nil
}

// Add folds _item_ into the estimate. Re-adding an item the registers have
// already absorbed changes nothing.
func (h *HyperLogLog) Add(item string) {
	index, rank := h.registerIndexAndRank(item)
	if rank > h.registers[index] {
		h.registers[index] = rank
	}
}

// Count returns the current estimate of the number of distinct items
// added. It is a pure read and may be called any number of times.
func (h *HyperLogLog) Count() float64 {
	inverseSum := 0.0
	zeroRegisters := uint64(0)
	for i := range h.registers {
		inverseSum += math.Pow(2, -float64(h.registers[i]))
		if h.registers[i] == 0 {
			zeroRegisters++
		}
	}
	return h.estimate(inverseSum, zeroRegisters)
}

// Reset zeroes every register.
func (h *HyperLogLog) Reset() {
	for i := range h.registers {
		h.registers[i] = 0
	}
}

// Merge folds _g_ into h by element-wise register maximum. Both estimators
// must share the same precision.
func (h *HyperLogLog) Merge(g *HyperLogLog) error {
	if h.precision != g.precision {
		return fmt.Errorf("streamprobe: hyperloglog precisions %d, %d don't match", h.precision, g.precision)
	}
	for i := range g.registers {
		if g.registers[i] > h.registers[i] {
			h.registers[i] = g.registers[i]
		}
	}
	return nil
}

func (h *HyperLogLog) Equals(g *HyperLogLog) bool {
	if h.precision != g.precision {
		return false
	}
	for i := range h.registers {
		if h.registers[i] != g.registers[i] {
			return false
		}
	}
	return true
}
