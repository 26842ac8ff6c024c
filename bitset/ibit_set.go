// Package bitset provides the bit array backends for the membership
// filter. Two implementations exist: an in-memory one and a Redis backed
// one, so a filter can either live inside a single process or be shared
// across processes through a Redis instance.
package bitset

type IBitSet interface {
	// Size returns the number of addressable bit positions.
	Size() uint
	Has(index uint) (bool, error)
	Insert(index uint) (bool, error)
	Equals(otherBitSet IBitSet) (bool, error)
	BitCount() (uint, error)
}
