// Package filters implements the probabilistic membership filter and the
// batch uniqueness classification built on top of it.
package filters

import (
	"fmt"
	"math"
	"strings"

	"github.com/streamprobe/streamprobe"
	"github.com/streamprobe/streamprobe/bitset"
	"github.com/streamprobe/streamprobe/hash"
)

// BloomFilter answers approximate set membership in O(size) memory. It can
// report false positives but never false negatives: bits are only ever
// set, never cleared.
type BloomFilter struct {
	size      uint
	numHashes uint
	filter    bitset.IBitSet
}

func validateParams(size, numHashes uint) error {
	if size == 0 {
		return fmt.Errorf("streamprobe: bloom filter size must be a positive integer, got %d", size)
	}
	if numHashes == 0 {
		return fmt.Errorf("streamprobe: bloom filter number of hashes must be a positive integer, got %d", numHashes)
	}
	return nil
}

// NewBloomFilterWithBitSet creates a filter over an existing bit array.
func NewBloomFilterWithBitSet(size, numHashes uint, filter bitset.IBitSet) (*BloomFilter, error) {
	if err := validateParams(size, numHashes); err != nil {
		return nil, err
	}
	if filter.Size() != size {
		return nil, fmt.Errorf("streamprobe: error initializing filter as size of bitset %v doesn't match with size %v passed", filter.Size(), size)
	}
	return &BloomFilter{size, numHashes, filter}, nil
}

// NewBloomFilter creates an in-memory filter of _size_ bits probed by
// _numHashes_ hash functions.
func NewBloomFilter(size, numHashes uint) (*BloomFilter, error) {
	if err := validateParams(size, numHashes); err != nil {
		return nil, err
	}
	return &BloomFilter{size, numHashes, bitset.NewBitSetMem(size)}, nil
}

// NewRedisBloomFilter creates a filter whose bits live in Redis, so the
// same filter state can be shared by several processes.
func NewRedisBloomFilter(size, numHashes uint) (*BloomFilter, error) {
	if err := validateParams(size, numHashes); err != nil {
		return nil, err
	}
	return &BloomFilter{size, numHashes, bitset.NewBitSetRedis(size)}, nil
}

// NewBloomFilterFromEstimates sizes an in-memory filter for _numItems_
// items at the target false positive _errorRate_.
func NewBloomFilterFromEstimates(numItems uint, errorRate float64) (*BloomFilter, error) {
	size := streamprobe.CalculateFilterSize(numItems, errorRate)
	numHashes := streamprobe.CalculateNumHashes(size, numItems)
	return NewBloomFilter(size, numHashes)
}

// Normalize converts an arbitrary item to the string form the filter
// hashes. A nil item normalizes to the empty string; callers rely on this
// to treat non-string identifiers consistently.
func Normalize(item any) string {
	switch v := item.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Add inserts _item_ into the filter. It returns false and leaves the bits
// untouched when the normalized item is empty or all-whitespace; blank
// items are routine input, not an error.
func (bloomFilter *BloomFilter) Add(item any) bool {
	s := Normalize(item)
	if strings.TrimSpace(s) == "" {
		return false
	}
	data := []byte(s)
	for i := uint(0); i < bloomFilter.numHashes; i++ {
		bloomFilter.filter.Insert(bloomFilter.index(data, i))
	}
	return true
}

// Contains reports whether _item_ may have been added before. Blank items
// report false, as in Add. A true result may be a false positive; a false
// result is always exact.
func (bloomFilter *BloomFilter) Contains(item any) bool {
	s := Normalize(item)
	if strings.TrimSpace(s) == "" {
		return false
	}
	data := []byte(s)
	for i := uint(0); i < bloomFilter.numHashes; i++ {
		if ok, _ := bloomFilter.filter.Has(bloomFilter.index(data, i)); !ok {
			return false
		}
	}
	return true
}

// index derives the bit position for probe _i_ by hashing under seed i.
func (bloomFilter *BloomFilter) index(data []byte, i uint) uint {
	return uint(hash.Sum64Seeded(data, uint64(i)) % uint64(bloomFilter.size))
}

func (bloomFilter *BloomFilter) Size() uint {
	return bloomFilter.size
}

func (bloomFilter *BloomFilter) NumHashes() uint {
	return bloomFilter.numHashes
}

// PositiveRate estimates the current false positive probability from the
// filter's load factor.
func (bloomFilter *BloomFilter) PositiveRate() float64 {
	length, _ := bloomFilter.filter.BitCount()
	return math.Pow(1-math.Exp(-float64(length)/float64(bloomFilter.size)), float64(bloomFilter.numHashes))
}

func (aFilter *BloomFilter) Equals(bFilter *BloomFilter) (bool, error) {
	if aFilter.size != bFilter.size || aFilter.numHashes != bFilter.numHashes {
		return false, nil
	}
	return aFilter.filter.Equals(bFilter.filter)
}
