// Package hash collects the hash functions used by the data structures.
// None of them is cryptographic; the structures only need uniform
// distribution, not preimage resistance.
package hash

import (
	"github.com/cespare/xxhash/v2"
	metro "github.com/dgryski/go-metro"
)

// Sum64Seeded hashes _data_ under _seed_. Distinct seeds behave as an
// effectively independent hash family, which is what the membership filter
// relies on for its per-probe indices.
func Sum64Seeded(data []byte, seed uint64) uint64 {
	return metro.Hash64(data, seed)
}

// Sum64String is the well-distributed 64-bit digest the cardinality
// estimator splits into a register index and a rank suffix.
func Sum64String(s string) uint64 {
	return xxhash.Sum64String(s)
}
