package filters

import "strings"

// Status is the classification of a single candidate item.
type Status string

const (
	StatusInvalid     Status = "invalid (empty/absent)"
	StatusAlreadyUsed Status = "already used"
	StatusUnique      Status = "unique"
)

// CheckUniqueness classifies each candidate, in input order, as invalid,
// already used, or unique against _filter_. Every unique candidate is added
// to the filter before the next one is looked at, so duplicates within the
// same batch are detected too.
//
// The returned map is keyed by the candidate's normalized string form.
// When two distinct candidates normalize to the same string the later one
// overwrites the earlier entry; the filter itself is still mutated in
// input order.
func CheckUniqueness(filter *BloomFilter, candidates []any) map[string]Status {
	results := make(map[string]Status, len(candidates))

	for _, candidate := range candidates {
		key := Normalize(candidate)

		if strings.TrimSpace(key) == "" {
			results[key] = StatusInvalid
			continue
		}

		if filter.Contains(candidate) {
			results[key] = StatusAlreadyUsed
		} else {
			results[key] = StatusUnique
			filter.Add(candidate)
		}
	}

	return results
}
