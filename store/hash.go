package store

import "github.com/cespare/xxhash/v2"

// keyHash returns the deterministic hash used to place a List's associative
// items into its K-slot key area (spec.md §4.1). Both Symbol names and
// CharacterList byte content are hashed the same way, as byte slices, so a
// Symbol key and an equal-content CharacterList key land in the same slot
// family during probing.
func keyHash(b []byte) uint64 {
	return xxhash.Sum64(b)
}
