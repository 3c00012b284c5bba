package common

import "strconv"

// Hash32 computes a 31-based polynomial rolling hash of s with explicit
// 32-bit wraparound arithmetic. The result is stable across platforms and
// releases, which matters because pool fingerprints and per-user shuffle
// seeds derived from it are compared against persisted values.
func Hash32(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}

// HashString returns Hash32 rendered as a decimal string, the canonical
// form stored alongside persisted pools.
func HashString(s string) string {
	return strconv.FormatUint(uint64(Hash32(s)), 10)
}

// StableShuffle reorders items in place with a Fisher–Yates shuffle driven
// by a deterministic xorshift32 stream seeded from seed. The same seed and
// input always produce the same ordering; different seeds diverge quickly.
func StableShuffle[T any](items []T, seed string) {
	state := Hash32(seed)
	if state == 0 {
		state = 0x9e3779b9
	}
	for i := len(items) - 1; i > 0; i-- {
		// xorshift32 step
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		j := int(state % uint32(i+1))
		items[i], items[j] = items[j], items[i]
	}
}
