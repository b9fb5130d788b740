package hamt

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"

	"github.com/fxamacker/circlehash"
)

const (
	bits     uint8  = 5 // will produce nodes with degree 2 ^ 5 = 32
	degree   int    = 1 << bits
	mask     uint64 = uint64(degree) - 1
	maxLevel uint8  = 64 / bits // beyond this level hash bits are exhausted
)

// hashFunc computes the 64-bit hash of a key.
type hashFunc[K comparable] func(K) uint64

// Seeds are drawn once per process. Hashes are not stable across processes.
var (
	circleSeed = rand.Uint64()
	mapSeed    = maphash.MakeSeed()
)

// defaultHash uses circlehash for strings and integers, and maphash for every
// other comparable type.
func defaultHash[K comparable](key K) uint64 {
	switch k := any(key).(type) {
	case string:
		return circlehash.Hash64String(k, circleSeed)
	case int:
		return circlehash.Hash64Uint64x2(uint64(k), 0, circleSeed)
	case int64:
		return circlehash.Hash64Uint64x2(uint64(k), 0, circleSeed)
	case int32:
		return circlehash.Hash64Uint64x2(uint64(k), 0, circleSeed)
	case int16:
		return circlehash.Hash64Uint64x2(uint64(k), 0, circleSeed)
	case int8:
		return circlehash.Hash64Uint64x2(uint64(k), 0, circleSeed)
	case uint:
		return circlehash.Hash64Uint64x2(uint64(k), 0, circleSeed)
	case uint64:
		return circlehash.Hash64Uint64x2(k, 0, circleSeed)
	case uint32:
		return circlehash.Hash64Uint64x2(uint64(k), 0, circleSeed)
	case uint16:
		return circlehash.Hash64Uint64x2(uint64(k), 0, circleSeed)
	case uint8:
		return circlehash.Hash64Uint64x2(uint64(k), 0, circleSeed)
	case uintptr:
		return circlehash.Hash64Uint64x2(uint64(k), 0, circleSeed)
	}
	return maphash.Comparable(mapSeed, key)
}

// cursor is a key together with its hash, positioned at a level of the trie.
// hash always holds the full hash of key shifted right by bits*level.
type cursor[K comparable] struct {
	key   K
	hash  uint64
	level uint8
	hf    hashFunc[K]
}

func newCursor[K comparable](key K, hf hashFunc[K]) cursor[K] {
	return cursor[K]{key: key, hash: hf(key), hf: hf}
}

// index is the slot index of the key at the current level.
func (c cursor[K]) index() int {
	return int(c.hash & mask)
}

// advance moves the cursor one level down.
func (c cursor[K]) advance() cursor[K] {
	assertThat(c.level < maxLevel, "hash bits of key %v exhausted", c.key)
	return cursor[K]{key: c.key, hash: c.hash >> bits, level: c.level + 1, hf: c.hf}
}

// rekey returns a cursor for another key, positioned at the same level as c.
func (c cursor[K]) rekey(key K) cursor[K] {
	return cursor[K]{key: key, hash: c.hf(key) >> (uint(bits) * uint(c.level)), level: c.level, hf: c.hf}
}

// exhausted is true if there is no level left below the cursor's level.
func (c cursor[K]) exhausted() bool {
	return c.level >= maxLevel
}

func (c cursor[K]) String() string {
	return fmt.Sprintf("⟨%v #%x @%d⟩", c.key, c.hash, c.level)
}
