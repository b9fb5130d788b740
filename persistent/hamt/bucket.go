package hamt

import (
	"fmt"
	"strings"
)

type pair[K comparable, V any] struct {
	key   K
	value V
}

// bucket holds key/value pairs whose keys share all of their hash bits.
// Keys within a bucket are pairwise distinct. There is no limit on the number
// of pairs.
type bucket[K comparable, V any] struct {
	pairs []pair[K, V]
}

func newBucket[K comparable, V any](pairs ...pair[K, V]) *bucket[K, V] {
	b := &bucket[K, V]{pairs: make([]pair[K, V], len(pairs))}
	copy(b.pairs, pairs)
	return b
}

func (b *bucket[K, V]) find(key K) int {
	for i, p := range b.pairs {
		if p.key == key {
			return i
		}
	}
	return -1
}

func (b *bucket[K, V]) insert(c cursor[K], value V) (trie[K, V], bool) {
	if i := b.find(c.key); i >= 0 {
		cow := newBucket(b.pairs...) // copy-on-write
		cow.pairs[i].value = value
		return cow, false
	}
	cow := &bucket[K, V]{pairs: make([]pair[K, V], len(b.pairs), len(b.pairs)+1)}
	copy(cow.pairs, b.pairs)
	cow.pairs = append(cow.pairs, pair[K, V]{c.key, value})
	return cow, true
}

func (b *bucket[K, V]) remove(c cursor[K]) (trie[K, V], bool) {
	i := b.find(c.key)
	if i < 0 {
		return b, false
	}
	cow := &bucket[K, V]{pairs: make([]pair[K, V], 0, len(b.pairs)-1)}
	cow.pairs = append(cow.pairs, b.pairs[:i]...)
	cow.pairs = append(cow.pairs, b.pairs[i+1:]...)
	return cow, true
}

func (b *bucket[K, V]) get(c cursor[K]) (V, bool) {
	if i := b.find(c.key); i >= 0 {
		return b.pairs[i].value, true
	}
	var none V
	return none, false
}

func (b *bucket[K, V]) firstRest() (K, V, trie[K, V], bool) {
	if len(b.pairs) == 0 {
		var k K
		var v V
		return k, v, b, false
	}
	first := b.pairs[0]
	rest := newBucket(b.pairs[1:]...)
	return first.key, first.value, rest, true
}

func (b *bucket[K, V]) isSingleton() bool {
	return len(b.pairs) == 1
}

func (b *bucket[K, V]) size() int {
	return len(b.pairs)
}

// equal compares buckets as sets of pairs; the order of pairs does not matter.
func (b *bucket[K, V]) equal(other *bucket[K, V], eq func(V, V) bool) bool {
	if b == other {
		return true
	}
	if len(b.pairs) != len(other.pairs) {
		return false
	}
	for _, p := range b.pairs {
		i := other.find(p.key)
		if i < 0 || !eq(p.value, other.pairs[i].value) {
			return false
		}
	}
	return true
}

func (b *bucket[K, V]) String() string {
	sb := strings.Builder{}
	sb.WriteString("bucket[")
	for i, p := range b.pairs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(fmt.Sprintf("%v:%v", p.key, p.value))
	}
	sb.WriteByte(']')
	return sb.String()
}
