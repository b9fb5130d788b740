package hamt

import (
	"fmt"
	"iter"
	"strings"

	"github.com/npillmayer/immutable/maybe"
)

// Map is an immutable persistent hash map. An empty instance is usable as an
// empty map, i.e. this is legal:
//
//     m := hamt.Map[string, int]{}.Insert("a", 1)
//
type Map[K comparable, V any] struct {
	props[K]
	size int
	root *node[K, V]
}

type props[K comparable] struct {
	hash    hashFunc[K] // nil selects the default hash function
	checked bool        // verify normalization after removals
}

func (p props[K]) hasher() hashFunc[K] {
	if p.hash == nil {
		return defaultHash[K]
	}
	return p.hash
}

// Empty returns an empty map.
func Empty[K comparable, V any]() Map[K, V] {
	return Map[K, V]{}
}

// Immutable constructs an empty map with options, if you need any.
// Use it like this:
//
//     m := hamt.Immutable[string, int](hamt.Hasher(myHash))
//     m = m.Insert("Galaxy", 42)
//
// Options are inherited by every map derived from m.
func Immutable[K comparable, V any](opts ...Option[K]) Map[K, V] {
	m := Map[K, V]{}
	for _, option := range opts {
		m.props = option(m.props)
	}
	return m
}

// Option is a type to help initializing maps at creation time.
type Option[K comparable] func(props[K]) props[K]

// Hasher is an option to replace the default hash function for keys.
// Equal keys must produce equal hashes. Maps which are compared with
// Equal must use the same hash function.
func Hasher[K comparable](h func(K) uint64) Option[K] {
	return func(p props[K]) props[K] {
		p.hash = h
		return p
	}
}

// Checked is an option to verify the normal form of a map after every
// removal. A violation panics. Intended for testing and debugging.
func Checked[K comparable]() Option[K] {
	return func(p props[K]) props[K] {
		p.checked = true
		return p
	}
}

// --- API -------------------------------------------------------------------

// Size returns the number of key/value pairs in m.
func (m Map[K, V]) Size() int {
	return m.size
}

// IsEmpty is true if m holds no key/value pairs.
func (m Map[K, V]) IsEmpty() bool {
	return m.size == 0
}

// Insert returns a copy of m with key associated to value. If key is already
// present in m, its value is replaced in the copy.
func (m Map[K, V]) Insert(key K, value V) Map[K, V] {
	root := m.root
	if root == nil {
		root = &node[K, V]{}
	}
	t, isNew := root.insert(newCursor(key, m.hasher()), value)
	newMap := Map[K, V]{props: m.props, size: m.size, root: t.(*node[K, V])}
	if isNew {
		newMap.size++
	}
	return newMap
}

// Remove returns a copy of m without key. If key is not present in m,
// Remove returns m unchanged and false.
func (m Map[K, V]) Remove(key K) (Map[K, V], bool) {
	if m.root == nil {
		return m, false
	}
	t, found := m.root.remove(newCursor(key, m.hasher()))
	if !found {
		return m, false
	}
	newMap := Map[K, V]{props: m.props, size: m.size - 1, root: t.(*node[K, V])}
	if newMap.size == 0 {
		newMap.root = nil
	}
	if m.checked {
		assertThat(newMap.root == nil || newMap.root.isNormal(),
			"map not in normal form after removing %v", key)
	}
	return newMap, true
}

// Get returns the value associated with key, if present. If key is not found,
// the zero value for V will be returned, together with found=false.
func (m Map[K, V]) Get(key K) (V, bool) {
	if m.root == nil {
		var none V
		return none, false
	}
	return m.root.get(newCursor(key, m.hasher()))
}

// Lookup is like Get, but wraps the result into a Maybe.
func (m Map[K, V]) Lookup(key K) maybe.Maybe[V] {
	if v, found := m.Get(key); found {
		return maybe.Just(v)
	}
	return maybe.Nothing[V]()
}

// Contains is true if key is present in m.
func (m Map[K, V]) Contains(key K) bool {
	_, found := m.Get(key)
	return found
}

// FirstRest splits off an arbitrary key/value pair from m. It returns the pair
// together with a copy of m without the pair. Which pair is chosen depends on
// the trie layout, not on the order of insertion. For an empty map, ok is false.
func (m Map[K, V]) FirstRest() (key K, value V, rest Map[K, V], ok bool) {
	if m.root == nil {
		return key, value, m, false
	}
	var t trie[K, V]
	key, value, t, ok = m.root.firstRest()
	assertThat(ok, "non-empty map has no first pair")
	rest = Map[K, V]{props: m.props, size: m.size - 1, root: t.(*node[K, V])}
	if rest.size == 0 {
		rest.root = nil
	}
	return key, value, rest, true
}

// All returns an iterator over the key/value pairs of m. Iteration order is
// unspecified and unrelated to the order of insertion. The iterator may be
// used any number of times and always yields exactly the pairs of m.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return m.root.seq()
}

// Keys returns an iterator over the keys of m, in the same order as All.
func (m Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over the values of m, in the same order as All.
func (m Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Equal is true if a and b hold the same key/value pairs.
// a and b must use the same hash function.
func Equal[K, V comparable](a, b Map[K, V]) bool {
	return EqualFunc(a, b, func(x, y V) bool { return x == y })
}

// EqualFunc is like Equal, but compares values with eq.
func EqualFunc[K comparable, V any](a, b Map[K, V], eq func(V, V) bool) bool {
	if a.size != b.size {
		return false
	}
	if a.root == nil || b.root == nil {
		return a.size == 0
	}
	return a.root.equal(b.root, eq)
}

func (m Map[K, V]) String() string {
	sb := strings.Builder{}
	sb.WriteByte('{')
	first := true
	for k, v := range m.All() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(fmt.Sprintf("%v:%v", k, v))
	}
	sb.WriteByte('}')
	return sb.String()
}
