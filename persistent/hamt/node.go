package hamt

import (
	"fmt"
	"iter"
	"strings"
)

// trie is implemented by the two kinds of sub-structures a slot may refer to:
// trie nodes and collision buckets.
type trie[K comparable, V any] interface {
	insert(c cursor[K], value V) (trie[K, V], bool) // bool: key is new
	remove(c cursor[K]) (trie[K, V], bool)          // bool: key has been found
	get(c cursor[K]) (V, bool)
	firstRest() (K, V, trie[K, V], bool)
	isSingleton() bool // used for normalization
	size() int
}

type entryKind uint8

const (
	empty entryKind = iota
	kv
	child
	collision
)

// entry is a slot of a trie node. Depending on kind, either key and value
// or sub are set. For kind child, sub is a *node, for kind collision a *bucket.
type entry[K comparable, V any] struct {
	kind  entryKind
	key   K
	value V
	sub   trie[K, V]
}

// node is a trie node with a fixed number of slots.
type node[K comparable, V any] struct {
	entries [degree]entry[K, V]
}

// with returns a copy of node with slot i replaced by e.
func (n *node[K, V]) with(i int, e entry[K, V]) *node[K, V] {
	cow := *n // copy-on-write
	cow.entries[i] = e
	return &cow
}

// wrap converts a sub-trie into a slot entry, collapsing it into a plain
// key/value entry if it holds a single pair only.
func wrap[K comparable, V any](sub trie[K, V], kind entryKind) entry[K, V] {
	if sub.isSingleton() {
		k, v, _, _ := sub.firstRest()
		return entry[K, V]{kind: kv, key: k, value: v}
	}
	return entry[K, V]{kind: kind, sub: sub}
}

func (n *node[K, V]) insert(c cursor[K], value V) (trie[K, V], bool) {
	i := c.index()
	e := n.entries[i]
	switch e.kind {
	case empty:
		return n.with(i, entry[K, V]{kind: kv, key: c.key, value: value}), true
	case kv:
		if e.key == c.key {
			return n.with(i, entry[K, V]{kind: kv, key: c.key, value: value}), false
		}
		if c.exhausted() {
			tracer().Debugf("hamt: keys %v and %v collide on all hash bits", e.key, c.key)
			b := newBucket(pair[K, V]{e.key, e.value}, pair[K, V]{c.key, value})
			return n.with(i, entry[K, V]{kind: collision, sub: b}), true
		}
		var sub trie[K, V] = &node[K, V]{}
		sub, _ = sub.insert(c.rekey(e.key).advance(), e.value)
		sub, _ = sub.insert(c.advance(), value)
		return n.with(i, entry[K, V]{kind: child, sub: sub}), true
	case child:
		sub, isNew := e.sub.insert(c.advance(), value)
		return n.with(i, entry[K, V]{kind: child, sub: sub}), isNew
	case collision:
		sub, isNew := e.sub.insert(c, value)
		return n.with(i, entry[K, V]{kind: collision, sub: sub}), isNew
	}
	panic(fmt.Sprintf("hamt: invalid entry kind %d", e.kind))
}

func (n *node[K, V]) remove(c cursor[K]) (trie[K, V], bool) {
	i := c.index()
	e := n.entries[i]
	switch e.kind {
	case kv:
		if e.key != c.key {
			return n, false
		}
		return n.with(i, entry[K, V]{}), true
	case child:
		sub, found := e.sub.remove(c.advance())
		if !found {
			return n, false
		}
		return n.with(i, wrap(sub, child)), true
	case collision:
		sub, found := e.sub.remove(c)
		if !found {
			return n, false
		}
		return n.with(i, wrap(sub, collision)), true
	}
	return n, false
}

func (n *node[K, V]) get(c cursor[K]) (V, bool) {
	var t trie[K, V] = n
	for {
		switch x := t.(type) {
		case *bucket[K, V]:
			return x.get(c)
		case *node[K, V]:
			e := &x.entries[c.index()]
			switch e.kind {
			case kv:
				if e.key == c.key {
					return e.value, true
				}
			case child:
				t, c = e.sub, c.advance()
				continue
			case collision:
				t = e.sub
				continue
			}
		}
		var none V
		return none, false
	}
}

func (n *node[K, V]) firstRest() (K, V, trie[K, V], bool) {
	for i := range n.entries {
		e := n.entries[i]
		switch e.kind {
		case kv:
			return e.key, e.value, n.with(i, entry[K, V]{}), true
		case child, collision:
			k, v, rest, ok := e.sub.firstRest()
			assertThat(ok, "sub-trie at slot %d is empty", i)
			return k, v, n.with(i, wrap(rest, e.kind)), true
		}
	}
	var k K
	var v V
	return k, v, n, false
}

func (n *node[K, V]) isSingleton() bool {
	cnt := 0
	for i := range n.entries {
		switch n.entries[i].kind {
		case kv:
			cnt++
		case child, collision:
			cnt += 2 // normalized sub-tries hold at least 2 pairs
		}
		if cnt > 1 {
			return false
		}
	}
	return cnt == 1
}

func (n *node[K, V]) size() int {
	cnt := 0
	for i := range n.entries {
		switch n.entries[i].kind {
		case kv:
			cnt++
		case child, collision:
			cnt += n.entries[i].sub.size()
		}
	}
	return cnt
}

// isNormal checks that no sub-trie below n holds a single pair only.
func (n *node[K, V]) isNormal() bool {
	for i := range n.entries {
		e := &n.entries[i]
		switch e.kind {
		case child:
			sub := e.sub.(*node[K, V])
			if sub.isSingleton() || sub.size() == 0 || !sub.isNormal() {
				return false
			}
		case collision:
			if e.sub.size() < 2 {
				return false
			}
		}
	}
	return true
}

// equal compares two normalized tries structurally. Shared sub-tries compare
// equal by identity.
func (n *node[K, V]) equal(other *node[K, V], eq func(V, V) bool) bool {
	if n == other {
		return true
	}
	for i := range n.entries {
		a, b := &n.entries[i], &other.entries[i]
		if a.kind != b.kind {
			return false
		}
		switch a.kind {
		case kv:
			if a.key != b.key || !eq(a.value, b.value) {
				return false
			}
		case child:
			if !a.sub.(*node[K, V]).equal(b.sub.(*node[K, V]), eq) {
				return false
			}
		case collision:
			if !a.sub.(*bucket[K, V]).equal(b.sub.(*bucket[K, V]), eq) {
				return false
			}
		}
	}
	return true
}

// all yields the pairs of n depth-first, in ascending slot order.
func (n *node[K, V]) all(yield func(K, V) bool) bool {
	for i := range n.entries {
		e := &n.entries[i]
		switch e.kind {
		case kv:
			if !yield(e.key, e.value) {
				return false
			}
		case child:
			if !e.sub.(*node[K, V]).all(yield) {
				return false
			}
		case collision:
			for _, p := range e.sub.(*bucket[K, V]).pairs {
				if !yield(p.key, p.value) {
					return false
				}
			}
		}
	}
	return true
}

func (n *node[K, V]) seq() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if n != nil {
			n.all(yield)
		}
	}
}

func (n *node[K, V]) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	for i := range n.entries {
		if i > 0 {
			b.WriteByte(',')
		}
		switch n.entries[i].kind {
		case empty:
			b.WriteByte('_')
		case kv:
			b.WriteString(fmt.Sprintf("%v", n.entries[i].key))
		case child:
			b.WriteString("▪︎")
		case collision:
			b.WriteString("≡")
		}
	}
	b.WriteByte(']')
	return b.String()
}

// ---------------------------------------------------------------------------

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("hamt: "+msg, msgargs...)
		panic(msg)
	}
}
