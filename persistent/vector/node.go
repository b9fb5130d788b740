package vector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/immutable/persistent/tagged"
)

const (
	bits   = 5 // will produce nodes with degree  2 ^ 5 = 32
	degree = 1 << bits
)

// Tags for node references.
const (
	internalTag uint = 0
	leafTag     uint = 1
)

// leaf holds up to 32 values of a vector.
type leaf[T any] struct {
	values [degree]T
	count  int
}

// slot links an inner node to one of its children. cumlen is the number of values
// held by the child and all of its siblings to the left.
type slot[T any] struct {
	child  nodeRef[T]
	cumlen int
}

// internal is an inner node of the vector's tree. Leafs have height 0.
type internal[T any] struct {
	slots  [degree]slot[T]
	count  int
	height int
}

// nodeRef references either a leaf or an internal node, discriminated by the tag
// of its tagged reference. Nodes are never modified after a reference to them has
// been created.
type nodeRef[T any] struct {
	ref tagged.Ref
}

func leafRef[T any](l leaf[T]) nodeRef[T] {
	return nodeRef[T]{ref: tagged.MustNew(l, leafTag)}
}

func internalRef[T any](n internal[T]) nodeRef[T] {
	return nodeRef[T]{ref: tagged.MustNew(n, internalTag)}
}

func (r nodeRef[T]) isNil() bool {
	return r.ref.IsNil()
}

func (r nodeRef[T]) isLeaf() bool {
	return r.ref.Tag() == leafTag
}

func (r nodeRef[T]) leaf() *leaf[T] {
	assertThat(r.isLeaf(), "node reference is not a leaf: %v", r.ref)
	return tagged.Deref[leaf[T]](r.ref)
}

func (r nodeRef[T]) internal() *internal[T] {
	assertThat(r.ref.Tag() == internalTag, "node reference is not an inner node: %v", r.ref)
	return tagged.Deref[internal[T]](r.ref)
}

// branch creates a minimal branch at the given height, i.e. a chain of inner nodes
// with a single child each, ending in a leaf holding value.
func branch[T any](value T, height int) nodeRef[T] {
	if height == 0 {
		l := leaf[T]{count: 1}
		l.values[0] = value
		return leafRef(l)
	}
	n := internal[T]{count: 1, height: height}
	n.slots[0] = slot[T]{child: branch(value, height-1), cumlen: 1}
	return internalRef(n)
}

// level is the height of the node, with leafs at level 0.
func (r nodeRef[T]) level() int {
	if r.isLeaf() {
		return 0
	}
	return r.internal().height
}

// len is the number of values in the subtree of r.
func (r nodeRef[T]) len() int {
	if r.isLeaf() {
		return r.leaf().count
	}
	n := r.internal()
	if n.count == 0 {
		return 0
	}
	return n.slots[n.count-1].cumlen
}

// pushBack appends value to the rightmost leaf of r's subtree. If the subtree has no
// room left, pushBack returns false and a nil reference.
func (r nodeRef[T]) pushBack(value T) (nodeRef[T], bool) {
	if r.isLeaf() {
		l := *r.leaf()
		if l.count == degree {
			return nodeRef[T]{}, false
		}
		l.values[l.count] = value
		l.count++
		return leafRef(l), true
	}
	n := *r.internal()
	last := n.slots[n.count-1]
	if child, ok := last.child.pushBack(value); ok {
		n.slots[n.count-1] = slot[T]{child: child, cumlen: last.cumlen + 1}
		return internalRef(n), true
	}
	if n.count == degree {
		return nodeRef[T]{}, false
	}
	n.slots[n.count] = slot[T]{child: branch(value, n.height-1), cumlen: last.cumlen + 1}
	n.count++
	return internalRef(n), true
}

// popBack removes the last value of r's subtree. Nodes which become empty are
// dropped; if r itself becomes empty, popBack returns a nil reference.
func (r nodeRef[T]) popBack() nodeRef[T] {
	if r.isLeaf() {
		l := *r.leaf()
		if l.count == 1 {
			return nodeRef[T]{}
		}
		l.count--
		var zero T
		l.values[l.count] = zero // do not retain popped value
		return leafRef(l)
	}
	n := *r.internal()
	last := n.count - 1
	child := n.slots[last].child.popBack()
	if child.isNil() {
		if n.count == 1 {
			return nodeRef[T]{}
		}
		n.slots[last] = slot[T]{}
		n.count--
		return internalRef(n)
	}
	n.slots[last] = slot[T]{child: child, cumlen: n.slots[last].cumlen - 1}
	return internalRef(n)
}

// find locates the child containing index i, together with the number of values
// left of this child.
func (n *internal[T]) find(i int) (int, int) {
	j := sort.Search(n.count, func(k int) bool {
		return n.slots[k].cumlen > i
	})
	assertThat(j < n.count, "index %d beyond cumulative length of node", i)
	if j == 0 {
		return 0, 0
	}
	return j, n.slots[j-1].cumlen
}

func (r nodeRef[T]) at(i int) T {
	for !r.isLeaf() {
		n := r.internal()
		j, offset := n.find(i)
		i -= offset
		r = n.slots[j].child
	}
	return r.leaf().values[i]
}

// set replaces the value at index i, copying the path from r down to the leaf.
func (r nodeRef[T]) set(i int, value T) nodeRef[T] {
	if r.isLeaf() {
		l := *r.leaf()
		l.values[i] = value
		return leafRef(l)
	}
	n := *r.internal()
	j, offset := n.find(i)
	n.slots[j].child = n.slots[j].child.set(i-offset, value)
	return internalRef(n)
}

// balanced checks the structure of r's subtree: every inner node has children one
// level below itself, and cumulative lengths add up.
func (r nodeRef[T]) balanced() bool {
	if r.isLeaf() {
		l := r.leaf()
		return l.count > 0 && l.count <= degree
	}
	n := r.internal()
	if n.count == 0 || n.count > degree {
		return false
	}
	cumlen := 0
	for j := 0; j < n.count; j++ {
		s := n.slots[j]
		if s.child.isNil() || s.child.level() != n.height-1 || !s.child.balanced() {
			return false
		}
		cumlen += s.child.len()
		if s.cumlen != cumlen {
			return false
		}
	}
	return true
}

// all calls yield for every value in r's subtree, from left to right. It returns
// false as soon as yield does.
func (r nodeRef[T]) all(yield func(T) bool) bool {
	if r.isLeaf() {
		l := r.leaf()
		for _, value := range l.values[:l.count] {
			if !yield(value) {
				return false
			}
		}
		return true
	}
	n := r.internal()
	for j := 0; j < n.count; j++ {
		if !n.slots[j].child.all(yield) {
			return false
		}
	}
	return true
}

func (r nodeRef[T]) String() string {
	if r.isNil() {
		return "[]"
	}
	b := strings.Builder{}
	b.WriteByte('[')
	if r.isLeaf() {
		l := r.leaf()
		for i, value := range l.values[:l.count] {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(fmt.Sprintf("%v", value))
		}
	} else {
		n := r.internal()
		for j := range n.slots {
			if j > 0 {
				b.WriteByte(',')
			}
			if j < n.count {
				b.WriteString("▪︎")
			} else {
				b.WriteByte('_')
			}
		}
	}
	b.WriteByte(']')
	return b.String()
}

// --- Helpers ---------------------------------------------------------------

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("vector: "+msg, msgargs...)
		panic(msg)
	}
}
