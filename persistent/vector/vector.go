package vector

import (
	"iter"

	"github.com/npillmayer/immutable/maybe"
	"github.com/pkg/errors"
)

// ErrIndexOutOfRange is returned for access to a position not present in a vector.
var ErrIndexOutOfRange = errors.New("vector index out of range")

// Vector is an immutable persistent vector. An empty instance is usable as an
// empty vector, i.e. this is legal:
//
//     v := vector.Vector[int]{}.PushBack(1)
//
type Vector[T any] struct {
	props
	root   nodeRef[T]
	length int
}

type props struct {
	checked bool // verify balance after every mutation
}

// Empty returns an empty vector.
func Empty[T any]() Vector[T] {
	return Vector[T]{}
}

// Immutable constructs an empty vector with options, if you need any.
func Immutable[T any](opts ...Option) Vector[T] {
	v := Vector[T]{}
	for _, option := range opts {
		v.props = option.config(v.props)
	}
	return v
}

// Option is a type to help initializing vectors at creation time.
type Option struct {
	config func(props) props
}

// Checked is an option to verify the balance of a vector's tree after every
// mutation. A violation panics. Intended for testing and debugging.
//
// Use it like this:
//
//     vec := vector.Immutable[int](vector.Checked())
//
func Checked() Option {
	conf := func(p props) props {
		p.checked = true
		return p
	}
	return Option{config: conf}
}

// FromSlice creates a vector holding the values of xs, in order.
func FromSlice[T any](xs ...T) Vector[T] {
	v := Vector[T]{}
	for _, x := range xs {
		v = v.PushBack(x)
	}
	return v
}

func (v Vector[T]) derive(root nodeRef[T], length int) Vector[T] {
	w := Vector[T]{props: v.props, root: root, length: length}
	if w.checked && !w.root.isNil() {
		assertThat(w.root.balanced(), "vector of length %d not balanced", w.length)
		assertThat(w.root.len() == w.length, "vector length is %d, tree holds %d", w.length, w.root.len())
	}
	return w
}

// --- API -------------------------------------------------------------------

// Len returns the number of values in v.
func (v Vector[T]) Len() int {
	return v.length
}

// IsEmpty is true for a vector of length 0.
func (v Vector[T]) IsEmpty() bool {
	return v.length == 0
}

// PushBack returns a copy of v with value appended.
func (v Vector[T]) PushBack(value T) Vector[T] {
	if v.root.isNil() {
		return v.derive(branch(value, 0), 1)
	}
	root, ok := v.root.pushBack(value)
	if !ok { // root is full => grow in height
		level := v.root.level()
		tracer().Debugf("vector root full at length %d, growing to height %d", v.length, level+1)
		n := internal[T]{count: 2, height: level + 1}
		n.slots[0] = slot[T]{child: v.root, cumlen: v.length}
		n.slots[1] = slot[T]{child: branch(value, level), cumlen: v.length + 1}
		root = internalRef(n)
	}
	return v.derive(root, v.length+1)
}

// At returns the value at position i. If i is not a valid position in v, At
// returns ErrIndexOutOfRange.
func (v Vector[T]) At(i int) (T, error) {
	if i < 0 || i >= v.length {
		var zero T
		return zero, errors.Wrapf(ErrIndexOutOfRange, "index %d with length %d", i, v.length)
	}
	return v.root.at(i), nil
}

// Get is like At, but panics for invalid positions.
func (v Vector[T]) Get(i int) T {
	assertThat(i >= 0 && i < v.length, "vector index out of bounds: %d with length %d", i, v.length)
	return v.root.at(i)
}

// Set returns a copy of v with the value at position i replaced by value.
func (v Vector[T]) Set(i int, value T) (Vector[T], error) {
	if i < 0 || i >= v.length {
		return v, errors.Wrapf(ErrIndexOutOfRange, "set at index %d with length %d", i, v.length)
	}
	return v.derive(v.root.set(i, value), v.length), nil
}

// Last returns the last value of v, or Nothing for an empty vector.
func (v Vector[T]) Last() maybe.Maybe[T] {
	if v.length == 0 {
		return maybe.Nothing[T]()
	}
	return maybe.Just(v.root.at(v.length - 1))
}

// Pop returns a copy of v without its last value. Popping from an empty vector
// returns ErrIndexOutOfRange.
func (v Vector[T]) Pop() (Vector[T], error) {
	if v.length == 0 {
		return v, errors.Wrap(ErrIndexOutOfRange, "pop from empty vector")
	}
	root := v.root.popBack()
	for !root.isNil() && !root.isLeaf() && root.internal().count == 1 {
		root = root.internal().slots[0].child
		tracer().Debugf("vector root has single child, lowering height to %d", root.level())
	}
	return v.derive(root, v.length-1), nil
}

// Append returns a vector holding the values of v, followed by the values of other.
// If v is empty, the result shares all of its structure with other.
func (v Vector[T]) Append(other Vector[T]) Vector[T] {
	if other.length == 0 {
		return v
	}
	if v.length == 0 {
		return v.derive(other.root, other.length)
	}
	tracer().Debugf("appending %d values to vector of length %d", other.length, v.length)
	w := v
	for value := range other.Values() {
		w = w.PushBack(value)
	}
	return w
}

// All returns an iterator over the positions and values of v, in order.
func (v Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if v.root.isNil() {
			return
		}
		i := 0
		v.root.all(func(value T) bool {
			ok := yield(i, value)
			i++
			return ok
		})
	}
}

// Values returns an iterator over the values of v, in order.
func (v Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		if v.root.isNil() {
			return
		}
		v.root.all(yield)
	}
}

// Slice copies the values of v into a new slice.
func (v Vector[T]) Slice() []T {
	s := make([]T, 0, v.length)
	for value := range v.Values() {
		s = append(s, value)
	}
	return s
}
