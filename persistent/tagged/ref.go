package tagged

import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"
)

const (
	// TagBits is the number of low address bits reserved for a tag.
	TagBits = 2
	// MaxTag is the largest tag a Ref can carry.
	MaxTag uint = 1<<TagBits - 1
)

const tagMask = uintptr(MaxTag)

// ErrInvalidTag is returned if a tag does not fit into TagBits.
var ErrInvalidTag = errors.New("tag exceeds reserved bit width")

// cell is the heap storage behind a Ref. The leading pad guarantees an
// alignment of at least 4 and at least 4 addressable bytes, so every tagged
// address stays inside the allocation.
type cell[T any] struct {
	_     uint32
	value T
}

// Ref is a reference with a tag in its low address bits.
// The zero value is a nil reference with tag 0.
type Ref struct {
	p unsafe.Pointer
}

// New allocates storage for value and returns a reference to it, tagged with tag.
// If tag is greater than MaxTag, New returns ErrInvalidTag.
func New[T any](value T, tag uint) (Ref, error) {
	if tag > MaxTag {
		return Ref{}, errors.Wrapf(ErrInvalidTag, "tag %d > %d", tag, MaxTag)
	}
	c := &cell[T]{value: value}
	p := unsafe.Pointer(c)
	assertThat(uintptr(p)&tagMask == 0, "cell at %p is not aligned for %d tag bits", p, TagBits)
	return Ref{p: unsafe.Add(p, int(tag))}, nil
}

// MustNew is like New, but panics if tag is invalid. Use it where an invalid
// tag can only be the result of a programming error.
func MustNew[T any](value T, tag uint) Ref {
	r, err := New(value, tag)
	if err != nil {
		tracer().Errorf("%v", err)
		panic(err)
	}
	return r
}

// Tag returns the tag of r.
func (r Ref) Tag() uint {
	return uint(uintptr(r.p) & tagMask)
}

// IsNil is true for the zero Ref.
func (r Ref) IsNil() bool {
	return r.p == nil
}

// Deref returns a pointer to the value r references. T has to be the type of the
// value r has been created with; this is not checked. Deref returns nil for a nil Ref.
func Deref[T any](r Ref) *T {
	if r.p == nil {
		return nil
	}
	c := (*cell[T])(unsafe.Add(r.p, -int(r.Tag())))
	return &c.value
}

// Same is true if r and other reference the same cell, regardless of their tags.
func (r Ref) Same(other Ref) bool {
	return unsafe.Add(r.p, -int(r.Tag())) == unsafe.Add(other.p, -int(other.Tag()))
}

func (r Ref) String() string {
	if r.p == nil {
		return "Ref(nil)"
	}
	return fmt.Sprintf("Ref(%p|%d)", unsafe.Add(r.p, -int(r.Tag())), r.Tag())
}

// ---------------------------------------------------------------------------

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("tagged: "+msg, msgargs...)
		panic(msg)
	}
}
