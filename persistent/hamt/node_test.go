package hamt

import (
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tp "github.com/xlab/treeprint"
)

func identity(k uint64) uint64 { return k }

func TestCursorIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	defer teardown()
	//
	c := newCursor[uint64](0b00011_00010_00001, identity)
	for level, expected := range []int{1, 2, 3, 0} {
		if c.index() != expected {
			t.Errorf("expected index at level %d to be %d, is %d", level, expected, c.index())
		}
		c = c.advance()
	}
	if c.level != 4 {
		t.Errorf("expected cursor level to be 4, is %d", c.level)
	}
}

func TestCursorRekey(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	defer teardown()
	//
	c := newCursor[uint64](1, identity).advance().advance()
	d := c.rekey(0xffff)
	assert.Equal(t, uint8(2), d.level)
	assert.Equal(t, uint64(0xffff)>>10, d.hash, "hash must be shifted by 5*level")
	assert.Equal(t, uint64(0xffff), d.key)
}

func TestCursorExhausted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	defer teardown()
	//
	c := newCursor[uint64](^uint64(0), identity)
	for !c.exhausted() {
		c = c.advance()
	}
	assert.Equal(t, maxLevel, c.level)
	assert.Equal(t, 0b1111, c.index(), "only 4 hash bits left at the last level")
	assert.Panics(t, func() { c.advance() })
}

func TestDefaultHash(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	defer teardown()
	//
	assert.Equal(t, defaultHash("abc"), defaultHash("ab"+"c"))
	assert.NotEqual(t, defaultHash("abc"), defaultHash("abd"))
	assert.Equal(t, defaultHash(42), defaultHash(42))
	assert.NotEqual(t, defaultHash(42), defaultHash(43))
	type point struct{ x, y int }
	assert.Equal(t, defaultHash(point{1, 2}), defaultHash(point{1, 2}))
}

func TestBucket(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	defer teardown()
	//
	cur := func(k int) cursor[int] { return newCursor(k, func(int) uint64 { return 0 }) }
	b := newBucket(pair[int, string]{42, "a"})
	bb, isNew := b.insert(cur(7), "b")
	require.True(t, isNew)
	assert.Equal(t, 1, b.size(), "original bucket must not change")
	assert.Equal(t, 2, bb.size())
	bbb, isNew := bb.insert(cur(7), "c")
	require.False(t, isNew)
	v, found := bbb.get(cur(7))
	assert.True(t, found)
	assert.Equal(t, "c", v)
	v, _ = bb.get(cur(7))
	assert.Equal(t, "b", v)
	_, found = bb.remove(cur(99))
	assert.False(t, found)
	r, found := bb.remove(cur(42))
	require.True(t, found)
	assert.True(t, r.isSingleton())
	_, found = r.get(cur(42))
	assert.False(t, found)
}

func TestBucketSetEquality(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	defer teardown()
	//
	eq := func(a, b int) bool { return a == b }
	b1 := newBucket(pair[int, int]{0, 0}, pair[int, int]{1, 0})
	b2 := newBucket(pair[int, int]{1, 0}, pair[int, int]{0, 0})
	b3 := newBucket(pair[int, int]{1, 0}, pair[int, int]{0, 1})
	assert.True(t, b1.equal(b2, eq), "order of pairs must not matter")
	assert.False(t, b1.equal(b3, eq))
	assert.False(t, b1.equal(newBucket(pair[int, int]{0, 0}), eq))
}

func TestNodeInsertGet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	defer teardown()
	//
	var root trie[uint64, int] = &node[uint64, int]{}
	assert.Equal(t, 0, root.size())
	root, isNew := root.insert(newCursor[uint64](0, identity), 0)
	assert.True(t, isNew)
	assert.Equal(t, 1, root.size())
	rr, isNew := root.insert(newCursor[uint64](0, identity), 1)
	assert.False(t, isNew)
	assert.Equal(t, 1, rr.size())
	// 0 and 32 share slot 0 on level 0
	root, isNew = root.insert(newCursor[uint64](32, identity), 32)
	assert.True(t, isNew)
	assert.Equal(t, 2, root.size())
	n := root.(*node[uint64, int])
	assert.Equal(t, child, n.entries[0].kind)
	for _, k := range []uint64{0, 32} {
		v, found := root.get(newCursor(k, identity))
		assert.True(t, found)
		assert.Equal(t, int(k), v)
	}
	_, found := root.get(newCursor[uint64](64, identity))
	assert.False(t, found)
}

func TestNodeRemoveNormalizes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	defer teardown()
	//
	var root trie[uint64, int] = &node[uint64, int]{}
	for _, k := range []uint64{0, 32, 1 << 20} { // all in slot 0, 1<<20 deep down
		root, _ = root.insert(newCursor(k, identity), int(k))
	}
	t.Log(printNode(root.(*node[uint64, int])))
	r, found := root.remove(newCursor[uint64](32, identity))
	require.True(t, found)
	require.True(t, r.(*node[uint64, int]).isNormal())
	r, found = r.remove(newCursor[uint64](0, identity))
	require.True(t, found)
	n := r.(*node[uint64, int])
	assert.Equal(t, kv, n.entries[0].kind, "single remaining pair must be collapsed into root")
	assert.Equal(t, uint64(1<<20), n.entries[0].key)
	assert.True(t, n.isSingleton())
	_, found = r.remove(newCursor[uint64](0, identity))
	assert.False(t, found)
}

func TestNodeCollisionAtMaxLevel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	defer teardown()
	//
	constant := func(string) uint64 { return 0xdeadbeef }
	var root trie[string, int] = &node[string, int]{}
	root, _ = root.insert(newCursor("a", constant), 1)
	root, _ = root.insert(newCursor("b", constant), 2)
	// walk down the chain of single-child nodes to the bucket
	n := root.(*node[string, int])
	c := newCursor("a", constant)
	for depth := uint8(0); depth < maxLevel; depth++ {
		e := n.entries[c.index()]
		require.Equal(t, child, e.kind, "expected child at depth %d", depth)
		n, c = e.sub.(*node[string, int]), c.advance()
	}
	assert.Equal(t, collision, n.entries[c.index()].kind)
	assert.Equal(t, 2, root.size())
}

func TestNodeFirstRest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	defer teardown()
	//
	var root trie[int, int] = &node[int, int]{}
	hf := func(k int) uint64 { return uint64(k % 100) }
	for k := 0; k < 500; k++ {
		root, _ = root.insert(newCursor(k, hf), k)
	}
	seen := map[int]bool{}
	for root.size() > 0 {
		k, v, rest, ok := root.firstRest()
		require.True(t, ok)
		require.Equal(t, k, v)
		require.False(t, seen[k], "key %d returned twice", k)
		seen[k] = true
		_, found := rest.get(newCursor(k, hf))
		require.False(t, found)
		require.Equal(t, root.size()-1, rest.size())
		require.True(t, rest.(*node[int, int]).isNormal())
		root = rest
	}
	assert.Len(t, seen, 500)
	_, _, _, ok := root.firstRest()
	assert.False(t, ok)
}

func TestNodeIsSingleton(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fp.hamt")
	defer teardown()
	//
	var root trie[uint64, int] = &node[uint64, int]{}
	assert.False(t, root.isSingleton())
	root, _ = root.insert(newCursor[uint64](0, identity), 0)
	assert.True(t, root.isSingleton())
	root, _ = root.insert(newCursor[uint64](32, identity), 0)
	assert.False(t, root.isSingleton())
}

// --- Print trie ------------------------------------------------------------

func printMap[K comparable, V any](m Map[K, V]) string {
	header := fmt.Sprintf("\nMap(size=%d)\n", m.size)
	if m.root == nil {
		return header
	}
	return header + printNode(m.root)
}

func printNode[K comparable, V any](n *node[K, V]) string {
	printer := tp.New()
	printEntries(printer, n, 0)
	return printer.String() + "\n"
}

func printEntries[K comparable, V any](printer tp.Tree, n *node[K, V], level int) {
	for i := range n.entries {
		e := &n.entries[i]
		switch e.kind {
		case kv:
			printer.AddNode(fmt.Sprintf("%2d: %v=%v", i, e.key, e.value))
		case child:
			branch := printer.AddBranch(fmt.Sprintf("%2d: level %d", i, level+1))
			printEntries(branch, e.sub.(*node[K, V]), level+1)
		case collision:
			printer.AddNode(fmt.Sprintf("%2d: %s", i, e.sub))
		}
	}
}
