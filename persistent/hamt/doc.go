/*
Package hamt implements an immutable persistent map, based on a hash array mapped trie (HAMT).

Every “modification” of a map (insertion or removal) creates a new incarnation of
the map and leaves the original unmodified. Only the trie nodes on the path from
the root to the changed slot are copied; all other nodes are shared between
original and copy.

Trie nodes have 32 slots and consume 5 bits of a key's 64-bit hash per level.
Keys which collide on all of their hash bits are stored in collision buckets at
the bottom of the trie, so inserting never fails, even for adversarial hashes.

Maps are kept in a normal form: a subtrie or bucket never holds just a single
key/value pair. Two maps containing the same key/value pairs therefore have the
same structure, regardless of the order of insertions and removals which led to them.

Immutable maps are inherently concurrency-safe.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package hamt

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fp.hamt'.
func tracer() tracing.Trace {
	return tracing.Select("fp.hamt")
}
