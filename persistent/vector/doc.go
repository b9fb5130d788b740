/*
Package vector implements an immutable persistent vector, designed for use-cases
similar to Go slices.

An immutable persistent vector has copy-on-write behaviour: Each “modification” of the vector
(appending, replacement or deletion at the end) creates a copy, leaving the original unmodified.
Under the hood, copy-on-write retains most of the memory held by the original, and creates
a new incarnation of the nodes on a single root-to-leaf path only. Thus, most of the
structure/memory is shared between original and copy, transparently to clients.

Values are held in leafs of 32 values each. Inner nodes hold up to 32 children,
together with the cumulative length of the children up to and including each one.
All children of an inner node live at the same height, i.e. the tree is balanced.
A vector grows in height only if its root is completely full.

Immutable vectors are inherently concurrency-safe.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package vector

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fp.vector'.
func tracer() tracing.Trace {
	return tracing.Select("fp.vector")
}
