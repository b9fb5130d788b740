/*
Package tagged implements references which carry a small type discriminant in
the low bits of a heap address.

A Ref points to a cell allocated by New. Cells are at least 4-byte aligned, so
the two lowest address bits are always zero and may hold a tag in the range
0…3. The tagged address still points into the cell, which keeps the cell
reachable for the garbage collector for as long as a Ref to it exists.

Refs are immutable values. They do not know the type of the value they point
to: clients have to remember which type they stored for which tag, and
de-reference with exactly that type. Package vector uses tags to tell leaf
nodes from internal nodes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tagged

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fp.tagged'.
func tracer() tracing.Trace {
	return tracing.Select("fp.tagged")
}
