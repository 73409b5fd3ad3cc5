/*
Package diff computes attribute-level drift between a desired spec and a
remote object.

Comparison is table-driven: each comparable field carries a Rule naming its
kind, and only fields present in the desired attribute map participate. A
field the operator omitted is not managed and never reads as drift, whatever
the remote side stores for it.

# Rule kinds

Three comparison semantics cover every managed field:

  - Scalar: equality with numeric widening, so an int in the spec matches
    the float64 a JSON round trip produces.
  - StringSet: order-insensitive, duplicate-insensitive membership over
    []string or []any element lists.
  - Nested: recursive map comparison over the keys the desired side names,
    with optional server-side defaults filled in before comparing.

Defaults attach to Nested rules as dotted leaf paths. They are merged into a
clone of both sides, so a spec that names an override block without every
timeout still matches a remote object storing the server's defaults. Inputs
are never mutated.
*/
package diff
