// Package index defines the declaration index: a flattened, queryable export
// of the declarations found in checked interface files.
//
// Each run of `idlwrap index` (or each re-check in watch mode) is recorded as a
// Run with one Record per declaration. The namespace tree itself is never
// stored; a Record carries the qualified name and enclosing namespace path of
// its declaration instead.
//
// Backends live in the storage subpackage, the tree flattener in recorder and
// scheduled pruning in retention.
package index
