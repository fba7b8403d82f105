// Package args normalizes the argument mappings ("_args") that a query
// resolution layer attaches to nodes of a query or result graph.
//
// A Transformer is built once from an ordered list of named functions, a set
// of field groups whose arguments must always be present, and the key under
// which argument mappings are nested. It is then reused for any number of
// Transform and TransformRecursive calls; it holds no per-call state.
package args
