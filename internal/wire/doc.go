// Package wire converts decision log documents to and from domain values.
//
// A document is {version, graphId?, ops}. Version "0.2" carries a single
// implicit graph (domain.DefaultGraphID); "0.3" names its graph
// explicitly. Decoding fails on the first missing or non-string required
// field, or on an unknown op type, before any operation reaches the
// kernel.
package wire
