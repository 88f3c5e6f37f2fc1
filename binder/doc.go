// Package binder fills request structs from path parameters, the query
// string and form bodies using `path`, `query` and `form` struct tags.
//
// Untagged exported fields bind to their lower-cased name; a "-" tag skips
// the field. Supported field types are strings, integers, unsigned
// integers, floats, bools, pointers to those and slices of them.
package binder
