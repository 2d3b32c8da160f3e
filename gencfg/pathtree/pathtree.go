// Package pathtree provides a prefix trie keyed by dot-delimited path
// segments. Each node optionally holds one value; a node's value applies to
// that exact path, and resolution walks every value found on the way down.
package pathtree

import "strings"

// Tree is a trie over dot-delimited paths.
type Tree[T any] struct {
	root node[T]
}

type node[T any] struct {
	children map[string]*node[T]
	value    T
	hasValue bool
}

// New returns an empty tree.
func New[T any]() *Tree[T] {
	return &Tree[T]{}
}

// SplitPath splits a dot-delimited path into segments. A leading dot (as in
// protobuf fully-qualified names) and empty segments are dropped, so
// ".pkg.Msg" and "pkg.Msg" address the same node.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// Insert stores value at the exact path, creating intermediate nodes as
// needed. Inserting at a path that already holds a value replaces it.
func (t *Tree[T]) Insert(path string, value T) {
	n := &t.root
	for _, seg := range SplitPath(path) {
		if n.children == nil {
			n.children = make(map[string]*node[T])
		}
		child, ok := n.children[seg]
		if !ok {
			child = &node[T]{}
			n.children[seg] = child
		}
		n = child
	}
	n.value = value
	n.hasValue = true
}

// Get returns the value stored at the exact path.
func (t *Tree[T]) Get(path string) (T, bool) {
	n := &t.root
	for _, seg := range SplitPath(path) {
		child, ok := n.children[seg]
		if !ok {
			var zero T
			return zero, false
		}
		n = child
	}
	return n.value, n.hasValue
}

// ValuesOnPath returns, in root-to-leaf order, every value stored at a
// prefix of path. Nodes without a value are structural only and contribute
// nothing. The walk stops at the first segment with no node; an empty path
// or a path with no stored values yields an empty slice.
func (t *Tree[T]) ValuesOnPath(path string) []T {
	var out []T
	n := &t.root
	if n.hasValue {
		out = append(out, n.value)
	}
	for _, seg := range SplitPath(path) {
		child, ok := n.children[seg]
		if !ok {
			break
		}
		n = child
		if n.hasValue {
			out = append(out, n.value)
		}
	}
	return out
}
