package gencfg

import "github.com/tinypb/tinypb-go/gencfg/pathtree"

// Store holds the override bags registered against element paths. The
// intended usage is a strict registration phase (Configure calls while
// reading override rules) followed by a strict read-only resolution phase;
// Resolve never mutates the store, so concurrent resolution is safe once
// registration has finished.
type Store struct {
	tree *pathtree.Tree[*Config]
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{tree: pathtree.New[*Config]()}
}

// Configure registers cfg at the exact path, replacing any bag already
// stored there. It does not merge at insertion time; merging happens during
// resolution only.
func (s *Store) Configure(path string, cfg *Config) {
	s.tree.Insert(path, cfg)
}

// Resolve synthesizes the effective Config for the element at path by
// folding every bag found on a prefix of path, in ancestor-then-descendant
// order, into a fully-default bag. The result is a fresh bag stamped with
// the query path; it is never written back into the store.
func (s *Store) Resolve(path string) *Config {
	resolved := New()
	for _, bag := range s.tree.ValuesOnPath(path) {
		resolved = resolved.Merge(bag)
	}
	resolved.path = path
	return resolved
}
