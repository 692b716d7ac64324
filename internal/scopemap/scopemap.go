// Package scopemap implements the level-stamped ordered map that backs
// every name/symbol/type table in this front-end (§4.1). It is a thin
// generic wrapper around github.com/google/btree: each entry is stamped
// with the scope level that inserted it, and Purge removes every entry at
// or above a given level in one pass, mirroring the original
// implementation's AVL-based string_map and its map_remove_level.
package scopemap

import "github.com/google/btree"

// entry is the btree item: ordered by Key, carrying the scope Level that
// created it and the caller's Value.
type entry[V any] struct {
	Key   string
	Level int
	Value V
}

func (e entry[V]) Less(other btree.Item) bool {
	return e.Key < other.(entry[V]).Key
}

// Map is a scope-stamped ordered map from string keys to values of type
// V. The zero value is not usable; construct with New.
type Map[V any] struct {
	tree *btree.BTree
}

// New constructs an empty Map. degree mirrors btree.New's branching
// factor; callers that don't care can pass 32, a reasonable default for
// the identifier counts a single translation unit produces.
func New[V any](degree int) *Map[V] {
	return &Map[V]{tree: btree.New(degree)}
}

// Insert adds or replaces the entry for key, stamped with level. It
// returns the previous value and true if key was already present at any
// level (callers that need to detect redeclaration at the *same* level
// must compare levels themselves via Lookup first, matching how the
// original symbol/type tables detect duplicate declarations before
// calling map_insert).
func (m *Map[V]) Insert(key string, level int, value V) (V, bool) {
	old := m.tree.ReplaceOrInsert(entry[V]{Key: key, Level: level, Value: value})
	if old == nil {
		var zero V
		return zero, false
	}
	return old.(entry[V]).Value, true
}

// Lookup returns the value stored for key and the level it was inserted
// at, if present.
func (m *Map[V]) Lookup(key string) (value V, level int, ok bool) {
	item := m.tree.Get(entry[V]{Key: key})
	if item == nil {
		var zero V
		return zero, 0, false
	}
	e := item.(entry[V])
	return e.Value, e.Level, true
}

// Remove deletes the entry for key, if any.
func (m *Map[V]) Remove(key string) {
	m.tree.Delete(entry[V]{Key: key})
}

// Purge removes every entry whose Level is >= level, implementing scope
// exit: the resolver/symbol table call this when a block or function
// scope ends.
func (m *Map[V]) Purge(level int) {
	var drop []string
	m.tree.Ascend(func(i btree.Item) bool {
		e := i.(entry[V])
		if e.Level >= level {
			drop = append(drop, e.Key)
		}
		return true
	})
	for _, k := range drop {
		m.tree.Delete(entry[V]{Key: k})
	}
}

// Len reports the number of entries currently stored.
func (m *Map[V]) Len() int {
	return m.tree.Len()
}

// Ascend visits every entry in key order, calling f with the key, the
// level it was inserted at, and its value. Iteration stops early if f
// returns false. Used by the tables' deterministic String() dumps.
func (m *Map[V]) Ascend(f func(key string, level int, value V) bool) {
	m.tree.Ascend(func(i btree.Item) bool {
		e := i.(entry[V])
		return f(e.Key, e.Level, e.Value)
	})
}
