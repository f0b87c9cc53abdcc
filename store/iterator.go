package store

import (
	"bytes"

	"github.com/google/btree"
)

// collectRange returns the btree items within [start, end) in the
// requested order. A nil bound is open.
func collectRange(bt *btree.BTree, start, end []byte, ascending bool) []btree.Item {
	var items []btree.Item
	visit := func(i btree.Item) bool {
		items = append(items, i)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(visit)
	case start == nil:
		bt.AscendLessThan(bkey{end}, visit)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, visit)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, visit)
	}
	if !ascending {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}

// mergeIterator combines a snapshot of cached items with the iterator of
// the store below. Cached entries shadow the parent ones with the same key
// and deleted entries hide them.
type mergeIterator struct {
	cached    []btree.Item
	parent    Iterator
	ascending bool

	key, value []byte
	valid      bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cached []btree.Item, parent Iterator, ascending bool) *mergeIterator {
	it := &mergeIterator{
		cached:    cached,
		parent:    parent,
		ascending: ascending,
	}
	it.advance()
	return it
}

// before returns true if key a comes first in the iteration order.
func (it *mergeIterator) before(a, b []byte) bool {
	cmp := bytes.Compare(a, b)
	if it.ascending {
		return cmp < 0
	}
	return cmp > 0
}

func (it *mergeIterator) advance() {
	for {
		hasCache := len(it.cached) > 0
		hasParent := it.parent.Valid()

		switch {
		case !hasCache && !hasParent:
			it.valid = false
			it.key, it.value = nil, nil
			return

		case !hasCache:
			it.setCurrent(it.parent.Key(), it.parent.Value())
			it.parent.Next()
			return

		case hasParent && it.before(it.parent.Key(), it.cached[0].(keyer).Key()):
			it.setCurrent(it.parent.Key(), it.parent.Value())
			it.parent.Next()
			return
		}

		item := it.cached[0]
		it.cached = it.cached[1:]
		if hasParent && bytes.Equal(it.parent.Key(), item.(keyer).Key()) {
			it.parent.Next()
		}
		if set, ok := item.(setItem); ok {
			it.setCurrent(set.key, set.value)
			return
		}
	}
}

func (it *mergeIterator) setCurrent(key, value []byte) {
	it.key, it.value = key, value
	it.valid = true
}

// Valid implements Iterator
func (it *mergeIterator) Valid() bool {
	return it.valid
}

// Next implements Iterator. Panics when the iterator is exhausted.
func (it *mergeIterator) Next() {
	if !it.valid {
		panic("iterator exhausted")
	}
	it.advance()
}

// Key implements Iterator
func (it *mergeIterator) Key() []byte {
	if !it.valid {
		panic("iterator exhausted")
	}
	return it.key
}

// Value implements Iterator
func (it *mergeIterator) Value() []byte {
	if !it.valid {
		panic("iterator exhausted")
	}
	return it.value
}

// Close implements Iterator
func (it *mergeIterator) Close() {
	it.parent.Close()
	it.cached = nil
	it.valid = false
}
