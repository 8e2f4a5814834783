package catalog

import "github.com/edirooss/canonstore/pkg/record"

// ChangeIterator is a restartable cursor over a catalog's change log
// between two watermarks. Restartable means calling Changes again (even
// with the same bounds) yields a fresh iterator; this type holds no state
// beyond the copied slice of records it was constructed with and its read
// position in that slice.
type ChangeIterator[R record.Record[R]] struct {
	records []ChangeRecord[R]
	pos     int
}

// Next advances the iterator and returns the next ChangeRecord, or false
// if the range is exhausted.
func (it *ChangeIterator[R]) Next() (ChangeRecord[R], bool) {
	if it.pos >= len(it.records) {
		var zero ChangeRecord[R]
		return zero, false
	}
	rec := it.records[it.pos]
	it.pos++
	return rec, true
}

// Changes yields copies of the change records in [start, end) in
// insertion order.
func (c Catalog[R]) Changes(start, end Watermark) *ChangeIterator[R] {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	if start < 0 {
		start = 0
	}
	if int(end) > len(c.state.changes) {
		end = Watermark(len(c.state.changes))
	}
	if start >= end {
		return &ChangeIterator[R]{}
	}

	out := make([]ChangeRecord[R], end-start)
	copy(out, c.state.changes[start:end])
	return &ChangeIterator[R]{records: out}
}
