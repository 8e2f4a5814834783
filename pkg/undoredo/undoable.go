// Package undoredo implements the global undo/redo engine: watchers that
// turn a catalog's change log into undoable operations, an LSN-ordered
// merge across every watched record type, and the pause/combine scopes
// that shape what ends up on the history stacks.
package undoredo

import "fmt"

// Undoable is a type-erased entry on the undo or redo stack: either a
// single UndoRecord[R] or a Bundle of them, for some record type R the
// undoredo package itself does not need to know. lsn/undo/redo stay
// unexported: only this package ever walks the stacks.
type Undoable interface {
	lsn() uint64
	undo()
	redo()
}

// UndoRecord is a typed, materialized change: a copy of a ChangeRecord
// with the wrapper envelope stripped away, leaving just the record-level
// before/after values a Watcher hands to the engine.
type UndoRecord[R any] struct {
	RecordID int
	LSN      uint64
	HasOld   bool
	Old      R
	New      R
}

// Bundle is an ordered list of Undoables treated atomically: undo()
// replays members in reverse order, redo() replays them in forward order.
// A Bundle's effective LSN for cross-catalog ordering is its last
// member's LSN.
type Bundle struct {
	members []Undoable
}

func (b *Bundle) lsn() uint64 {
	if len(b.members) == 0 {
		// Computing an LSN on an empty Bundle is a programmer error —
		// Bundles are never constructed empty by this package (CombineScope
		// only pushes one when pending is non-empty).
		panic(fmt.Errorf("undoredo: empty bundle has no LSN"))
	}
	return b.members[len(b.members)-1].lsn()
}

func (b *Bundle) undo() {
	for i := len(b.members) - 1; i >= 0; i-- {
		b.members[i].undo()
	}
}

func (b *Bundle) redo() {
	for _, m := range b.members {
		m.redo()
	}
}
