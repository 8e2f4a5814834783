package undoredo

import (
	"github.com/edirooss/canonstore/pkg/catalog"
	"github.com/edirooss/canonstore/pkg/record"
)

// watcherHandle is the type-erased interface the Engine holds one of per
// watched record type.
type watcherHandle interface {
	consumeChangeLog() []Undoable
	advanceWatermark()
}

// Watcher tracks one record type's consumed watermark and turns the
// catalog changes since then into Undoables.
type Watcher[R record.Record[R]] struct {
	cat       catalog.Catalog[R]
	watermark catalog.Watermark
}

// NewWatcher constructs a Watcher starting from the catalog's current
// watermark, so only changes made after construction are ever surfaced.
func NewWatcher[R record.Record[R]](cat catalog.Catalog[R]) *Watcher[R] {
	return &Watcher[R]{cat: cat, watermark: cat.Watermark()}
}

// ConsumeChangeLog materializes every ChangeRecord between the stored
// watermark and the catalog's current watermark into an Undoable,
// advances the stored watermark to current, and returns the list.
func (w *Watcher[R]) ConsumeChangeLog() []Undoable {
	current := w.cat.Watermark()
	it := w.cat.Changes(w.watermark, current)
	w.watermark = current

	var out []Undoable
	for {
		cr, ok := it.Next()
		if !ok {
			break
		}
		rec := UndoRecord[R]{RecordID: int(cr.RecordID), LSN: cr.LSN, New: cr.New.Inner}
		if cr.Old != nil {
			rec.HasOld = true
			rec.Old = cr.Old.Inner
		}
		out = append(out, &singleUndoable[R]{cat: w.cat, rec: rec})
	}
	return out
}

// AdvanceWatermark advances the stored watermark to current without
// emitting undoables, discarding any changes since the last consume. Used
// to exit a pause scope and to keep undo/redo replays from re-entering
// the undo stack as new edits.
func (w *Watcher[R]) AdvanceWatermark() {
	w.watermark = w.cat.Watermark()
}

func (w *Watcher[R]) consumeChangeLog() []Undoable { return w.ConsumeChangeLog() }
func (w *Watcher[R]) advanceWatermark()            { w.AdvanceWatermark() }

// singleUndoable is the type-erasure boundary: it is the one place in this
// package that still knows R, closing over the Catalog[R] needed to
// replay a commit.
type singleUndoable[R record.Record[R]] struct {
	cat catalog.Catalog[R]
	rec UndoRecord[R]
}

func (u *singleUndoable[R]) lsn() uint64 { return u.rec.LSN }

func (u *singleUndoable[R]) undo() {
	if !u.rec.HasOld {
		// Inverse of a creation: records are never destroyed, so there is
		// nothing to revert the record itself to.
		return
	}
	locked := u.cat.Lock(catalog.RecordId(u.rec.RecordID))
	u.cat.Commit(locked, u.rec.Old)
	u.cat.Unlock(locked)
}

func (u *singleUndoable[R]) redo() {
	locked := u.cat.Lock(catalog.RecordId(u.rec.RecordID))
	u.cat.Commit(locked, u.rec.New)
	u.cat.Unlock(locked)
}
