package undoredo

import (
	"sort"

	"go.uber.org/zap"

	"github.com/edirooss/canonstore/pkg/catalog"
	"github.com/edirooss/canonstore/pkg/record"
)

// Engine holds one Watcher per watched record type plus the global
// undo/redo stacks. It is not internally synchronized: a single owner
// thread is expected to call Undo/Redo/scope methods; its fields are not
// safe for concurrent access from multiple goroutines.
type Engine struct {
	lib *catalog.Library
	log *zap.Logger

	watchers  []watcherHandle
	undoStack []Undoable
	redoStack []Undoable
}

// NewEngine constructs an Engine over lib. A nil logger is replaced with
// a no-op logger.
func NewEngine(lib *catalog.Library, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{lib: lib, log: log.With(zap.String("library_id", lib.ID().String()))}
}

// Watch adds a Watcher[R] to the engine. Must be called after
// catalog.Register[R] on the same Library.
func Watch[R record.Record[R]](e *Engine) {
	cat := catalog.Checkout[R](e.lib)
	e.watchers = append(e.watchers, NewWatcher[R](cat))
}

// collect drains every watcher's pending changes, sorts them ascending by
// LSN, and — if any arrived — clears the redo stack, since a normal new
// edit invalidates whatever was available to redo. This is the
// reconciliation rule shared by Undo, Redo, and both scopes.
func (e *Engine) collect() []Undoable {
	var all []Undoable
	for _, w := range e.watchers {
		all = append(all, w.consumeChangeLog()...)
	}
	if len(all) == 0 {
		return nil
	}
	sort.Slice(all, func(i, j int) bool { return all[i].lsn() < all[j].lsn() })
	if len(e.redoStack) > 0 {
		e.log.Debug("undoredo: new edits clear redo stack", zap.Int("discarded", len(e.redoStack)))
	}
	e.redoStack = nil
	return all
}

// Undo reconciles pending changes into the undo stack, pops the top
// undoable, replays its inverse, and pushes it onto the redo stack. A
// no-op if the undo stack is empty after reconciliation.
func (e *Engine) Undo() {
	e.undoStack = append(e.undoStack, e.collect()...)
	if len(e.undoStack) == 0 {
		return
	}
	top := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]

	top.undo()
	e.redoStack = append(e.redoStack, top)
	e.advanceAllWatermarks()
	e.log.Debug("undoredo: undo", zap.Int("undo_depth", len(e.undoStack)), zap.Int("redo_depth", len(e.redoStack)))
}

// Redo is symmetric to Undo: it reconciles first (which, per the shared
// rule, clears the redo stack if new edits arrived — including the case
// where an edit committed after an Undo call invalidates what would
// otherwise be redoable), then pops from the redo stack, replays forward,
// and pushes back onto the undo stack.
func (e *Engine) Redo() {
	e.undoStack = append(e.undoStack, e.collect()...)
	if len(e.redoStack) == 0 {
		return
	}
	top := e.redoStack[len(e.redoStack)-1]
	e.redoStack = e.redoStack[:len(e.redoStack)-1]

	top.redo()
	e.undoStack = append(e.undoStack, top)
	e.advanceAllWatermarks()
	e.log.Debug("undoredo: redo", zap.Int("undo_depth", len(e.undoStack)), zap.Int("redo_depth", len(e.redoStack)))
}

// advanceAllWatermarks moves every watcher's watermark past a just-played
// replay so the replay's own ChangeRecords are not themselves harvested
// as new undoable edits on the next reconciliation.
func (e *Engine) advanceAllWatermarks() {
	for _, w := range e.watchers {
		w.advanceWatermark()
	}
}
