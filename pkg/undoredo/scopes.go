package undoredo

import "go.uber.org/zap"

// PauseScope is a scoped acquisition whose mutations are excluded from
// undo/redo history entirely: they enter neither stack and do not clear
// the redo stack.
type PauseScope struct {
	engine   *Engine
	released bool
}

// PauseScope reconciles pending changes (so edits that happened before
// entering the scope are not silently discarded) and returns a handle.
// Release the handle to resume normal history tracking; everything
// committed while the handle is live is dropped.
func (e *Engine) PauseScope() *PauseScope {
	e.undoStack = append(e.undoStack, e.collect()...)
	return &PauseScope{engine: e}
}

// Release discards every edit made since PauseScope was entered by
// advancing each watcher's watermark without reconciling. Safe to call
// more than once.
func (p *PauseScope) Release() {
	if p.released {
		return
	}
	p.released = true
	p.engine.advanceAllWatermarks()
	p.engine.log.Debug("undoredo: pause scope released, edits discarded")
}

// CombineScope is a scoped acquisition whose mutations are merged into a
// single atomic Undoable on release.
type CombineScope struct {
	engine   *Engine
	released bool
}

// CombineScope reconciles pending changes (same as PauseScope) and
// returns a handle. Everything committed while the handle is live is
// merged into one Bundle on Release.
func (e *Engine) CombineScope() *CombineScope {
	e.undoStack = append(e.undoStack, e.collect()...)
	return &CombineScope{engine: e}
}

// Release drains every watcher's pending changes accumulated since
// CombineScope was entered, sorts them by LSN, and pushes them as a
// single Bundle onto the undo stack. If nothing changed, nothing is
// pushed. Safe to call more than once.
func (c *CombineScope) Release() {
	if c.released {
		return
	}
	c.released = true

	pending := c.engine.collect()
	if len(pending) == 0 {
		return
	}
	c.engine.undoStack = append(c.engine.undoStack, &Bundle{members: pending})
	c.engine.log.Debug("undoredo: combine scope released", zap.Int("bundled", len(pending)))
}
