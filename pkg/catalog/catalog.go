package catalog

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/edirooss/canonstore/internal/dump"
	"github.com/edirooss/canonstore/internal/sequencer"
	"github.com/edirooss/canonstore/pkg/record"
)

// catalogState is the state shared by every Catalog[R] handle checked out
// for the same record type. It holds exactly one state mutex and one
// condition variable: lock(id) waits on the condition variable while
// locks[id] is true; unlock(id) clears the flag and broadcasts. Readers
// (get) take the mutex only long enough to copy a wrapper out; they never
// wait on the condition variable.
type catalogState[R record.Record[R]] struct {
	typeName string
	seq      *sequencer.Sequencer
	log      *zap.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	wrappers []*wrapper[R]
	locked   []bool
	changes  []ChangeRecord[R]
}

func newCatalogState[R record.Record[R]](typeName string, seq *sequencer.Sequencer, log *zap.Logger) *catalogState[R] {
	cs := &catalogState[R]{typeName: typeName, seq: seq, log: log}
	cs.cond = sync.NewCond(&cs.mu)
	return cs
}

// Catalog is a typed handle onto a catalogState. Any number of Catalog[R]
// handles obtained via Checkout[R] for the same type share the same
// underlying state; each goroutine is expected to check out its own
// handle.
type Catalog[R record.Record[R]] struct {
	state *catalogState[R]
}

// Locked is a scoped handle returned by Lock. It yields a stable snapshot
// of the record as observed at lock-acquisition time. The lock is held
// until the caller passes this handle to Unlock.
type Locked[R record.Record[R]] struct {
	ID    RecordId
	Value R
}

func (c Catalog[R]) checkID(id RecordId) {
	if id < 0 || int(id) >= len(c.state.wrappers) {
		fatal("catalog %q: invalid RecordId %d", c.state.typeName, id)
	}
}

// Create appends a new wrapper with no prototype and returns its id.
func (c Catalog[R]) Create(rec R) RecordId {
	c.state.mu.Lock()
	id := RecordId(len(c.state.wrappers))
	w := newRootWrapper(rec)
	c.state.wrappers = append(c.state.wrappers, w)
	c.state.locked = append(c.state.locked, false)
	lsn := c.state.seq.Next()
	c.state.changes = append(c.state.changes, ChangeRecord[R]{RecordID: id, LSN: lsn, New: w.snapshot()})
	c.state.mu.Unlock()

	c.state.log.Debug("catalog: create",
		zap.String("type", c.state.typeName), zap.Int("id", int(id)), zap.Uint64("lsn", lsn))
	return id
}

// CreateFromPrototype clones prototypeID's current inner value into a new
// record whose prototype_id is set, links the child into the prototype's
// instances, appends a ChangeRecord for the child, and releases the
// prototype's lock. It blocks if the prototype is already held by another
// caller.
func (c Catalog[R]) CreateFromPrototype(prototypeID RecordId) RecordId {
	locked := c.Lock(prototypeID)
	defer c.Unlock(locked)

	childInner := locked.Value.Clone()

	c.state.mu.Lock()
	childID := RecordId(len(c.state.wrappers))
	childW := newChildWrapper[R](prototypeID, childInner)
	c.state.wrappers = append(c.state.wrappers, childW)
	c.state.locked = append(c.state.locked, false)

	// Link the child into the prototype's instances without emitting a
	// ChangeRecord for the prototype itself: only the child's creation is
	// a logged mutation.
	c.state.wrappers[prototypeID] = c.state.wrappers[prototypeID].withInstance(childID)

	lsn := c.state.seq.Next()
	c.state.changes = append(c.state.changes, ChangeRecord[R]{RecordID: childID, LSN: lsn, New: childW.snapshot()})
	c.state.mu.Unlock()

	c.state.log.Debug("catalog: create_from_prototype",
		zap.String("type", c.state.typeName),
		zap.Int("prototype_id", int(prototypeID)), zap.Int("id", int(childID)), zap.Uint64("lsn", lsn))
	return childID
}

// Get returns a value copy of the record currently stored at id. Because
// the returned value is a copy, there is no snapshot-retention bookkeeping
// needed for the read contract to hold: the caller's copy is unaffected by
// any later commit. Get never touches the per-record lock.
func (c Catalog[R]) Get(id RecordId) R {
	c.state.mu.Lock()
	c.checkID(id)
	w := c.state.wrappers[id]
	c.state.mu.Unlock()
	return w.inner
}

// Lock acquires the exclusive lock on id, blocking until it is available,
// and returns a handle carrying the record's value as observed at
// acquisition time.
//
// Callers that hold more than one lock within a prototype chain
// concurrently MUST acquire them in ascending RecordId order. Because
// CreateFromPrototype always assigns a child a higher id than its
// prototype, ascending order is also descent order down the prototype
// tree, which is what Commit's propagation relies on to avoid deadlock
// between two concurrent propagations. This is a caller contract: it is
// not mechanically enforced, and a violation deadlocks.
func (c Catalog[R]) Lock(id RecordId) Locked[R] {
	c.state.mu.Lock()
	c.checkID(id)
	for c.state.locked[id] {
		c.state.cond.Wait()
	}
	c.state.locked[id] = true
	val := c.state.wrappers[id].inner
	c.state.mu.Unlock()
	return Locked[R]{ID: id, Value: val}
}

// Unlock releases the exclusive lock acquired by Lock and wakes any
// waiters.
func (c Catalog[R]) Unlock(l Locked[R]) {
	c.state.mu.Lock()
	c.state.locked[l.ID] = false
	c.state.cond.Broadcast()
	c.state.mu.Unlock()
}

// Commit replaces the wrapper at locked.ID with one carrying newRecord,
// preserving the existing prototype linkage, appends a ChangeRecord, and
// then propagates the change depth-first to every recorded instance via
// R.ProtoUpdate. The caller must still release locked via Unlock once
// Commit returns; Commit does not release the lock it was given, but it
// does acquire and release the lock of every descendant it propagates to.
func (c Catalog[R]) Commit(locked Locked[R], newRecord R) {
	c.commitLocked(locked.ID, newRecord)
}

func (c Catalog[R]) commitLocked(id RecordId, newRecord R) {
	c.state.mu.Lock()
	old := c.state.wrappers[id]
	next := old.withInner(newRecord)
	c.state.wrappers[id] = next
	lsn := c.state.seq.Next()
	oldSnap := old.snapshot()
	c.state.changes = append(c.state.changes, ChangeRecord[R]{RecordID: id, LSN: lsn, Old: &oldSnap, New: next.snapshot()})
	children := sortedIDs(next.instances)
	c.state.mu.Unlock()

	c.state.log.Debug("catalog: commit",
		zap.String("type", c.state.typeName), zap.Int("id", int(id)),
		zap.Uint64("lsn", lsn), zap.Int("propagate_to", len(children)))

	for _, childID := range children {
		childLocked := c.Lock(childID)
		merged := childLocked.Value.ProtoUpdate(oldSnap.Inner, newRecord)
		c.commitLocked(childID, merged)
		c.Unlock(childLocked)
	}
}

func sortedIDs(m map[RecordId]struct{}) []RecordId {
	out := make([]RecordId, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Watermark returns the catalog's current change log length.
func (c Catalog[R]) Watermark() Watermark {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	return Watermark(len(c.state.changes))
}

// DebugString renders a human-readable dump of the wrapper at id, using
// the same go-spew based helper the rest of this module uses for test
// failure messages.
func (c Catalog[R]) DebugString(id RecordId) string {
	c.state.mu.Lock()
	c.checkID(id)
	w := c.state.wrappers[id]
	c.state.mu.Unlock()
	return dump.Sdump(w)
}
