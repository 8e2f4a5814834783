package catalog

import "github.com/edirooss/canonstore/pkg/record"

// wrapper is the internal envelope around a user record. Wrappers are
// treated as immutable snapshots: a commit replaces the wrapper pointer
// for a RecordId rather than mutating fields in place, so a reader
// holding an old *wrapper[R] never observes a torn value and never needs
// to be aware that a newer version now exists.
type wrapper[R record.Record[R]] struct {
	hasPrototype bool
	prototypeID  RecordId
	instances    map[RecordId]struct{}
	inner        R
}

func newRootWrapper[R record.Record[R]](inner R) *wrapper[R] {
	return &wrapper[R]{inner: inner, instances: map[RecordId]struct{}{}}
}

func newChildWrapper[R record.Record[R]](prototypeID RecordId, inner R) *wrapper[R] {
	return &wrapper[R]{
		hasPrototype: true,
		prototypeID:  prototypeID,
		instances:    map[RecordId]struct{}{},
		inner:        inner,
	}
}

// withInner returns a new wrapper carrying this wrapper's prototype
// linkage and a clone of its instances set, but the given inner value.
// This is the allocation every commit performs in place of mutating the
// published wrapper.
func (w *wrapper[R]) withInner(inner R) *wrapper[R] {
	return &wrapper[R]{
		hasPrototype: w.hasPrototype,
		prototypeID:  w.prototypeID,
		instances:    cloneInstances(w.instances),
		inner:        inner,
	}
}

// withInstance returns a new wrapper identical to this one but with
// childID added to the instances set. Used to link a freshly created
// instance into its prototype's wrapper without disturbing the
// prototype's own inner value or logging a spurious ChangeRecord for it.
func (w *wrapper[R]) withInstance(childID RecordId) *wrapper[R] {
	next := &wrapper[R]{
		hasPrototype: w.hasPrototype,
		prototypeID:  w.prototypeID,
		instances:    cloneInstances(w.instances),
		inner:        w.inner,
	}
	next.instances[childID] = struct{}{}
	return next
}

func cloneInstances(src map[RecordId]struct{}) map[RecordId]struct{} {
	dst := make(map[RecordId]struct{}, len(src))
	for id := range src {
		dst[id] = struct{}{}
	}
	return dst
}

// snapshot is the value copy of a wrapper a ChangeRecord carries: enough
// to reconstruct what the record looked like at that point in history,
// without aliasing any mutable state.
type snapshot[R record.Record[R]] struct {
	HasPrototype bool
	PrototypeID  RecordId
	Inner        R
}

func (w *wrapper[R]) snapshot() snapshot[R] {
	return snapshot[R]{HasPrototype: w.hasPrototype, PrototypeID: w.prototypeID, Inner: w.inner}
}

// ChangeRecord is the immutable entry appended to a catalog's change log
// on every create and commit. Old is nil iff this record documents a
// creation.
type ChangeRecord[R record.Record[R]] struct {
	RecordID RecordId
	LSN      uint64
	Old      *snapshot[R]
	New      snapshot[R]
}
