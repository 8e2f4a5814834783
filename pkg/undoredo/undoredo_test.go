package undoredo_test

import (
	"testing"

	"github.com/edirooss/canonstore/internal/testfixtures"
	"github.com/edirooss/canonstore/pkg/catalog"
	"github.com/edirooss/canonstore/pkg/undoredo"
)

func newPersonSetup(t *testing.T) (*undoredo.Engine, catalog.Catalog[testfixtures.Person]) {
	t.Helper()
	lib := catalog.NewLibrary(nil)
	catalog.Register[testfixtures.Person](lib)
	cat := catalog.Checkout[testfixtures.Person](lib)

	eng := undoredo.NewEngine(lib, nil)
	undoredo.Watch[testfixtures.Person](eng)
	return eng, cat
}

func commitName(cat catalog.Catalog[testfixtures.Person], id catalog.RecordId, name string) {
	locked := cat.Lock(id)
	v := locked.Value
	v.Name = name
	cat.Commit(locked, v)
	cat.Unlock(locked)
}

// TestUndoRedoBasic commits two edits and walks undo/redo/undo/undo across
// them, checking the observable name at each step.
func TestUndoRedoBasic(t *testing.T) {
	eng, cat := newPersonSetup(t)

	id := cat.Create(testfixtures.Person{Name: "0"})
	commitName(cat, id, "1")

	eng.Undo()
	if got := cat.Get(id).Name; got != "0" {
		t.Fatalf("after first undo: name = %q, want 0", got)
	}

	eng.Redo()
	if got := cat.Get(id).Name; got != "1" {
		t.Fatalf("after redo: name = %q, want 1", got)
	}

	commitName(cat, id, "2")

	eng.Undo()
	if got := cat.Get(id).Name; got != "1" {
		t.Fatalf("after undo of 2: name = %q, want 1", got)
	}

	eng.Undo()
	if got := cat.Get(id).Name; got != "0" {
		t.Fatalf("after undo of 1: name = %q, want 0", got)
	}
}

// TestRedoClearedByNewEdit checks that a new commit after an undo empties
// the redo stack, so a later redo is a no-op.
func TestRedoClearedByNewEdit(t *testing.T) {
	eng, cat := newPersonSetup(t)

	id := cat.Create(testfixtures.Person{Name: "0"})
	commitName(cat, id, "1")

	eng.Undo()
	if got := cat.Get(id).Name; got != "0" {
		t.Fatalf("after undo: name = %q, want 0", got)
	}

	commitName(cat, id, "2")

	eng.Redo()
	if got := cat.Get(id).Name; got != "2" {
		t.Fatalf("redo should be a no-op once a new edit cleared the redo stack: name = %q, want 2", got)
	}
}

// TestCombineScope checks that every commit made inside a combine scope
// collapses into one undo/redo step.
func TestCombineScope(t *testing.T) {
	eng, cat := newPersonSetup(t)

	id := cat.Create(testfixtures.Person{Name: "0"})
	commitName(cat, id, "1")

	scope := eng.CombineScope()
	commitName(cat, id, "2")
	commitName(cat, id, "3")
	commitName(cat, id, "4")
	scope.Release()

	eng.Undo()
	if got := cat.Get(id).Name; got != "1" {
		t.Fatalf("after undo of combined scope: name = %q, want 1", got)
	}

	eng.Redo()
	if got := cat.Get(id).Name; got != "4" {
		t.Fatalf("after redo of combined scope: name = %q, want 4", got)
	}
}

// TestPauseScope checks that a commit made inside a pause scope takes
// effect but is discarded from undo/redo history entirely.
func TestPauseScope(t *testing.T) {
	eng, cat := newPersonSetup(t)

	id := cat.Create(testfixtures.Person{Name: "0"})
	commitName(cat, id, "1")

	scope := eng.PauseScope()
	commitName(cat, id, "2")
	scope.Release()

	if got := cat.Get(id).Name; got != "2" {
		t.Fatalf("pause scope must not prevent the mutation itself: name = %q, want 2", got)
	}

	eng.Undo()
	if got := cat.Get(id).Name; got != "0" {
		t.Fatalf("the paused '2' commit must be discarded from history entirely: name = %q, want 0", got)
	}
}

// TestCrossTypeLSNOrder checks that undo across two watched record types
// pops the later LSN first regardless of which type it belongs to.
func TestCrossTypeLSNOrder(t *testing.T) {
	lib := catalog.NewLibrary(nil)
	catalog.Register[testfixtures.Person](lib)
	catalog.Register[testfixtures.Dog](lib)
	persons := catalog.Checkout[testfixtures.Person](lib)
	dogs := catalog.Checkout[testfixtures.Dog](lib)

	eng := undoredo.NewEngine(lib, nil)
	undoredo.Watch[testfixtures.Person](eng)
	undoredo.Watch[testfixtures.Dog](eng)

	personID := persons.Create(testfixtures.Person{Name: "Alice"})
	dogID := dogs.Create(testfixtures.Dog{Name: "Rex", Breed: "Lab"})

	lockedDog := dogs.Lock(dogID)
	dv := lockedDog.Value
	dv.Breed = "Poodle"
	dogs.Commit(lockedDog, dv)
	dogs.Unlock(lockedDog)

	commitName(persons, personID, "Bob")

	eng.Undo()
	if got := persons.Get(personID).Name; got != "Alice" {
		t.Fatalf("first undo should revert the later (person) edit: name = %q, want Alice", got)
	}
	if got := dogs.Get(dogID).Breed; got != "Poodle" {
		t.Fatalf("first undo must not touch dog: breed = %q, want Poodle", got)
	}

	eng.Undo()
	if got := dogs.Get(dogID).Breed; got != "Lab" {
		t.Fatalf("second undo should revert the earlier (dog) edit: breed = %q, want Lab", got)
	}
}
