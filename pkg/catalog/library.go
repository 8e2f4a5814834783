package catalog

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edirooss/canonstore/internal/sequencer"
	"github.com/edirooss/canonstore/pkg/record"
)

// Library is the registry mapping a record-type name to its type-erased,
// shared catalog state, plus the Sequencer every catalog it holds shares.
//
// Library holds a mutex and is therefore not safe to copy by value; share
// it by passing around the *Library pointer. Every Checkout[R] for the
// same R, from any number of goroutines, hands back a Catalog[R] sharing
// the same underlying state.
type Library struct {
	id  uuid.UUID
	log *zap.Logger
	seq *sequencer.Sequencer

	mu       sync.Mutex
	catalogs map[string]any
}

// NewLibrary constructs an empty Library. A nil logger is replaced with a
// no-op logger.
func NewLibrary(log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New()
	return &Library{
		id:       id,
		log:      log.With(zap.String("library_id", id.String())),
		seq:      sequencer.New(),
		catalogs: make(map[string]any),
	}
}

// ID returns the Library's correlation id, stamped on every log line this
// Library and its catalogs emit.
func (l *Library) ID() uuid.UUID { return l.id }

// Register inserts a fresh shared catalog state for R, keyed by R's
// TypeName(). Register must be called exactly once per type before
// Checkout; calling it twice for the same type is a fatal
// registry-corruption-in-waiting error, not a silent replace or no-op.
func Register[R record.Record[R]](lib *Library) {
	var zero R
	name := zero.TypeName()

	lib.mu.Lock()
	defer lib.mu.Unlock()
	if _, exists := lib.catalogs[name]; exists {
		lib.log.Error("library: duplicate register", zap.String("type", name))
		fatal("library: register called twice for type %q", name)
	}
	lib.catalogs[name] = newCatalogState[R](name, lib.seq, lib.log)
	lib.log.Debug("library: register", zap.String("type", name))
}

// Checkout returns a typed Catalog[R] handle sharing state with every
// other checkout of the same R. It must be called after Register[R]; an
// unregistered type or a downcast failure (registry corruption) are both
// fatal.
func Checkout[R record.Record[R]](lib *Library) Catalog[R] {
	var zero R
	name := zero.TypeName()

	lib.mu.Lock()
	v, ok := lib.catalogs[name]
	lib.mu.Unlock()
	if !ok {
		lib.log.Error("library: checkout of unregistered type", zap.String("type", name))
		fatal("library: checkout of unregistered type %q", name)
	}

	cs, ok := v.(*catalogState[R])
	if !ok {
		lib.log.Error("library: checkout type mismatch", zap.String("type", name))
		fatal("library: type mismatch on checkout of %q: registry corruption", name)
	}
	return Catalog[R]{state: cs}
}
