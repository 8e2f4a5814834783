// Package sequencer issues the monotonic log sequence numbers (LSNs) a
// Library shares across every catalog registered against it.
package sequencer

import "sync/atomic"

// Sequencer is a process-wide, 64-bit monotonic counter. A single
// Sequencer is shared by every catalog checked out of one Library, which
// is what makes LSNs a total order across catalogs rather than just
// within one.
//
// Relaxed/atomic ordering is sufficient: LSNs exist only to reconstruct
// total order after the fact, and every append that stamps a ChangeRecord
// with a value from Next already happens under the issuing catalog's own
// state lock, which provides the synchronization the reader needs.
type Sequencer struct {
	n atomic.Uint64
}

// New returns a Sequencer whose first Next() call returns 0.
func New() *Sequencer {
	return &Sequencer{}
}

// Next returns a value distinct from every other value this Sequencer has
// returned or will return.
func (s *Sequencer) Next() uint64 {
	return s.n.Add(1) - 1
}
