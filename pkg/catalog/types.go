// Package catalog implements the typed, concurrent, prototype-aware
// record collections (Catalog[R]) and the Library registry that hands
// them out by record-type name.
package catalog

import "fmt"

// RecordId is an opaque dense index identifying a record within one
// catalog. It is stable for the catalog's lifetime and never reused.
type RecordId int

// Watermark is an index into a catalog's change log.
type Watermark int

// fatal panics with an error built by fmt.Errorf. Every fatal program
// error this package detects (unregistered type, downcast mismatch,
// invalid RecordId) goes through here rather than being threaded through
// as a recoverable error return: there is nothing a caller could do to
// recover from registry corruption or an out-of-range id. A recovering
// test harness or embedding application receives the error value; it
// wraps no underlying cause.
func fatal(format string, args ...any) {
	panic(fmt.Errorf(format, args...))
}
