// Package dump renders opaque struct state for test failure messages and
// ad-hoc debugging via go-spew. Catalog and undoredo state is full of
// unexported fields, so %+v alone is of little use; spew.Sdump walks it
// regardless.
package dump

import "github.com/davecgh/go-spew/spew"

var config = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Sdump renders v as a multi-line, field-by-field string suitable for
// attaching to a t.Errorf/t.Fatalf message.
func Sdump(v any) string {
	return config.Sdump(v)
}
