package main

import (
	"fmt"

	"github.com/treetopinnovationab/BookmarkingStreamReader/reader"
)

// disallowedOperations names the read primitives callers migrating from other
// line-reading libraries often reach for out of habit, and why reader.Reader
// deliberately doesn't offer them: each would let a caller consume characters
// without the position tracker's metadata being updated, desynchronizing
// every bookmark issued afterward.
var disallowedOperations = map[string]string{
	"char":    "single-character read",
	"peek":    "single-character peek",
	"readall": "read-to-end",
}

// resolveOperation validates the operation named by -op or a config file's
// "operation" field against the one primitive this reader exposes, "line".
// Anything in disallowedOperations is rejected with reader.ErrUnsupportedOperation;
// anything else is rejected as simply unknown.
func resolveOperation(name string) error {
	if name == "line" {
		return nil
	}
	if desc, ok := disallowedOperations[name]; ok {
		return fmt.Errorf("%w: %s (%s)", reader.ErrUnsupportedOperation, name, desc)
	}
	return fmt.Errorf("unknown operation %q", name)
}
