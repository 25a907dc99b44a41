// Package ids issues the opaque identifiers used to key rects, container
// lists and sensor detachers instead of host handles.
package ids

import "github.com/google/uuid"

// ID identifies a tracked item or container for the lifetime of its
// registration.
type ID string

// None is the absent identifier.
const None ID = ""

// New returns a fresh random identifier.
func New() ID {
	return ID(uuid.NewString())
}

// Valid reports whether id refers to something.
func (id ID) Valid() bool {
	return id != None
}

// Short returns the first eight characters, for log lines.
func (id ID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}
