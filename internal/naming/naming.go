// Package naming derives unique, filesystem-safe base names for records.
// It is pure name computation; file I/O lives in the split package.
package naming

import (
	"fmt"
	"regexp"
)

// placeholder is used when sanitizing leaves nothing usable.
const placeholder = "seq"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Sanitize maps a record ID to a filesystem-safe base name. Characters
// outside [A-Za-z0-9._-] become '_'; an empty result falls back to the
// fixed placeholder.
func Sanitize(id string) string {
	s := unsafeChars.ReplaceAllString(id, "_")
	if s == "" {
		return placeholder
	}
	return s
}

// Allocator hands out base names unique within one batch. Colliding
// names get a _2, _3, … suffix, smallest unused first, so a given
// ordered ID list always maps to the same names.
type Allocator struct {
	taken map[string]bool
}

// NewAllocator creates an empty allocator for one batch.
func NewAllocator() *Allocator {
	return &Allocator{taken: make(map[string]bool)}
}

// Claim sanitizes id and returns a base name not yet allocated in this
// batch, recording it as taken.
func (a *Allocator) Claim(id string) string {
	base := Sanitize(id)
	if !a.taken[base] {
		a.taken[base] = true
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if !a.taken[candidate] {
			a.taken[candidate] = true
			return candidate
		}
	}
}
