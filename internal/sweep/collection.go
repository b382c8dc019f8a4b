// Package sweep compares ordered sweeps of diffraction patterns, each entry keyed by
// the controls it was simulated under.
//
// The controls key is opaque: a sweep only ever asks whether two keys are equal.
// Entries are matched by key, never by position, so reordering a sweep does not
// change its equality.
package sweep

import (
	"fmt"
	"slices"
	"strings"

	"dpcheck/internal/errors"
	"dpcheck/internal/pattern"
)

// Key is the capability a sweep needs from its controls type.
type Key[K any] interface {
	Equal(K) bool
}

// Entry is one (controls, pattern) pair of a sweep.
type Entry[K Key[K]] struct {
	Controls K
	Pattern  *pattern.Pattern
}

// Collection is a named sweep of patterns sharing one diffraction mode.
// Entries are only ever appended.
type Collection[K Key[K]] struct {
	name    string
	mode    Mode
	entries []Entry[K]
}

// New creates an empty sweep.
func New[K Key[K]](name string, mode Mode) (*Collection[K], error) {
	if name == "" {
		return nil, errors.Newf(errors.PayloadInvalid, "sweep name must not be empty")
	}
	if !mode.Valid() {
		return nil, errors.Newf(errors.PayloadInvalid, "invalid diffraction mode %d", int(mode))
	}
	return &Collection[K]{name: name, mode: mode}, nil
}

// Name returns the crystal name of the sweep.
func (c *Collection[K]) Name() string { return c.name }

// Mode returns the diffraction mode of the sweep.
func (c *Collection[K]) Mode() Mode { return c.mode }

// Len returns the number of entries.
func (c *Collection[K]) Len() int { return len(c.entries) }

// At returns the i-th entry in insertion (or sorted) order.
func (c *Collection[K]) At(i int) Entry[K] { return c.entries[i] }

// Entries returns a copy of the entries.
func (c *Collection[K]) Entries() []Entry[K] { return slices.Clone(c.entries) }

// Add appends a pattern simulated under controls. Each controls key may appear
// once, which keeps matching between sweeps unambiguous. Patterns with HOLZ lines
// are only accepted by CBED sweeps.
func (c *Collection[K]) Add(controls K, p *pattern.Pattern) error {
	if p == nil {
		return errors.Newf(errors.PayloadInvalid, "sweep %q: nil pattern", c.name)
	}
	if _, dup := c.find(controls); dup {
		return errors.Newf(errors.DuplicateControls, "sweep %q already has an entry for %v", c.name, controls)
	}
	if c.mode == Normal && p.Counts().NHLines > 0 {
		return errors.Newf(errors.ModeMismatch, "sweep %q is %s mode but pattern for %v has %d HOLZ lines",
			c.name, c.mode, controls, p.Counts().NHLines)
	}
	c.entries = append(c.entries, Entry[K]{Controls: controls, Pattern: p})
	return nil
}

// Find returns the pattern stored for controls.
func (c *Collection[K]) Find(controls K) (*pattern.Pattern, bool) {
	i, ok := c.find(controls)
	if !ok {
		return nil, false
	}
	return c.entries[i].Pattern, true
}

func (c *Collection[K]) find(controls K) (int, bool) {
	for i, e := range c.entries {
		if controls.Equal(e.Controls) {
			return i, true
		}
	}
	return -1, false
}

// SortFunc reorders entries by controls. Ordering does not affect Equal.
func (c *Collection[K]) SortFunc(cmp func(a, b K) int) {
	slices.SortStableFunc(c.entries, func(a, b Entry[K]) int {
		return cmp(a.Controls, b.Controls)
	})
}

// Equal reports whether both sweeps share name, mode and size, and every entry of c
// has an entry in other with equal controls and an equal pattern.
func (c *Collection[K]) Equal(other *Collection[K]) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.name != other.name || c.mode != other.mode || len(c.entries) != len(other.entries) {
		return false
	}
	for _, e := range c.entries {
		op, ok := other.Find(e.Controls)
		if !ok || !e.Pattern.Equal(op) {
			return false
		}
	}
	return true
}

// Compare is Equal, except that sweeps of different modes are reported as
// incomparable instead of unequal. A nil collection equals only another nil one.
func (c *Collection[K]) Compare(other *Collection[K]) (bool, error) {
	if c == nil || other == nil {
		return c == other, nil
	}
	if c.mode != other.mode {
		return false, errors.Newf(errors.Incomparable, "cannot compare %s sweep %q with %s sweep %q",
			c.mode, c.name, other.mode, other.name)
	}
	return c.Equal(other), nil
}

// String renders every entry as its controls followed by its pattern.
func (c *Collection[K]) String() string {
	parts := make([]string, 0, 2*len(c.entries))
	for _, e := range c.entries {
		parts = append(parts, fmt.Sprintf("*****EM Controls: %v", e.Controls))
		parts = append(parts, e.Pattern.String())
	}
	return strings.Join(parts, "\n")
}
