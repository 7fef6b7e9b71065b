package modfilter

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrEmptyTrigger returned when a catalog entry has no trigger word.
var ErrEmptyTrigger = errors.New("empty trigger")

// ErrDuplicateTrigger returned when the same trigger is listed twice.
var ErrDuplicateTrigger = errors.New("duplicate trigger")

// Entry is a trigger word with its pair words.
type Entry struct {
	Trigger string   `json:"trigger"`
	Pairs   []string `json:"pairs"`
}

// Catalog is an immutable, ordered set of restricted pairs.
type Catalog struct {
	entries []Entry
}

// NewCatalog makes a Catalog from entries, keeping their order.
// Trigger and pair words are lowercased, triggers must be unique and not empty.
func NewCatalog(entries ...Entry) (*Catalog, error) {
	res := &Catalog{entries: make([]Entry, 0, len(entries))}
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		trigger := Lower(strings.TrimSpace(e.Trigger))
		if trigger == "" {
			return nil, fmt.Errorf("entry #%d: %w", i, ErrEmptyTrigger)
		}
		if _, ok := seen[trigger]; ok {
			return nil, fmt.Errorf("entry #%d %q: %w", i, trigger, ErrDuplicateTrigger)
		}
		seen[trigger] = struct{}{}
		pairs := make([]string, 0, len(e.Pairs))
		for _, p := range e.Pairs {
			pairs = append(pairs, Lower(strings.TrimSpace(p)))
		}
		res.entries = append(res.entries, Entry{Trigger: trigger, Pairs: pairs})
	}
	return res, nil
}

// Entries returns an iterator over (trigger, pairs) in stored order.
// Each call starts a fresh iteration, pairs slices must not be modified.
func (c *Catalog) Entries() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		if c == nil {
			return
		}
		for _, e := range c.entries {
			if !yield(e.Trigger, e.Pairs) {
				return
			}
		}
	}
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
