package cmdblock

import (
	"slices"
	"strings"
)

// Blocklist is the set of command names that must not be executed. Names are
// stored lowercase. A Blocklist is never modified after NewBlocklist returns,
// so it is safe to share between goroutines.
type Blocklist struct {
	names map[string]struct{}
}

// NewBlocklist builds a Blocklist out of names, as read from configuration.
// Duplicates collapse, surrounding whitespace is trimmed and empty entries
// are dropped. No names means nothing is blocked.
func NewBlocklist(names ...string) *Blocklist {
	b := &Blocklist{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		b.names[name] = struct{}{}
	}
	return b
}

// Merge returns the union of the given blocklists. Nil blocklists are skipped.
func Merge(lists ...*Blocklist) *Blocklist {
	var names []string
	for _, l := range lists {
		names = append(names, l.Names()...)
	}
	return NewBlocklist(names...)
}

// Contains reports whether label is blocked. The lookup is case-insensitive.
func (b *Blocklist) Contains(label string) bool {
	if b == nil || label == "" {
		return false
	}
	_, ok := b.names[strings.ToLower(label)]
	return ok
}

// Len returns the number of blocked names.
func (b *Blocklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.names)
}

// Names returns a sorted copy of the blocked names.
func (b *Blocklist) Names() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.names))
	for name := range b.names {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
