package collector

import (
	"slices"
)

// MissingFiles is the append-only log of files that were expected in a run directory
// but could not be found or parsed.
type MissingFiles struct {
	entries []string
}

// Add appends one entry.
func (m *MissingFiles) Add(entry string) {
	m.entries = append(m.entries, entry)
}

// Len returns the number of entries, duplicates included.
func (m *MissingFiles) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns a copy of the entries in insertion order.
func (m *MissingFiles) Entries() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.entries)
}

// Listing returns at most limit entries, sorted and de-duplicated. A limit <= 0 returns all of them.
func (m *MissingFiles) Listing(limit int) []string {
	out := m.Entries()
	slices.Sort(out)
	out = slices.Compact(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
