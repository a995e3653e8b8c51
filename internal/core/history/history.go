// Package history defines command history domain types and interfaces.
package history

import "time"

// Entry represents a persisted command submission.
type Entry struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Dir       string    `json:"dir,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// History is the in-memory list of submitted commands and the navigation
// cursor used by the up/down keys. The cursor is always in [0, Len()]; a
// cursor equal to Len() means the user is editing a fresh line.
type History struct {
	entries []string
	index   int
}

// New returns a history seeded with entries in submission order.
func New(entries ...string) *History {
	h := &History{entries: append([]string(nil), entries...)}
	h.index = len(h.entries)
	return h
}

// Push appends a command and resets the cursor past the end.
func (h *History) Push(command string) {
	h.entries = append(h.entries, command)
	h.index = len(h.entries)
}

// Prev moves the cursor back one entry. It reports false when the history is
// empty or the cursor is already at the oldest entry.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 || h.index <= 0 {
		return "", false
	}
	h.index--
	return h.entries[h.index], true
}

// Next moves the cursor forward one entry. Stepping past the newest entry
// yields the empty fresh line; beyond that it reports false.
func (h *History) Next() (string, bool) {
	switch {
	case h.index < len(h.entries)-1:
		h.index++
		return h.entries[h.index], true
	case h.index == len(h.entries)-1:
		h.index++
		return "", true
	default:
		return "", false
	}
}

// Entries returns a copy of the commands in submission order.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Index returns the navigation cursor.
func (h *History) Index() int {
	return h.index
}

// Len returns the number of commands.
func (h *History) Len() int {
	return len(h.entries)
}
