package history

import "context"

// Store defines persistence operations for command history.
type Store interface {
	// List returns all history entries, newest first.
	List(ctx context.Context) ([]Entry, error)
	// Save adds a new history entry, pruning oldest entries if count exceeds the configured maximum.
	Save(ctx context.Context, entry Entry) error
	// Clear removes all history entries.
	Clear(ctx context.Context) error
}

// Commands returns the command strings of entries (newest first, as returned
// by Store.List) in submission order, ready for seeding a History.
func Commands(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i].Command)
	}
	return out
}
