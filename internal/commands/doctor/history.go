package doctor

import (
	"context"
	"fmt"

	"github.com/hay-kot/shelldock/internal/core/history"
)

// HistoryCheck verifies the command history file can be read. With fix set,
// an unreadable history is cleared.
type HistoryCheck struct {
	store history.Store
	fix   bool
}

func NewHistoryCheck(store history.Store, fix bool) *HistoryCheck {
	return &HistoryCheck{store: store, fix: fix}
}

func (c *HistoryCheck) Name() string {
	return "History"
}

func (c *HistoryCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}
	if c.store == nil {
		result.warn("Persistence", "disabled")
		return result
	}

	entries, err := c.store.List(ctx)
	switch {
	case err == nil:
		result.pass("History file", fmt.Sprintf("%d entries", len(entries)))
	case !c.fix:
		result.add(StatusFail, "History file", err.Error()).Fixable = true
	default:
		if cerr := c.store.Clear(ctx); cerr != nil {
			result.fail("History file", fmt.Sprintf("clear failed: %v", cerr))
		} else {
			result.pass("History file", "unreadable history cleared")
		}
	}
	return result
}
