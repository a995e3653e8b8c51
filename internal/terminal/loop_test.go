package terminal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsInOrder(t *testing.T) {
	l := NewLoop(8)
	var got []int

	for i := range 3 {
		l.Post(func() { got = append(got, i) })
	}
	l.Post(l.Stop)

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestLoop_ContextCancel(t *testing.T) {
	l := NewLoop(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Posting after the loop stopped must not block.
	done := make(chan struct{})
	go func() {
		l.Post(func() {})
		l.Post(func() {})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Post blocked after loop stopped")
	}
}
