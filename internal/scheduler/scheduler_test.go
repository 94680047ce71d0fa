package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	s := New(context.Background())
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Add("daily", "0 7 * * *", noop))
	require.NoError(t, s.Add("weekly", "@weekly", noop))
	require.NoError(t, s.Add("off", "", noop))
	assert.Equal(t, 2, s.Entries())

	assert.Error(t, s.Add("bad", "every tuesday", noop))
}

func TestRunsTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx)
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Add("tick", "@every 1s", func(got context.Context) error {
		assert.Equal(t, ctx, got)
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}))

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("task did not run")
	}
}
