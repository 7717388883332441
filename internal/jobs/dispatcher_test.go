package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsEnqueuedJob(t *testing.T) {
	d := NewDispatcher(4)

	var runs int32
	d.Register("test.job", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Start(ctx)

	require.NoError(t, d.Enqueue("test.job"))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDispatcher_UnknownJob(t *testing.T) {
	d := NewDispatcher(4)

	err := d.Enqueue("no.such.job")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownJob))
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := NewDispatcher(1)
	d.Register("test.job", func(ctx context.Context) error { return nil })

	// Worker not started: the buffer holds one entry, the next is refused
	require.NoError(t, d.Enqueue("test.job"))
	err := d.Enqueue("test.job")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQueueFull))
}

func TestDispatcher_JobFailureDoesNotStopWorker(t *testing.T) {
	d := NewDispatcher(4)

	var succeeded int32
	d.Register("failing.job", func(ctx context.Context) error {
		return errors.New("boom")
	})
	d.Register("ok.job", func(ctx context.Context) error {
		atomic.AddInt32(&succeeded, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Start(ctx)

	require.NoError(t, d.Enqueue("failing.job"))
	require.NoError(t, d.Enqueue("ok.job"))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&succeeded) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestRunEvery_EnqueuesOnTicks(t *testing.T) {
	d := NewDispatcher(16)

	var runs int32
	d.Register("tick.job", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Start(ctx)
	go RunEvery(ctx, d, "tick.job", 20*time.Millisecond)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) >= 2
	}, time.Second, 10*time.Millisecond)
}
