package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextWithin(t *testing.T, sub *Subscription, d time.Duration) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return sub.next(ctx)
}

func TestRegistryDeliverToConnected(t *testing.T) {
	r := NewRegistry(RegistryOptions{})
	sub := r.Connect("u1")

	assert.True(t, r.Online("u1"))
	assert.True(t, r.Deliver("u1", "hello"))

	got, err := nextWithin(t, sub, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestRegistryDeliverOffline(t *testing.T) {
	r := NewRegistry(RegistryOptions{})
	assert.False(t, r.Deliver("nobody", "lost"))
	assert.False(t, r.Online("nobody"))
}

func TestRegistryPreservesOrder(t *testing.T) {
	r := NewRegistry(RegistryOptions{})
	sub := r.Connect("u1")

	for i := 0; i < 10; i++ {
		r.Deliver("u1", fmt.Sprintf("m%d", i))
	}
	for i := 0; i < 10; i++ {
		got, err := nextWithin(t, sub, time.Second)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("m%d", i), got)
	}
}

func TestRegistryDropsOldestWhenBacklogFull(t *testing.T) {
	r := NewRegistry(RegistryOptions{Backlog: 3})
	sub := r.Connect("u1")

	for i := 0; i < 5; i++ {
		r.Deliver("u1", fmt.Sprintf("m%d", i))
	}
	assert.Equal(t, 2, sub.Dropped())

	for _, want := range []string{"m2", "m3", "m4"} {
		got, err := nextWithin(t, sub, time.Second)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := nextWithin(t, sub, 20*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRegistryLeaveRefCounted(t *testing.T) {
	r := NewRegistry(RegistryOptions{})
	first := r.Connect("u1")
	second := r.Connect("u1")
	assert.Equal(t, 2, r.sessions("u1"))

	r.Deliver("u1", "both")
	for _, sub := range []*Subscription{first, second} {
		got, err := nextWithin(t, sub, time.Second)
		require.NoError(t, err)
		assert.Equal(t, "both", got)
	}

	r.Leave(first)
	assert.True(t, r.Online("u1"))
	_, err := nextWithin(t, first, time.Second)
	assert.ErrorIs(t, err, ErrSubscriptionClosed)

	r.Deliver("u1", "second only")
	got, err := nextWithin(t, second, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "second only", got)

	r.Leave(second)
	assert.False(t, r.Online("u1"))
}

func TestRegistryLeaveRemovesOnAnyDisconnect(t *testing.T) {
	r := NewRegistry(RegistryOptions{RemoveOnAnyDisconnect: true})
	first := r.Connect("u1")
	second := r.Connect("u1")

	r.Leave(first)
	assert.False(t, r.Online("u1"))
	assert.False(t, r.Deliver("u1", "dropped"))

	_, err := nextWithin(t, second, 20*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRegistryDisconnectClosesAll(t *testing.T) {
	r := NewRegistry(RegistryOptions{})
	first := r.Connect("u1")
	second := r.Connect("u1")

	assert.Equal(t, 2, r.Disconnect("u1"))
	assert.False(t, r.Online("u1"))

	for _, sub := range []*Subscription{first, second} {
		select {
		case <-sub.Done():
		default:
			t.Fatal("subscription should be closed")
		}
	}
	assert.Zero(t, r.Disconnect("u1"))

	// Leave 在 Disconnect 之後呼叫不應影響新的連線
	third := r.Connect("u1")
	r.Leave(first)
	assert.True(t, r.Online("u1"))
	r.Leave(third)
	assert.False(t, r.Online("u1"))
}

func TestRegistryPendingMessagesDrainBeforeClose(t *testing.T) {
	r := NewRegistry(RegistryOptions{})
	sub := r.Connect("u1")
	r.Deliver("u1", "pending")
	r.Leave(sub)

	got, err := nextWithin(t, sub, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "pending", got)
	_, err = nextWithin(t, sub, time.Second)
	assert.ErrorIs(t, err, ErrSubscriptionClosed)

	r.Deliver("u1", "after close")
	assert.Zero(t, sub.Dropped())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry(RegistryOptions{Backlog: 1000})
	receiver := r.Connect("receiver")

	const senders = 20
	const perSender = 25
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i)
			for j := 0; j < perSender; j++ {
				sub := r.Connect(user)
				r.Deliver("receiver", user)
				r.Deliver(user, "self")
				r.Leave(sub)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < senders*perSender; i++ {
		_, err := nextWithin(t, receiver, time.Second)
		require.NoError(t, err)
	}
	for i := 0; i < senders; i++ {
		assert.False(t, r.Online(fmt.Sprintf("user-%d", i)))
	}
}
