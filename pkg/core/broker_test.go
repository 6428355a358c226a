package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stromabio/stroma/pkg/core"
)

func TestBrokerPatternMatching(t *testing.T) {
	b := core.NewBroker(0)
	defer b.Close()

	blogCh, cancelBlog, err := b.Subscribe("blog/*")
	require.NoError(t, err)
	defer cancelBlog()

	allCh, cancelAll, err := b.Subscribe("**")
	require.NoError(t, err)
	defer cancelAll()

	b.Publish(core.Event{Type: core.EventCreate, ContentType: "blog", ID: 1})
	b.Publish(core.Event{Type: core.EventDelete, ContentType: "products", ID: 2})

	select {
	case evt := <-blogCh:
		assert.Equal(t, core.EventCreate, evt.Type)
		assert.Equal(t, "blog/create", evt.Topic())
	case <-time.After(time.Second):
		t.Fatal("blog subscriber got nothing")
	}

	// The blog subscriber must not see the products event.
	select {
	case evt := <-blogCh:
		t.Fatalf("unexpected event for blog subscriber: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}

	received := 0
	timeout := time.After(time.Second)
	for received < 2 {
		select {
		case <-allCh:
			received++
		case <-timeout:
			t.Fatalf("catch-all subscriber got %d of 2 events", received)
		}
	}
}

func TestBrokerRejectsBadPattern(t *testing.T) {
	b := core.NewBroker(0)
	defer b.Close()

	_, _, err := b.Subscribe("[")
	require.Error(t, err)
}

func TestBrokerDropsWhenSubscriberSaturated(t *testing.T) {
	b := core.NewBroker(1)
	defer b.Close()

	ch, cancel, err := b.Subscribe("**")
	require.NoError(t, err)
	defer cancel()

	// Nobody is reading; the second and third publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 3; i++ {
			b.Publish(core.Event{Type: core.EventCreate, ContentType: "blog", ID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a saturated subscriber")
	}

	count := 0
	for {
		select {
		case <-ch:
			count++
		default:
			assert.Equal(t, 1, count, "only the buffered event survives")
			return
		}
	}
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := core.NewBroker(0)
	defer b.Close()

	ch, cancel, err := b.Subscribe("**")
	require.NoError(t, err)

	cancel()
	_, open := <-ch
	assert.False(t, open, "unsubscribe should close the channel")

	// A second cancel is a no-op.
	cancel()
}

func TestBrokerCloseClosesAllSubscribers(t *testing.T) {
	b := core.NewBroker(0)

	ch1, _, err := b.Subscribe("blog/*")
	require.NoError(t, err)
	ch2, _, err := b.Subscribe("**")
	require.NoError(t, err)

	b.Close()

	_, open := <-ch1
	assert.False(t, open)
	_, open = <-ch2
	assert.False(t, open)

	// Publishing after close is a no-op, not a panic.
	b.Publish(core.Event{Type: core.EventCreate, ContentType: "blog"})
}
