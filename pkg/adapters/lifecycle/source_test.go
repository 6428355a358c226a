package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lcadapter "github.com/stromabio/stroma/pkg/adapters/lifecycle"
	"github.com/stromabio/stroma/pkg/core"
)

func TestSourceForwardsEvents(t *testing.T) {
	in := make(chan core.Event, 1)
	src := lcadapter.NewSource(in)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventCreate, ContentType: "blog", ID: 42}

	select {
	case evt := <-src.Events():
		assert.Contains(t, evt.String(), "blog")
		assert.Contains(t, evt.String(), "42")
	case <-time.After(time.Second):
		t.Fatal("event not forwarded")
	}
}

func TestSourceClosesWhenInputCloses(t *testing.T) {
	in := make(chan core.Event)
	src := lcadapter.NewSource(in)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, src.Start(ctx))

	close(in)

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "output should close with the input")
	case <-time.After(time.Second):
		t.Fatal("output channel did not close")
	}
}
