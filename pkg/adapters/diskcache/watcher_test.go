package diskcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stromabio/stroma/pkg/core"
)

func TestWatchEmitsReloadOnForeignWrite(t *testing.T) {
	dir := t.TempDir()
	watching := New(Config{Dir: dir, ContentType: "blog"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := watching.Watch(ctx)
	require.NoError(t, err)

	// A different process (second Store instance) writes the slot.
	foreign := New(Config{Dir: dir, ContentType: "blog"})
	require.NoError(t, foreign.Write(core.Snapshot{Version: "foreign-v1"}))

	select {
	case evt, ok := <-events:
		require.True(t, ok)
		assert.Equal(t, core.EventReload, evt.Type)
		assert.Equal(t, "blog", evt.ContentType)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload event after a foreign write")
	}
}

func TestWatchSuppressesOwnWrites(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{Dir: dir, ContentType: "blog"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Write(core.Snapshot{Version: "own-v1"}))

	select {
	case evt := <-events:
		t.Fatalf("own write must not notify, got %v", evt)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{Dir: dir, ContentType: "blog"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.Watch(ctx)
	require.NoError(t, err)

	other := New(Config{Dir: dir, ContentType: "products"})
	require.NoError(t, other.Write(core.Snapshot{Version: "p1"}))

	select {
	case evt := <-events:
		t.Fatalf("write to another slot must not notify, got %v", evt)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchIgnoresInFlightTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{Dir: dir, ContentType: "blog"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.Watch(ctx)
	require.NoError(t, err)

	// A writer mid-flight leaves a temp file in the dir. It must not
	// surface as a reload even before the rename happens.
	tmp := filepath.Join(dir, TempFilePrefix+"123456")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"version":"staged"}`), 0644))

	select {
	case evt := <-events:
		t.Fatalf("staged temp file must not notify, got %v", evt)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchChannelClosesOnCancel(t *testing.T) {
	s := New(Config{Dir: t.TempDir(), ContentType: "blog"})

	ctx, cancel := context.WithCancel(context.Background())
	events, err := s.Watch(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel should close when the context ends")
	case <-time.After(3 * time.Second):
		t.Fatal("channel did not close after cancel")
	}
}
