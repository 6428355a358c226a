package diskcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stromabio/stroma/pkg/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(Config{Dir: t.TempDir(), ContentType: "blog"})
}

func TestStoreReadAbsent(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Read()
	require.NoError(t, err, "an absent slot is not an error")
	assert.Nil(t, snap)
}

func TestStoreWriteReadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	title := "edited"
	in := core.Snapshot{
		Version: "v1",
		Saved: []core.Record{{
			ID:          100,
			Slug:        "draft",
			Title:       "Draft",
			Tags:        []string{"x"},
			PublishedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Fields:      core.Fields{"sku": "S-1"},
		}},
		Hidden:    []int64{1, 2},
		Overrides: map[int64]core.Patch{3: {Title: &title}},
	}

	require.NoError(t, s.Write(in))

	out, err := s.Read()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "v1", out.Version)
	require.Len(t, out.Saved, 1)
	assert.Equal(t, "draft", out.Saved[0].Slug)
	assert.Equal(t, []int64{1, 2}, out.Hidden)
	require.Contains(t, out.Overrides, int64(3))
	assert.Equal(t, "edited", *out.Overrides[3].Title)
}

func TestStoreReadCorruptDegradesToEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0644))

	snap, err := s.Read()
	require.NoError(t, err, "a corrupt slot degrades to empty, not an error")
	assert.Nil(t, snap)
}

func TestStoreOwnWriteDetection(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Write(core.Snapshot{Version: "mine"}))

	assert.True(t, s.ownWrite("mine"))
	assert.False(t, s.ownWrite("theirs"))

	// Another instance on the same path has no memory of the write.
	other := New(Config{Dir: filepath.Dir(s.Path()), ContentType: "blog"})
	assert.False(t, other.ownWrite("mine"))
}

func TestStoreWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{Dir: dir, ContentType: "blog"})
	require.NoError(t, s.Write(core.Snapshot{Version: "v1"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "blog.json", entries[0].Name())
}
