package depcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_OpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestStore_UpToDateLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ok, err := s.UpToDate(ctx, "foo", 0, "fp-1")
	require.NoError(t, err)
	assert.False(t, ok, "missing row is not up to date")

	require.NoError(t, s.Record(ctx, Build{
		Entry: "foo", Stage: 0, Fingerprint: "fp-1",
		OutputHash: "out-1", RunID: "run-1", BuiltAt: time.Now(),
	}))

	ok, err = s.UpToDate(ctx, "foo", 0, "fp-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.UpToDate(ctx, "foo", 0, "fp-2")
	require.NoError(t, err)
	assert.False(t, ok, "changed fingerprint is stale")
}

func TestStore_RecordReplacesRow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, Build{
		Entry: "foo", Stage: 3, Fingerprint: "fp-old",
		OutputHash: "out-old", RunID: "run-1", BuiltAt: time.Now(),
	}))
	require.NoError(t, s.Record(ctx, Build{
		Entry: "foo", Stage: 3, Fingerprint: "fp-new",
		OutputHash: "out-new", RunID: "run-2", BuiltAt: time.Now(),
	}))

	builds, err := s.Builds(ctx, "foo")
	require.NoError(t, err)
	require.Len(t, builds, 1, "one row per (entry, stage)")
	assert.Equal(t, "fp-new", builds[0].Fingerprint)
	assert.Equal(t, "run-2", builds[0].RunID)
}

func TestStore_BuildsOrderedByStage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, stage := range []int{7, 0, 3} {
		require.NoError(t, s.Record(ctx, Build{
			Entry: "foo", Stage: stage, Fingerprint: "fp",
			OutputHash: "out", RunID: "run", BuiltAt: time.Now(),
		}))
	}

	builds, err := s.Builds(ctx, "foo")
	require.NoError(t, err)
	require.Len(t, builds, 3)
	assert.Equal(t, 0, builds[0].Stage)
	assert.Equal(t, 3, builds[1].Stage)
	assert.Equal(t, 7, builds[2].Stage)
}

func TestStore_DropEntryIsScoped(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, entry := range []string{"foo", "bar"} {
		require.NoError(t, s.Record(ctx, Build{
			Entry: entry, Stage: 0, Fingerprint: "fp",
			OutputHash: "out", RunID: "run", BuiltAt: time.Now(),
		}))
	}

	require.NoError(t, s.DropEntry(ctx, "foo"))

	ok, err := s.UpToDate(ctx, "foo", 0, "fp")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.UpToDate(ctx, "bar", 0, "fp")
	require.NoError(t, err)
	assert.True(t, ok, "dropping one entry must not touch another's rows")
}
