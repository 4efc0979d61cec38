package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srodi/cgstats/pkg/types"
)

func sampleSnapshot() *types.Snapshot {
	snap := types.NewSnapshot(time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC))
	snap.User["alice"] = 1500
	snap.User["root"] = 18446744073709551615
	snap.System["nginx"] = 42
	return snap
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	s := NewFileStore(path)
	ctx := context.Background()

	want := sampleSnapshot()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, got.CapturedAt.Equal(want.CapturedAt), "time %v != %v", got.CapturedAt, want.CapturedAt)
	require.Equal(t, want.User, got.User)
	require.Equal(t, want.System, got.System)
}

func TestFileStoreOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	s := NewFileStore(path)
	ctx := context.Background()

	first := sampleSnapshot()
	require.NoError(t, s.Save(ctx, first))

	second := types.NewSnapshot(first.CapturedAt.Add(time.Minute))
	second.System["sshd"] = 7
	require.NoError(t, s.Save(ctx, second))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]types.UsageCounter{"sshd": 7}, got.System)
	require.Empty(t, got.User)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files left behind")
}

func TestFileStoreMissingFile(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "absent.yaml")).Load(context.Background())
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestFileStoreMalformed(t *testing.T) {
	cases := map[string]string{
		"garbage":   "this is: [not yaml",
		"scalar":    "hello",
		"empty":     "",
		"noTime":    "user:\n  alice: 1\n",
		"badNumber": "time: 2024-05-01T12:00:00Z\nuser:\n  alice: -3\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "state.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := NewFileStore(path).Load(context.Background())
			require.Error(t, err)
			require.False(t, errors.Is(err, ErrNoSnapshot))
		})
	}
}

func TestFileStoreSaveError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	// The parent of the state file is a regular file, so nothing can be created.
	err := NewFileStore(filepath.Join(blocker, "state.yaml")).Save(context.Background(), sampleSnapshot())
	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)
	require.Contains(t, saveErr.Error(), blocker)
}

func TestDecodeFillsMissingMaps(t *testing.T) {
	snap, err := Decode([]byte("time: 2024-05-01T12:00:00Z\n"))
	require.NoError(t, err)
	require.NotNil(t, snap.User)
	require.NotNil(t, snap.System)
}

func TestEncodeNil(t *testing.T) {
	_, err := Encode(nil)
	require.Error(t, err)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("CGSTATS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CGSTATS_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, RedisOptions{Address: addr})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	key := "cgstats:test:" + strconv.FormatInt(time.Now().UnixNano(), 10)
	t.Cleanup(func() { client.Del(ctx, key) })
	s := NewRedisStore(client, key)

	_, err = s.Load(ctx)
	require.ErrorIs(t, err, ErrNoSnapshot)

	want := sampleSnapshot()
	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want.User, got.User)
	require.Equal(t, want.System, got.System)
}

func TestNewRedisStoreDefaultKey(t *testing.T) {
	s := NewRedisStore(nil, "")
	require.Equal(t, DefaultRedisKey, s.key)
}
