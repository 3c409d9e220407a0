package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-hostel-server/store"
	"github.com/stretchr/testify/require"
)

type room struct {
	Number string `json:"number"`
	Beds   int    `json:"beds"`
}

func engines(t *testing.T) map[string]store.KV {
	t.Helper()
	f, err := store.NewFile(filepath.Join(t.TempDir(), "data", "hostel.json"))
	require.NoError(t, err)
	return map[string]store.KV{
		"memory": store.NewMemory(),
		"file":   f,
	}
}

func TestKV_GetPutDelete(t *testing.T) {
	ctx := context.Background()
	for name, kv := range engines(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(ctx, "missing")
			require.ErrorIs(t, err, store.ErrNotFound)

			require.NoError(t, kv.Put(ctx, "a", []byte("1")))
			v, err := kv.Get(ctx, "a")
			require.NoError(t, err)
			require.Equal(t, []byte("1"), v)

			require.NoError(t, kv.Delete(ctx, "a"))
			require.ErrorIs(t, kv.Delete(ctx, "a"), store.ErrNotFound)
		})
	}
}

func TestKV_ListByPrefixIsOrdered(t *testing.T) {
	ctx := context.Background()
	for name, kv := range engines(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Put(ctx, "room:b", []byte("b")))
			require.NoError(t, kv.Put(ctx, "room:a", []byte("a")))
			require.NoError(t, kv.Put(ctx, "student:a", []byte("s")))

			values, err := kv.List(ctx, "room:")
			require.NoError(t, err)
			require.Equal(t, [][]byte{[]byte("a"), []byte("b")}, values)
		})
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	value := []byte("abc")
	require.NoError(t, kv.Put(ctx, "k", value))
	value[0] = 'z'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))
}

func TestKV_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.NewMemory().Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
}

func TestFile_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hostel.json")

	f, err := store.NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Put(ctx, "room:101", []byte(`{"number":"101","beds":2}`)))

	reopened, err := store.NewFile(path)
	require.NoError(t, err)
	v, err := reopened.Get(ctx, "room:101")
	require.NoError(t, err)
	require.JSONEq(t, `{"number":"101","beds":2}`, string(v))
}

func TestFile_FailedSaveLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	f, err := store.NewFile(filepath.Join(dir, "hostel.json"))
	require.NoError(t, err)
	require.NoError(t, f.Put(ctx, "room:101", []byte(`{"beds":2}`)))

	// Snapshots can no longer be written.
	require.NoError(t, os.RemoveAll(dir))

	require.Error(t, f.Put(ctx, "room:102", []byte(`{"beds":1}`)))
	_, err = f.Get(ctx, "room:102")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.Error(t, f.Put(ctx, "room:101", []byte(`{"beds":4}`)))
	v, err := f.Get(ctx, "room:101")
	require.NoError(t, err)
	require.JSONEq(t, `{"beds":2}`, string(v))

	require.Error(t, f.Delete(ctx, "room:101"))
	_, err = f.Get(ctx, "room:101")
	require.NoError(t, err)
}

func TestCollection_RoundTrip(t *testing.T) {
	ctx := context.Background()
	rooms := store.NewCollection[room](store.NewMemory(), "room")

	require.NoError(t, rooms.Put(ctx, "101", &room{Number: "101", Beds: 2}))
	require.NoError(t, rooms.Put(ctx, "102", &room{Number: "102", Beds: 3}))

	r, err := rooms.Get(ctx, "101")
	require.NoError(t, err)
	require.Equal(t, 2, r.Beds)

	all, err := rooms.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "102", all[1].Number)

	require.NoError(t, rooms.Delete(ctx, "101"))
	_, err = rooms.Get(ctx, "101")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCollection_ListGroup(t *testing.T) {
	ctx := context.Background()
	rooms := store.NewCollection[room](store.NewMemory(), "room")

	require.NoError(t, rooms.Put(ctx, store.GroupID("east", "101"), &room{Number: "101"}))
	require.NoError(t, rooms.Put(ctx, store.GroupID("east", "102"), &room{Number: "102"}))
	require.NoError(t, rooms.Put(ctx, store.GroupID("eastwing", "201"), &room{Number: "201"}))

	east, err := rooms.ListGroup(ctx, "east")
	require.NoError(t, err)
	require.Len(t, east, 2)

	none, err := rooms.ListGroup(ctx, "west")
	require.NoError(t, err)
	require.Empty(t, none)
}
