package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	ref, size, err := store.Save("01ABCDEF", strings.NewReader("quarterly deck"))
	require.NoError(t, err)
	require.Equal(t, int64(len("quarterly deck")), size)

	file, info, err := store.Open(ref)
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	require.Equal(t, size, info.Size())

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	require.Equal(t, "quarterly deck", string(content))
}

func TestOpenRejectsRefOutsideRoot(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Open("../../etc/passwd")
	require.Error(t, err)
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	ref, _, err := store.Save("01ABCDEF", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ref))
	require.NoError(t, store.Remove(ref))

	_, _, err = store.Open(ref)
	require.Error(t, err)
}
