package memkv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSetDelete(t *testing.T) {
	svc := NewService()
	store := svc.OpenKVStore(context.Background())

	v, err := store.Get([]byte("missing"))
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, store.Set([]byte("a"), []byte("1")))
	v, err = store.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), v)

	has, err := store.Has([]byte("a"))
	require.NoError(t, err)
	require.True(t, has)

	require.NoError(t, store.Delete([]byte("a")))
	has, err = store.Has([]byte("a"))
	require.NoError(t, err)
	require.False(t, has)
}

func TestIteratorOrderedByKey(t *testing.T) {
	svc := NewService()
	store := svc.OpenKVStore(context.Background())

	require.NoError(t, store.Set([]byte("b"), []byte("2")))
	require.NoError(t, store.Set([]byte("a"), []byte("1")))
	require.NoError(t, store.Set([]byte("c"), []byte("3")))

	it, err := store.Iterator([]byte("a"), []byte("z"))
	require.NoError(t, err)
	defer it.Close()

	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.Equal(t, []string{"a", "b", "c"}, keys)
}
