package pebblekv

import (
	"context"
	"testing"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/interfaces/ikvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, dir string) *Store {
	t.Helper()

	st, err := NewStore(dir)
	require.NoError(t, err, "pebble open")

	return st
}

func TestStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, t.TempDir())
	t.Cleanup(func() { _ = st.Close() })

	_, err := st.Get(ctx, "order:1")
	require.ErrorIs(t, err, ikvstore.ErrNotFound)

	require.NoError(t, st.Set(ctx, "order:1", []byte(`{"status":"pending"}`)))
	got, err := st.Get(ctx, "order:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"pending"}`, string(got))

	require.NoError(t, st.Delete(ctx, "order:1"))
	_, err = st.Get(ctx, "order:1")
	require.ErrorIs(t, err, ikvstore.ErrNotFound)
}

func TestStore_ScanPrefixStaysInFamily(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, t.TempDir())
	t.Cleanup(func() { _ = st.Close() })

	keys := []string{"customer:81999990000", "customer_orders:81999990000", "order:ORD-2", "order:ORD-1", "order;", "orders"}
	for _, k := range keys {
		require.NoError(t, st.Set(ctx, k, []byte(`{}`)))
	}

	entries, err := st.ScanPrefix(ctx, "order:")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "order:ORD-1", entries[0].Key)
	assert.Equal(t, "order:ORD-2", entries[1].Key)

	entries, err = st.ScanPrefix(ctx, "customer:")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "customer:81999990000", entries[0].Key)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st := openStore(t, dir)
	require.NoError(t, st.Set(ctx, "customer:1", []byte(`{"totalOrders":2}`)))
	require.NoError(t, st.Close())

	st = openStore(t, dir)
	t.Cleanup(func() { _ = st.Close() })

	got, err := st.Get(ctx, "customer:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalOrders":2}`, string(got))
}

func TestPrefixUpperBound(t *testing.T) {
	tests := []struct {
		prefix string
		want   []byte
	}{
		{prefix: "order:", want: []byte("order;")},
		{prefix: "a", want: []byte("b")},
		{prefix: "a\xff", want: []byte("b")},
		{prefix: "\xff\xff", want: nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, prefixUpperBound([]byte(tt.prefix)), tt.prefix)
	}
}
