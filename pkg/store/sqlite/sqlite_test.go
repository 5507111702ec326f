package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-contacts/pkg/store"
	"github.com/goliatone/go-contacts/pkg/store/sqlite"
	"github.com/goliatone/go-contacts/pkg/store/storetest"
)

func openTemp(t *testing.T) *sqlite.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.db")
	s, err := sqlite.Open(context.Background(), path, sqlite.WithMaxOpenConns(4))
	require.NoError(t, err)
	return s
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return openTemp(t)
	})
}

func TestContractInMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := sqlite.Open(context.Background(), ":memory:")
		require.NoError(t, err)
		return s
	})
}

func TestInMemoryServesConcurrentCallers(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(ctx, "sqlite://:memory:", sqlite.WithMaxOpenConns(8))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.Equal(t, 1, s.DB().Stats().MaxOpenConnections)

	var g errgroup.Group
	for i := 1; i <= 20; i++ {
		g.Go(func() error {
			if _, err := s.Create(ctx, storetest.Input(i)); err != nil {
				return err
			}
			_, err := s.List(ctx, store.ListOptions{Query: "first"})
			return err
		})
	}
	require.NoError(t, g.Wait())

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 20, n)
}

func TestOpenCreatesNestedDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "contacts.db")
	s, err := sqlite.Open(context.Background(), "sqlite://"+path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.FileExists(t, path)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "contacts.db")

	s, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	created, err := s.Create(ctx, storetest.Input(1))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := sqlite.Open(context.Background(), "  ")
	assert.Error(t, err)
}
