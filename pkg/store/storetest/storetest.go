// Package storetest holds the behavioural contract every store.Store
// implementation must satisfy.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-contacts/pkg/contact"
	"github.com/goliatone/go-contacts/pkg/store"
	"github.com/goliatone/go-contacts/pkg/testsupport"
)

// Factory returns a fresh, empty store for a single subtest.
type Factory func(t *testing.T) store.Store

// Run executes the contract suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	cases := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"CreateAssignsIncreasingIDs", testCreate},
		{"GetMissing", testGetMissing},
		{"ListPagesByTen", testListPages},
		{"SearchMatchesNamesOnly", testSearch},
		{"SearchCapsResults", testSearchCap},
		{"SearchEscapesWildcards", testSearchWildcards},
		{"SearchFoldsUnicodeCase", testSearchUnicode},
		{"UpdateReplacesAllFields", testUpdate},
		{"UpdateMissing", testUpdateMissing},
		{"DeleteIsIdempotent", testDelete},
		{"DeleteMany", testDeleteMany},
		{"EmailInUse", testEmailInUse},
		{"EmailInUseFoldsUnicodeCase", testEmailInUseUnicode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tc.fn(t, s)
		})
	}
}

// Input returns the deterministic contact input numbered n (n >= 1).
func Input(n int) contact.Input {
	return testsupport.Numbered(n)[n-1]
}

// Seed creates n numbered contacts and returns them in creation order.
func Seed(t *testing.T, s store.Store, n int) []contact.Contact {
	t.Helper()
	out := make([]contact.Contact, 0, n)
	for _, in := range testsupport.Numbered(n) {
		c, err := s.Create(context.Background(), in)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func testCreate(t *testing.T, s store.Store) {
	ctx := context.Background()
	ada := contact.Input{FirstName: "Ada", LastName: "Lovelace", Phone: "555-0100", EmailAddress: "ada@example.com"}

	first, err := s.Create(ctx, ada)
	require.NoError(t, err)
	second, err := s.Create(ctx, Input(2))
	require.NoError(t, err)

	assert.Positive(t, int64(first.ID))
	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, ada, first.Input())

	got, err := s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func testGetMissing(t *testing.T, s store.Store) {
	_, err := s.Get(context.Background(), 4242)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testListPages(t *testing.T, s store.Store) {
	ctx := context.Background()
	seeded := Seed(t, s, 25)

	page0, err := s.List(ctx, store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, page0, 10)
	assert.Equal(t, seeded[:10], page0)

	page1, err := s.List(ctx, store.ListOptions{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, seeded[10:20], page1)

	page2, err := s.List(ctx, store.ListOptions{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, seeded[20:], page2)

	page3, err := s.List(ctx, store.ListOptions{Page: 3})
	require.NoError(t, err)
	assert.Empty(t, page3)

	all, err := s.List(ctx, store.ListOptions{All: true})
	require.NoError(t, err)
	assert.Equal(t, seeded, all)
}

func testSearch(t *testing.T, s store.Store) {
	ctx := context.Background()
	for _, in := range []contact.Input{
		{FirstName: "Ada", LastName: "Lovelace", Phone: "1", EmailAddress: "ada@example.com"},
		{FirstName: "Grace", LastName: "Hopper", Phone: "2", EmailAddress: "grace@example.com"},
		{FirstName: "Alan", LastName: "Turing", Phone: "3", EmailAddress: "alan@love.example"},
		{FirstName: "Lovell", LastName: "Jim", Phone: "4", EmailAddress: "jim@example.com"},
	} {
		_, err := s.Create(ctx, in)
		require.NoError(t, err)
	}

	got, err := s.List(ctx, store.ListOptions{Query: "LOVE", Page: 7})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ada", got[0].FirstName)
	assert.Equal(t, "Lovell", got[1].FirstName)

	none, err := s.List(ctx, store.ListOptions{Query: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testSearchCap(t *testing.T, s store.Store) {
	ctx := context.Background()
	seeded := Seed(t, s, 15)

	got, err := s.List(ctx, store.ListOptions{Query: "first"})
	require.NoError(t, err)
	assert.Equal(t, seeded[:store.PageSize], got)
}

func testSearchWildcards(t *testing.T, s store.Store) {
	ctx := context.Background()
	Seed(t, s, 3)
	_, err := s.Create(ctx, contact.Input{FirstName: "100%", LastName: "Real", Phone: "1", EmailAddress: "real@example.com"})
	require.NoError(t, err)

	got, err := s.List(ctx, store.ListOptions{Query: "%"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100%", got[0].FirstName)

	underscore, err := s.List(ctx, store.ListOptions{Query: "_"})
	require.NoError(t, err)
	assert.Empty(t, underscore)
}

func testSearchUnicode(t *testing.T, s store.Store) {
	ctx := context.Background()
	Seed(t, s, 2)
	created, err := s.Create(ctx, contact.Input{FirstName: "Émile", LastName: "Ølsen", Phone: "1", EmailAddress: "emile@example.com"})
	require.NoError(t, err)

	for _, q := range []string{"Émile", "émile", "ÉMILE", "øl", "ØLSEN"} {
		got, err := s.List(ctx, store.ListOptions{Query: q})
		require.NoError(t, err, q)
		if assert.Len(t, got, 1, q) {
			assert.Equal(t, created.ID, got[0].ID, q)
		}
	}
}

func testUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()
	seeded := Seed(t, s, 2)

	replacement := contact.Input{FirstName: "Ada", LastName: "Byron", Phone: "555-0199", EmailAddress: "ada@byron.example"}
	updated, err := s.Update(ctx, seeded[0].ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, replacement.WithID(seeded[0].ID), updated)

	got, err := s.Get(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	other, err := s.Get(ctx, seeded[1].ID)
	require.NoError(t, err)
	assert.Equal(t, seeded[1], other)
}

func testUpdateMissing(t *testing.T, s store.Store) {
	_, err := s.Update(context.Background(), 999, Input(1))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	seeded := Seed(t, s, 2)

	require.NoError(t, s.Delete(ctx, seeded[0].ID))
	require.NoError(t, s.Delete(ctx, seeded[0].ID))
	require.NoError(t, s.Delete(ctx, 9999))

	_, err := s.Get(ctx, seeded[0].ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func testDeleteMany(t *testing.T, s store.Store) {
	ctx := context.Background()
	seeded := Seed(t, s, 5)

	removed, err := s.DeleteMany(ctx, []contact.ID{seeded[0].ID, seeded[2].ID, seeded[2].ID, 9999})
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	removed, err = s.DeleteMany(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, removed)

	rest, err := s.List(ctx, store.ListOptions{All: true})
	require.NoError(t, err)
	assert.Equal(t, []contact.Contact{seeded[1], seeded[3], seeded[4]}, rest)
}

func testEmailInUse(t *testing.T, s store.Store) {
	ctx := context.Background()
	seeded := Seed(t, s, 2)

	inUse, err := s.EmailInUse(ctx, "PERSON01@example.com", 0)
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = s.EmailInUse(ctx, "person01@example.com", seeded[0].ID)
	require.NoError(t, err)
	assert.False(t, inUse, "own address should not conflict")

	inUse, err = s.EmailInUse(ctx, "person01@example.com", seeded[1].ID)
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = s.EmailInUse(ctx, "nobody@example.com", 0)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func testEmailInUseUnicode(t *testing.T, s store.Store) {
	ctx := context.Background()
	created, err := s.Create(ctx, contact.Input{FirstName: "Émile", LastName: "Ølsen", Phone: "1", EmailAddress: "émile@exemple.fr"})
	require.NoError(t, err)

	inUse, err := s.EmailInUse(ctx, "ÉMILE@EXEMPLE.FR", 0)
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = s.EmailInUse(ctx, "Émile@exemple.fr", created.ID)
	require.NoError(t, err)
	assert.False(t, inUse, "own address should not conflict")
}
