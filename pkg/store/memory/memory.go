// Package memory keeps contacts in a slice guarded by a read/write lock. It
// backs tests and demos that do not need a database file.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-contacts/pkg/contact"
	"github.com/goliatone/go-contacts/pkg/store"
)

// Store is an in-memory store.Store.
type Store struct {
	mu       sync.RWMutex
	contacts []contact.Contact
	nextID   contact.ID
}

var _ store.Store = (*Store)(nil)

// New returns an empty store, optionally seeded with records.
func New(seed ...contact.Input) *Store {
	s := &Store{nextID: 1}
	for _, in := range seed {
		s.contacts = append(s.contacts, in.WithID(s.nextID))
		s.nextID++
	}
	return s
}

func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]contact.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]contact.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if store.MatchesQuery(c, opts.Query) {
			matches = append(matches, c)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	if opts.All {
		return matches, nil
	}
	if opts.Searching() {
		if len(matches) > opts.PageSize {
			matches = matches[:opts.PageSize]
		}
		return matches, nil
	}

	start := opts.Offset()
	if start >= len(matches) {
		return []contact.Contact{}, nil
	}
	end := start + opts.PageSize
	if end > len(matches) {
		end = len(matches)
	}
	return append([]contact.Contact{}, matches[start:end]...), nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.contacts)), nil
}

func (s *Store) Get(ctx context.Context, id contact.ID) (contact.Contact, error) {
	if err := ctx.Err(); err != nil {
		return contact.Contact{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.contacts[idx], nil
	}
	return contact.Contact{}, store.ErrNotFound
}

func (s *Store) Create(ctx context.Context, in contact.Input) (contact.Contact, error) {
	if err := ctx.Err(); err != nil {
		return contact.Contact{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	created := in.WithID(s.nextID)
	s.nextID++
	s.contacts = append(s.contacts, created)
	return created, nil
}

func (s *Store) Update(ctx context.Context, id contact.ID, in contact.Input) (contact.Contact, error) {
	if err := ctx.Err(); err != nil {
		return contact.Contact{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return contact.Contact{}, store.ErrNotFound
	}
	s.contacts[idx] = in.WithID(id)
	return s.contacts[idx], nil
}

func (s *Store) Delete(ctx context.Context, id contact.ID) error {
	_, err := s.DeleteMany(ctx, []contact.ID{id})
	return err
}

func (s *Store) DeleteMany(ctx context.Context, ids []contact.ID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	ids = store.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	drop := make(map[contact.ID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.contacts[:0]
	var removed int64
	for _, c := range s.contacts {
		if _, ok := drop[c.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	s.contacts = kept
	return removed, nil
}

func (s *Store) EmailInUse(ctx context.Context, email string, exclude contact.ID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	email = strings.TrimSpace(email)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.contacts {
		if c.ID == exclude {
			continue
		}
		if strings.EqualFold(c.EmailAddress, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) indexOf(id contact.ID) int {
	for i, c := range s.contacts {
		if c.ID == id {
			return i
		}
	}
	return -1
}
