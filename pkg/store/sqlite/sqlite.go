// Package sqlite implements store.Store on SQLite through database/sql and the
// pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sqlitedriver "modernc.org/sqlite"

	"github.com/goliatone/go-contacts/pkg/contact"
	"github.com/goliatone/go-contacts/pkg/store"
)

const driverName = "sqlite"

// foldFunc lower-cases text with Unicode rules. The built-in lower() and LIKE
// only fold ASCII, so searches and email lookups go through this instead.
const foldFunc = "casefold"

func init() {
	sqlitedriver.MustRegisterDeterministicScalarFunction(foldFunc, 1, casefold)
}

func casefold(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	phone TEXT NOT NULL,
	email_address TEXT NOT NULL
);
DROP INDEX IF EXISTS idx_contacts_email;
CREATE INDEX IF NOT EXISTS idx_contacts_email_fold ON contacts(casefold(email_address));
`

const selectColumns = `id, first_name, last_name, phone, email_address`

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
}

// Option mutates Options.
type Option func(*Options)

// WithMaxOpenConns caps the pool size.
func WithMaxOpenConns(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxOpenConns = n
		}
	}
}

// WithMaxIdleConns caps idle pooled connections.
func WithMaxIdleConns(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxIdleConns = n
		}
	}
}

// Store is a SQLite backed store.Store.
type Store struct {
	db   *sql.DB
	path string
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and ensures the
// contacts table exists.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	options := Options{MaxOpenConns: 8, MaxIdleConns: 2}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	path = strings.TrimPrefix(strings.TrimSpace(path), "sqlite://")
	if path == "" {
		return nil, errors.New("sqlite: database path is required")
	}
	if file := filePath(path); file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create directory: %w", err)
		}
	}

	db, err := sql.Open(driverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if inMemory(path) {
		// Every connection to :memory: gets its own empty database, so the
		// pool is pinned to a single connection that never expires.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else {
		db.SetMaxOpenConns(options.MaxOpenConns)
		db.SetMaxIdleConns(options.MaxIdleConns)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// DB exposes the underlying pool.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the database location as given to Open.
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: init schema: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]contact.Contact, error) {
	opts = opts.Normalize()

	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT ` + selectColumns + ` FROM contacts`)
	if opts.Searching() {
		pattern := store.LikePattern(opts.Query)
		query.WriteString(` WHERE casefold(first_name) LIKE ? ESCAPE '\' OR casefold(last_name) LIKE ? ESCAPE '\'`)
		args = append(args, pattern, pattern)
	}
	query.WriteString(` ORDER BY id`)
	switch {
	case opts.All:
	case opts.Searching():
		query.WriteString(` LIMIT ?`)
		args = append(args, opts.PageSize)
	default:
		query.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, opts.PageSize, opts.Offset())
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	defer rows.Close()

	out := make([]contact.Contact, 0, opts.PageSize)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count: %w", err)
	}
	return n, nil
}

func (s *Store) Get(ctx context.Context, id contact.ID) (contact.Contact, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM contacts WHERE id = ?`, int64(id))
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return contact.Contact{}, store.ErrNotFound
	}
	if err != nil {
		return contact.Contact{}, fmt.Errorf("sqlite: get %d: %w", id, err)
	}
	return c, nil
}

func (s *Store) Create(ctx context.Context, in contact.Input) (contact.Contact, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (first_name, last_name, phone, email_address) VALUES (?, ?, ?, ?)`,
		in.FirstName, in.LastName, in.Phone, in.EmailAddress,
	)
	if err != nil {
		return contact.Contact{}, fmt.Errorf("sqlite: create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return contact.Contact{}, fmt.Errorf("sqlite: create: %w", err)
	}
	return in.WithID(contact.ID(id)), nil
}

func (s *Store) Update(ctx context.Context, id contact.ID, in contact.Input) (contact.Contact, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET first_name = ?, last_name = ?, phone = ?, email_address = ? WHERE id = ?`,
		in.FirstName, in.LastName, in.Phone, in.EmailAddress, int64(id),
	)
	if err != nil {
		return contact.Contact{}, fmt.Errorf("sqlite: update %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return contact.Contact{}, fmt.Errorf("sqlite: update %d: %w", id, err)
	}
	if affected == 0 {
		return contact.Contact{}, store.ErrNotFound
	}
	return in.WithID(id), nil
}

func (s *Store) Delete(ctx context.Context, id contact.ID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, int64(id)); err != nil {
		return fmt.Errorf("sqlite: delete %d: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteMany(ctx context.Context, ids []contact.ID) (int64, error) {
	ids = store.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, int64(id))
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite: delete many: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: delete many: %w", err)
	}
	return affected, nil
}

func (s *Store) EmailInUse(ctx context.Context, email string, exclude contact.ID) (bool, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contacts WHERE casefold(email_address) = ? AND id <> ?`,
		strings.ToLower(strings.TrimSpace(email)), int64(exclude),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: email lookup: %w", err)
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(row scanner) (contact.Contact, error) {
	var (
		c  contact.Contact
		id int64
	)
	if err := row.Scan(&id, &c.FirstName, &c.LastName, &c.Phone, &c.EmailAddress); err != nil {
		return contact.Contact{}, err
	}
	c.ID = contact.ID(id)
	return c, nil
}

func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func inMemory(path string) bool {
	return strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory")
}

func filePath(path string) string {
	if inMemory(path) {
		return ""
	}
	file := strings.TrimPrefix(path, "file:")
	if idx := strings.Index(file, "?"); idx >= 0 {
		file = file[:idx]
	}
	return file
}
