// Package postgres implements store.Store on PostgreSQL through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/goliatone/go-contacts/pkg/contact"
	"github.com/goliatone/go-contacts/pkg/store"
)

type contactRow struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	Phone        string `gorm:"not null"`
	EmailAddress string `gorm:"not null;index"`
}

func (contactRow) TableName() string { return "contacts" }

func (r contactRow) toContact() contact.Contact {
	return contact.Contact{
		ID:           contact.ID(r.ID),
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Phone:        r.Phone,
		EmailAddress: r.EmailAddress,
	}
}

func rowFromInput(in contact.Input) contactRow {
	return contactRow{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		EmailAddress: in.EmailAddress,
	}
}

// Store is a gorm backed store.Store.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to dsn and migrates the contacts table.
func Open(ctx context.Context, dsn string, maxOpen, maxIdle int) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres: pool: %w", err)
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}

	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing gorm handle without migrating.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the contacts table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&contactRow{}); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// listQuery builds the list statement so it can be inspected in dry-run mode.
func (s *Store) listQuery(ctx context.Context, opts store.ListOptions) *gorm.DB {
	opts = opts.Normalize()
	q := s.db.WithContext(ctx).Model(&contactRow{}).Order("id")
	if opts.Searching() {
		pattern := store.LikePattern(opts.Query)
		q = q.Where(`first_name ILIKE ? OR last_name ILIKE ?`, pattern, pattern)
	}
	switch {
	case opts.All:
	case opts.Searching():
		q = q.Limit(opts.PageSize)
	default:
		q = q.Limit(opts.PageSize).Offset(opts.Offset())
	}
	return q
}

func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]contact.Contact, error) {
	var rows []contactRow
	if err := s.listQuery(ctx, opts).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("postgres: list: %w", err)
	}
	out := make([]contact.Contact, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toContact())
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&contactRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return n, nil
}

func (s *Store) Get(ctx context.Context, id contact.ID) (contact.Contact, error) {
	var row contactRow
	err := s.db.WithContext(ctx).First(&row, int64(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return contact.Contact{}, store.ErrNotFound
	}
	if err != nil {
		return contact.Contact{}, fmt.Errorf("postgres: get %d: %w", id, err)
	}
	return row.toContact(), nil
}

func (s *Store) Create(ctx context.Context, in contact.Input) (contact.Contact, error) {
	row := rowFromInput(in)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return contact.Contact{}, fmt.Errorf("postgres: create: %w", err)
	}
	return row.toContact(), nil
}

func (s *Store) updateQuery(ctx context.Context, id contact.ID) *gorm.DB {
	return s.db.WithContext(ctx).Model(&contactRow{}).Where("id = ?", int64(id))
}

func updateColumns(in contact.Input) map[string]any {
	return map[string]any{
		"first_name":    in.FirstName,
		"last_name":     in.LastName,
		"phone":         in.Phone,
		"email_address": in.EmailAddress,
	}
}

func (s *Store) Update(ctx context.Context, id contact.ID, in contact.Input) (contact.Contact, error) {
	res := s.updateQuery(ctx, id).Updates(updateColumns(in))
	if res.Error != nil {
		return contact.Contact{}, fmt.Errorf("postgres: update %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return contact.Contact{}, store.ErrNotFound
	}
	return in.WithID(id), nil
}

func (s *Store) Delete(ctx context.Context, id contact.ID) error {
	if err := s.db.WithContext(ctx).Delete(&contactRow{}, int64(id)).Error; err != nil {
		return fmt.Errorf("postgres: delete %d: %w", id, err)
	}
	return nil
}

func (s *Store) deleteManyQuery(ctx context.Context, ids []contact.ID) *gorm.DB {
	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, int64(id))
	}
	return s.db.WithContext(ctx).Where("id IN ?", raw)
}

func (s *Store) DeleteMany(ctx context.Context, ids []contact.ID) (int64, error) {
	ids = store.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.deleteManyQuery(ctx, ids).Delete(&contactRow{})
	if res.Error != nil {
		return 0, fmt.Errorf("postgres: delete many: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Store) emailQuery(ctx context.Context, email string, exclude contact.ID) *gorm.DB {
	return s.db.WithContext(ctx).Model(&contactRow{}).
		Where("lower(email_address) = ? AND id <> ?", strings.ToLower(strings.TrimSpace(email)), int64(exclude))
}

func (s *Store) EmailInUse(ctx context.Context, email string, exclude contact.ID) (bool, error) {
	var n int64
	err := s.emailQuery(ctx, email, exclude).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("postgres: email lookup: %w", err)
	}
	return n > 0, nil
}
