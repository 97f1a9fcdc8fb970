package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateKey is returned when an insert violates a unique constraint
var ErrDuplicateKey = errors.New("registro duplicado")

// Repositories holds all repository instances
type Repositories struct {
	db *gorm.DB

	User    UserRepository
	Account AccountRepository
	Journal JournalRepository
	Audit   AuditRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:      db,
		User:    NewUserRepository(db),
		Account: NewAccountRepository(db),
		Journal: NewJournalRepository(db),
		Audit:   NewAuditRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single database transaction.
// fn must only use the repositories it receives; returning an error rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
