package repository

import (
	"context"
	"fmt"

	"github.com/necroledger/necroledger-api/internal/models"
	"gorm.io/gorm"
)

// AccountRepository defines the interface for chart-of-accounts data access
type AccountRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	FindByCode(ctx context.Context, code string) (*models.Account, error)
	ListActive(ctx context.Context) ([]models.Account, error)
	Create(ctx context.Context, account *models.Account) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByCode(ctx context.Context, code string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("codigo = ?", code).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListActive returns the accounts usable in journal lines, ordered by code
func (r *accountRepository) ListActive(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Where("activa = ?", true).
		Order("codigo ASC").
		Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: cuenta %s", ErrDuplicateKey, account.Code)
		}
		return err
	}
	return nil
}
