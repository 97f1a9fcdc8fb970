package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/necroledger/necroledger-api/internal/models"
	"github.com/necroledger/necroledger-api/internal/repository"
	"gorm.io/gorm"
)

// AccountService exposes the chart of accounts to journal callers
type AccountService struct {
	accountRepo repository.AccountRepository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo repository.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// ListActive returns the accounts usable in journal lines, ordered by code
func (s *AccountService) ListActive(ctx context.Context) ([]models.Account, error) {
	return s.accountRepo.ListActive(ctx)
}

// Resolve returns the code and name of an account
func (s *AccountService) Resolve(ctx context.Context, id uint) (*models.AccountRef, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cuenta %d", ErrNotFound, id)
		}
		return nil, err
	}
	ref := account.Ref()
	return &ref, nil
}
