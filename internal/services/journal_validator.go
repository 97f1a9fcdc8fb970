package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/necroledger/necroledger-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BalanceTolerance is the largest debit/credit difference still considered balanced
var BalanceTolerance = decimal.RequireFromString("0.01")

// LineItem is one proposed posting of an entry
type LineItem struct {
	AccountID   uint            `json:"account_id" validate:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// NewLineItem builds a line item, rejecting a missing account and negative amounts
func NewLineItem(accountID uint, debit, credit decimal.Decimal, description string) (LineItem, error) {
	if accountID == 0 {
		return LineItem{}, fmt.Errorf("%w: la línea requiere una cuenta", ErrInvalidEntry)
	}
	if debit.IsNegative() || credit.IsNegative() {
		return LineItem{}, fmt.Errorf("%w: los montos no pueden ser negativos", ErrInvalidEntry)
	}
	return LineItem{
		AccountID:   accountID,
		Debit:       debit.Round(2),
		Credit:      credit.Round(2),
		Description: description,
	}, nil
}

// EntryProposal is an entry submitted for validation and persistence
type EntryProposal struct {
	Number      string     `validate:"required,max=20"`
	Date        time.Time  `validate:"required"`
	Description string     `validate:"max=1000"`
	Lines       []LineItem `validate:"required,min=1,dive"`
	CreatedBy   *uint
}

// Totals returns the debit and credit sums of the proposal
func (p *EntryProposal) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range p.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// NumberChecker reports whether an entry number is already taken
type NumberChecker interface {
	NumberExists(ctx context.Context, number string) (bool, error)
}

// AccountFinder resolves accounts by id
type AccountFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Account, error)
}

// JournalValidator decides whether a proposal may be persisted
type JournalValidator struct {
	numbers  NumberChecker
	accounts AccountFinder
	validate *validator.Validate
}

// NewJournalValidator creates a validator reading through the given lookups
func NewJournalValidator(numbers NumberChecker, accounts AccountFinder) *JournalValidator {
	return &JournalValidator{
		numbers:  numbers,
		accounts: accounts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate runs the shape check, then balance, number uniqueness and per-line
// account checks, stopping at the first failure.
func (v *JournalValidator) Validate(ctx context.Context, p *EntryProposal) error {
	if err := v.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEntry, describeValidation(err))
	}
	for i, l := range p.Lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("%w: línea %d con monto negativo", ErrInvalidEntry, i+1)
		}
	}

	debit, credit := p.Totals()
	if debit.Sub(credit).Abs().GreaterThan(BalanceTolerance) {
		return &UnbalancedError{Debit: debit, Credit: credit}
	}

	exists, err := v.numbers.NumberExists(ctx, p.Number)
	if err != nil {
		return fmt.Errorf("verificar número de asiento: %w", err)
	}
	if exists {
		return &DuplicateNumberError{Number: p.Number}
	}

	for i, l := range p.Lines {
		account, err := v.accounts.FindByID(ctx, l.AccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &LineAccountError{Line: i + 1, AccountID: l.AccountID, Err: ErrUnknownAccount}
			}
			return fmt.Errorf("buscar cuenta %d: %w", l.AccountID, err)
		}
		if !account.Active {
			return &LineAccountError{Line: i + 1, AccountID: l.AccountID, Label: account.Label(), Err: ErrInactiveAccount}
		}
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("el campo %s es obligatorio", fe.Namespace())
	case "min":
		return fmt.Sprintf("el campo %s requiere al menos %s elemento(s)", fe.Namespace(), fe.Param())
	case "max":
		return fmt.Sprintf("el campo %s excede el máximo de %s", fe.Namespace(), fe.Param())
	}
	return fmt.Sprintf("el campo %s no es válido", fe.Namespace())
}
