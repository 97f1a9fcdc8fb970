package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/necroledger/necroledger-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeNumbers struct {
	taken map[string]bool
	err   error
	calls int
}

func (f *fakeNumbers) NumberExists(ctx context.Context, number string) (bool, error) {
	f.calls++
	return f.taken[number], f.err
}

type fakeAccounts map[uint]*models.Account

func (f fakeAccounts) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	if a, ok := f[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func validProposal() *EntryProposal {
	return &EntryProposal{
		Number: "AS-20240101-001",
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Lines: []LineItem{
			{AccountID: 1, Debit: decimal.NewFromInt(500), Credit: decimal.Zero},
			{AccountID: 2, Debit: decimal.Zero, Credit: decimal.NewFromInt(500)},
		},
	}
}

func newTestValidator(numbers *fakeNumbers) *JournalValidator {
	return NewJournalValidator(numbers, fakeAccounts{
		1: {ID: 1, Code: "1.1", Name: "CAJA", Active: true},
		2: {ID: 2, Code: "1.2", Name: "BANCOS", Active: true},
		3: {ID: 3, Code: "1.3", Name: "CUENTAS POR COBRAR", Active: false},
	})
}

func TestJournalValidator_Valid(t *testing.T) {
	v := newTestValidator(&fakeNumbers{})
	assert.NoError(t, v.Validate(context.Background(), validProposal()))
}

func TestJournalValidator_BothSidesOnOneLine(t *testing.T) {
	v := newTestValidator(&fakeNumbers{})
	p := validProposal()
	p.Lines = []LineItem{{AccountID: 1, Debit: decimal.NewFromInt(40), Credit: decimal.NewFromInt(40)}}
	assert.NoError(t, v.Validate(context.Background(), p))
}

func TestJournalValidator_UnbalancedSkipsLookups(t *testing.T) {
	numbers := &fakeNumbers{taken: map[string]bool{"AS-20240101-001": true}}
	v := newTestValidator(numbers)
	p := validProposal()
	p.Lines[1].Credit = decimal.RequireFromString("499.98")

	err := v.Validate(context.Background(), p)
	assert.ErrorIs(t, err, ErrUnbalanced)
	assert.Equal(t, 0, numbers.calls)
	assert.Equal(t, "La partida no está cuadrada. Debe: Q 500.00, Haber: Q 499.98, Diferencia: Q 0.02", err.Error())
}

func TestJournalValidator_Duplicate(t *testing.T) {
	v := newTestValidator(&fakeNumbers{taken: map[string]bool{"AS-20240101-001": true}})

	err := v.Validate(context.Background(), validProposal())
	var de *DuplicateNumberError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "AS-20240101-001", de.Number)
	assert.ErrorIs(t, err, ErrDuplicateNumber)
}

func TestJournalValidator_LookupFailureIsNotDomainError(t *testing.T) {
	v := newTestValidator(&fakeNumbers{err: errors.New("connection reset")})

	err := v.Validate(context.Background(), validProposal())
	require.Error(t, err)
	assert.False(t, IsDomainError(err))
}

func TestJournalValidator_Accounts(t *testing.T) {
	tests := []struct {
		name      string
		accountID uint
		want      error
		message   string
	}{
		{"unknown", 42, ErrUnknownAccount, "Línea 2: la cuenta con ID 42 no existe"},
		{"inactive", 3, ErrInactiveAccount, "Línea 2: la cuenta 1.3 - CUENTAS POR COBRAR está inactiva"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(&fakeNumbers{})
			p := validProposal()
			p.Lines[1].AccountID = tt.accountID

			err := v.Validate(context.Background(), p)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestJournalValidator_Shape(t *testing.T) {
	v := newTestValidator(&fakeNumbers{})

	p := validProposal()
	p.Number = ""
	assert.ErrorIs(t, v.Validate(context.Background(), p), ErrInvalidEntry)

	p = validProposal()
	p.Lines = []LineItem{}
	assert.ErrorIs(t, v.Validate(context.Background(), p), ErrInvalidEntry)

	p = validProposal()
	p.Lines[0].AccountID = 0
	assert.ErrorIs(t, v.Validate(context.Background(), p), ErrInvalidEntry)

	p = validProposal()
	p.Lines[0].Debit = decimal.NewFromInt(-500)
	p.Lines[1].Credit = decimal.NewFromInt(-500)
	assert.ErrorIs(t, v.Validate(context.Background(), p), ErrInvalidEntry)
}

func TestNewLineItem(t *testing.T) {
	item, err := NewLineItem(7, decimal.RequireFromString("10.005"), decimal.Zero, "Compra")
	require.NoError(t, err)
	assert.Equal(t, uint(7), item.AccountID)
	assert.Equal(t, "10.01", item.Debit.StringFixed(2))

	_, err = NewLineItem(0, decimal.NewFromInt(1), decimal.Zero, "")
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = NewLineItem(1, decimal.Zero, decimal.NewFromInt(-1), "")
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "Q 1,234.56", FormatMoney(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "Q 0.00", FormatMoney(decimal.Zero))
	assert.Equal(t, "Q -10.00", FormatMoney(decimal.NewFromInt(-10)))
}
