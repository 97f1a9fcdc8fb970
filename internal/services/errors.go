package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Common service errors
var (
	ErrNotFound           = errors.New("registro no encontrado")
	ErrUnbalanced         = errors.New("la partida no está cuadrada")
	ErrDuplicateNumber    = errors.New("número de asiento duplicado")
	ErrUnknownAccount     = errors.New("la cuenta no existe")
	ErrInactiveAccount    = errors.New("la cuenta está inactiva")
	ErrInvalidEntry       = errors.New("asiento inválido")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInvalidPassword    = errors.New("contraseña inválida")
)

// UnbalancedError reports the totals of an entry whose debits and credits differ
type UnbalancedError struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("La partida no está cuadrada. Debe: %s, Haber: %s, Diferencia: %s",
		FormatMoney(e.Debit), FormatMoney(e.Credit), FormatMoney(e.Difference()))
}

func (e *UnbalancedError) Unwrap() error { return ErrUnbalanced }

// Difference is debit minus credit
func (e *UnbalancedError) Difference() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// DuplicateNumberError reports an entry number already in use
type DuplicateNumberError struct {
	Number string
}

func (e *DuplicateNumberError) Error() string {
	return fmt.Sprintf("El número de asiento %s ya existe", e.Number)
}

func (e *DuplicateNumberError) Unwrap() error { return ErrDuplicateNumber }

// LineAccountError identifies the line (1-based) whose account cannot be used
type LineAccountError struct {
	Line      int
	AccountID uint
	Label     string
	Err       error
}

func (e *LineAccountError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("Línea %d: la cuenta con ID %d no existe", e.Line, e.AccountID)
	}
	return fmt.Sprintf("Línea %d: la cuenta %s está inactiva", e.Line, e.Label)
}

func (e *LineAccountError) Unwrap() error { return e.Err }

// IsDomainError reports whether err is an expected, recoverable failure of a ledger operation
func IsDomainError(err error) bool {
	return errors.Is(err, ErrUnbalanced) ||
		errors.Is(err, ErrDuplicateNumber) ||
		errors.Is(err, ErrUnknownAccount) ||
		errors.Is(err, ErrInactiveAccount) ||
		errors.Is(err, ErrInvalidEntry) ||
		errors.Is(err, ErrInvalidPassword) ||
		errors.Is(err, ErrNotFound)
}
