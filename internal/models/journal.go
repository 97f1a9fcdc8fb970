package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is one double-entry transaction (asiento contable)
type JournalEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Number      string    `gorm:"column:numero;size:20;uniqueIndex;not null" json:"number"`
	Date        time.Time `gorm:"column:fecha;not null;index" json:"date"`
	Description string    `gorm:"column:descripcion;type:text" json:"description"`
	CreatedBy   *uint     `gorm:"column:creado_por" json:"created_by"`
	CreatedAt   time.Time `gorm:"column:creado_en;autoCreateTime" json:"created_at"`

	// Associations
	Lines []JournalLine `gorm:"foreignKey:EntryID" json:"lines,omitempty"`
}

// TableName specifies the table name for JournalEntry
func (JournalEntry) TableName() string {
	return "asientos_contables"
}

// TotalDebit sums the debit side of the loaded lines
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredit sums the credit side of the loaded lines
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// JournalLine is one posting of an entry to one account
type JournalLine struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	EntryID     uint            `gorm:"column:asiento_id;not null;index" json:"entry_id"`
	AccountID   uint            `gorm:"column:cuenta_id;not null;index" json:"account_id"`
	Debit       decimal.Decimal `gorm:"column:debe;type:decimal(15,2);not null" json:"debit"`
	Credit      decimal.Decimal `gorm:"column:haber;type:decimal(15,2);not null" json:"credit"`
	Description string          `gorm:"column:descripcion;type:text" json:"description"`

	// Associations
	Account *Account `gorm:"foreignKey:AccountID" json:"-"`
}

// TableName specifies the table name for JournalLine
func (JournalLine) TableName() string {
	return "lineas_asiento"
}

// JournalLineResponse is a line with its account resolved for display
type JournalLineResponse struct {
	ID          uint            `json:"id"`
	AccountID   uint            `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalEntryResponse is the JSON response format for entries
type JournalEntryResponse struct {
	ID          uint                  `json:"id"`
	Number      string                `json:"number"`
	Date        time.Time             `json:"date"`
	Description string                `json:"description"`
	CreatedBy   *uint                 `json:"created_by"`
	CreatedAt   time.Time             `json:"created_at"`
	TotalDebit  decimal.Decimal       `json:"total_debit"`
	TotalCredit decimal.Decimal       `json:"total_credit"`
	Lines       []JournalLineResponse `json:"lines"`
}

// ToResponse converts JournalEntry to JournalEntryResponse.
// Lines whose account is missing keep empty code and name.
func (e *JournalEntry) ToResponse() JournalEntryResponse {
	lines := make([]JournalLineResponse, 0, len(e.Lines))
	for _, l := range e.Lines {
		resp := JournalLineResponse{
			ID:          l.ID,
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
		if l.Account != nil {
			resp.AccountCode = l.Account.Code
			resp.AccountName = l.Account.Name
		}
		lines = append(lines, resp)
	}
	return JournalEntryResponse{
		ID:          e.ID,
		Number:      e.Number,
		Date:        e.Date,
		Description: e.Description,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		TotalDebit:  e.TotalDebit(),
		TotalCredit: e.TotalCredit(),
		Lines:       lines,
	}
}

// JournalSummary aggregates debit and credit over a date-filtered set of entries
type JournalSummary struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	EntryCount  int64           `json:"entry_count"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Difference  decimal.Decimal `json:"difference"`
}
