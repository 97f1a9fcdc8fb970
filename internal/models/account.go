package models

// Account is a node of the chart of accounts
type Account struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"column:codigo;size:20;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"column:nombre;size:100;not null" json:"name"`
	Category    string `gorm:"column:tipo;size:20" json:"category"`
	Description string `gorm:"column:descripcion;type:text" json:"description"`
	Active      bool   `gorm:"column:activa;not null" json:"active"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "cuentas_contables"
}

// Category constants. Stored values are the ones used by existing ledgers.
const (
	CategoryAsset     = "activo"
	CategoryLiability = "pasivo"
	CategoryEquity    = "patrimonio"
	CategoryIncome    = "ingreso"
	CategoryExpense   = "gasto"
)

// IsValidCategory reports whether c is one of the known account categories
func IsValidCategory(c string) bool {
	switch c {
	case CategoryAsset, CategoryLiability, CategoryEquity, CategoryIncome, CategoryExpense:
		return true
	}
	return false
}

// AccountRef is the display data of an account referenced by a journal line
type AccountRef struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Ref returns the display reference of the account
func (a *Account) Ref() AccountRef {
	return AccountRef{ID: a.ID, Code: a.Code, Name: a.Name}
}

// Label returns "code - name", the form used in validation messages
func (a *Account) Label() string {
	return a.Code + " - " + a.Name
}
