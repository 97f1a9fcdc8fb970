package services

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes amounts in user-facing messages
const CurrencySymbol = "Q"

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders an amount as "Q 1,234.56"
func FormatMoney(amount decimal.Decimal) string {
	return moneyPrinter.Sprintf("%s %.2f", CurrencySymbol, amount.Round(2).InexactFloat64())
}
