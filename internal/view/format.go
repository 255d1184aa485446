package view

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/banking-view/internal/service"
)

// frenchFormat groups thousands with a narrow no-break space and uses a
// decimal comma with two fraction digits.
const frenchFormat = "#\u202F###,##"

// FormatAmount renders an amount for display, e.g. "1\u202F234,50 EUR". The
// float conversion happens here only; no arithmetic is done on it.
func FormatAmount(amount decimal.Decimal, currency string) string {
	formatted := humanize.FormatFloat(frenchFormat, amount.Round(2).InexactFloat64())
	if currency == "" {
		return formatted
	}
	return formatted + " " + currency
}

// SignedAmount prefixes the absolute amount with the transaction's
// display polarity.
func SignedAmount(tx service.Transaction, currency string) string {
	return tx.Polarity() + FormatAmount(tx.Amount.Abs(), currency)
}
