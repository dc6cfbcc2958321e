package domain

import "github.com/shopspring/decimal"

// AssetBalance is a normalized holding: an asset symbol and a net quantity.
// For isolated margin the readers pre-convert per-pair value into the quote
// currency, in which case Asset holds the pair symbol and Quantity the value.
type AssetBalance struct {
	Asset    string
	Quantity decimal.Decimal
}

// FilterPositive drops every entry whose quantity is zero or negative.
// Readers apply it after netting so that dust rows and fully-borrowed
// positions never reach valuation.
func FilterPositive(balances []AssetBalance) []AssetBalance {
	filtered := make([]AssetBalance, 0, len(balances))
	for _, b := range balances {
		if b.Quantity.IsPositive() {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
