// Package valuator converts normalized balance lists into a quote-currency
// total using the shared price table.
package valuator

import (
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

// Value reduces a balance list to its quote-currency total.
//
// Isolated margin entries are already pre-converted by the reader, so they
// are summed directly. For every other account type the quote asset counts
// as-is and any other asset is multiplied by the <asset><quote> pair price;
// assets without a traded pair are unpriceable and contribute nothing.
//
// Accumulation is decimal throughout: summing hundreds of small float terms
// would drift.
func Value(balances []domain.AssetBalance, prices *domain.PriceTable, accountType domain.AccountType, quote string) decimal.Decimal {
	total := decimal.Zero

	if accountType == domain.AccountTypeIsolatedMargin {
		for _, b := range balances {
			total = total.Add(b.Quantity)
		}
		return total
	}

	for _, b := range balances {
		if b.Asset == quote {
			total = total.Add(b.Quantity)
			continue
		}
		price, ok := prices.PriceOf(b.Asset + quote)
		if !ok {
			continue
		}
		total = total.Add(b.Quantity.Mul(price))
	}

	return total
}
