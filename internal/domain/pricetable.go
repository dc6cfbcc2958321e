package domain

import "github.com/shopspring/decimal"

// PriceTable is a read-only snapshot of all tradable-pair prices in the quote
// currency, fetched once per aggregation pass and shared across valuations.
// A missing pair is not an error: the asset is simply unpriceable and
// contributes nothing to the total.
type PriceTable struct {
	prices map[string]decimal.Decimal
}

// NewPriceTable builds a table from pair symbol -> price. Non-positive prices
// are discarded, they can only come from a malformed exchange response.
func NewPriceTable(prices map[string]decimal.Decimal) *PriceTable {
	table := make(map[string]decimal.Decimal, len(prices))
	for symbol, price := range prices {
		if price.IsPositive() {
			table[symbol] = price
		}
	}
	return &PriceTable{prices: table}
}

// PriceOf returns the price for a pair symbol (base+quote concatenation).
// ok is false when the pair is not traded.
func (p *PriceTable) PriceOf(pair string) (decimal.Decimal, bool) {
	price, ok := p.prices[pair]
	return price, ok
}

// Len returns the number of priced pairs.
func (p *PriceTable) Len() int {
	return len(p.prices)
}
