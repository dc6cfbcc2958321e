package domain

import "github.com/shopspring/decimal"

// Credential identifies one exchange account: an opaque key/secret pair plus
// a human-readable label. (session, label) is unique within a session.
type Credential struct {
	Label     string
	APIKey    string
	APISecret string
}

// InvestmentConfig holds the configured initial investment for one credential.
// Profit rate is reported as zero when TotalInvestment is zero.
type InvestmentConfig struct {
	Label           string
	TotalInvestment decimal.Decimal
}

// TotalConfiguredInvestment sums investments over all configured credentials,
// regardless of whether their balances could currently be fetched. A failed
// credential still counts its investment against the total, producing a
// pessimistic profit figure during outages.
func TotalConfiguredInvestment(investments []InvestmentConfig) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range investments {
		total = total.Add(inv.TotalInvestment)
	}
	return total
}
