package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletValueMap maps every account type to its quote-currency value.
// It always carries all five keys: a failed or empty read is zero, never absent.
type WalletValueMap map[AccountType]decimal.Decimal

// NewWalletValueMap builds a complete value map from a possibly sparse one.
// This is the single coalesce-to-zero point: any missing account type becomes
// an explicit zero here, so dashboards never see missing columns.
func NewWalletValueMap(values map[AccountType]decimal.Decimal) WalletValueMap {
	out := make(WalletValueMap, len(AllAccountTypes()))
	for _, t := range AllAccountTypes() {
		if v, ok := values[t]; ok {
			out[t] = v
		} else {
			out[t] = decimal.Zero
		}
	}
	return out
}

// Total sums values across all account types.
func (m WalletValueMap) Total() decimal.Decimal {
	total := decimal.Zero
	for _, t := range AllAccountTypes() {
		total = total.Add(m[t])
	}
	return total
}

// Add returns a new map with the per-type sums of m and other.
func (m WalletValueMap) Add(other WalletValueMap) WalletValueMap {
	out := make(WalletValueMap, len(AllAccountTypes()))
	for _, t := range AllAccountTypes() {
		out[t] = m[t].Add(other[t])
	}
	return out
}

// AccountResult is one credential's successfully aggregated wallet values.
type AccountResult struct {
	Label  string         `json:"label"`
	Values WalletValueMap `json:"values"`
}

// CredentialFailure reports a credential whose aggregation fatally failed.
// The credential is excluded from value totals but its configured investment
// still counts.
type CredentialFailure struct {
	Label  string      `json:"label"`
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"reason"`
}

// PortfolioSnapshot is the immutable result of one aggregation pass across
// all configured credentials, and the unit handed to the snapshot store.
type PortfolioSnapshot struct {
	Accounts        []AccountResult     `json:"accounts"`
	Failures        []CredentialFailure `json:"failures,omitempty"`
	Totals          WalletValueMap      `json:"totals"`
	TotalValue      decimal.Decimal     `json:"total_value"`
	TotalInvestment decimal.Decimal     `json:"total_investment"`
	ProfitAmount    decimal.Decimal     `json:"profit_amount"`
	ProfitRate      decimal.Decimal     `json:"profit_rate"`
	RecordedAt      time.Time           `json:"recorded_at"`
}

// ProfitRate computes profit relative to investment as a percentage.
// Zero investment yields zero rate, never a division by zero.
func ProfitRate(totalValue, totalInvestment decimal.Decimal) decimal.Decimal {
	if totalInvestment.IsZero() {
		return decimal.Zero
	}
	return totalValue.Sub(totalInvestment).
		Div(totalInvestment).
		Mul(decimal.NewFromInt(100))
}
