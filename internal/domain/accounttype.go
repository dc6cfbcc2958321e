// Package domain defines core data structures used throughout the wallet tracker.
package domain

// AccountType identifies one of the exchange account kinds a credential can hold.
type AccountType string

const (
	// AccountTypeSpot spot wallet.
	AccountTypeSpot AccountType = "spot"
	// AccountTypeUSDTFutures USDT-margined futures wallet.
	AccountTypeUSDTFutures AccountType = "usdt_futures"
	// AccountTypeCoinFutures coin-margined futures wallet.
	AccountTypeCoinFutures AccountType = "coin_futures"
	// AccountTypeCrossMargin cross margin wallet.
	AccountTypeCrossMargin AccountType = "cross_margin"
	// AccountTypeIsolatedMargin isolated margin wallet.
	AccountTypeIsolatedMargin AccountType = "isolated_margin"
)

// AllAccountTypes returns every account type in a fixed order.
// The order is stable so that aggregation output and tests stay deterministic.
func AllAccountTypes() []AccountType {
	return []AccountType{
		AccountTypeSpot,
		AccountTypeUSDTFutures,
		AccountTypeCoinFutures,
		AccountTypeCrossMargin,
		AccountTypeIsolatedMargin,
	}
}

// String returns the string representation.
func (t AccountType) String() string {
	return string(t)
}

// IsValid checks if the AccountType value is valid.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeSpot, AccountTypeUSDTFutures, AccountTypeCoinFutures,
		AccountTypeCrossMargin, AccountTypeIsolatedMargin:
		return true
	}
	return false
}

// FatalOnFailure reports whether a read failure for this account type fails
// the whole credential. Spot and USDT futures are the backbone accounts: if
// they cannot be read the credential's total would be meaningless. Margin and
// coin futures may simply never have been enabled, so they degrade to zero.
func (t AccountType) FatalOnFailure() bool {
	return t == AccountTypeSpot || t == AccountTypeUSDTFutures
}
