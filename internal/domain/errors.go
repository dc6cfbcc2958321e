package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrPricingUnavailable means the exchange pricing endpoint could not be
// reached. A partial price table would silently zero out assets, so this is
// fatal for the aggregation pass that needed it.
var ErrPricingUnavailable = errors.New("pricing unavailable")

// FailureKind classifies why a credential or account read failed.
type FailureKind string

const (
	// FailureAuth bad or expired credential.
	FailureAuth FailureKind = "auth"
	// FailurePermission credential lacks the read scope.
	FailurePermission FailureKind = "permission"
	// FailureTransport network error or timeout, retryable by the caller.
	FailureTransport FailureKind = "transport"
	// FailureAccount account-level read failure without a more specific cause.
	FailureAccount FailureKind = "account_unavailable"
)

// AccountError is a read failure scoped to one account type of one credential.
// The wallet aggregator decides whether it is fatal for the credential;
// classification of the underlying cause happens at the reporting boundary.
type AccountError struct {
	Type  AccountType
	Cause error
}

func (e *AccountError) Error() string {
	return fmt.Sprintf("%s account unavailable: %v", e.Type, e.Cause)
}

func (e *AccountError) Unwrap() error {
	return e.Cause
}

// NewAccountError wraps cause as an account-scoped failure.
func NewAccountError(t AccountType, cause error) *AccountError {
	return &AccountError{Type: t, Cause: cause}
}
