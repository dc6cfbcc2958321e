package clients

import (
	"context"
	"fmt"
	"net"

	"github.com/adshao/go-binance/v2/common"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

// Binance API error codes that matter for failure classification.
const (
	codeInvalidTimestamp = -1021
	codeInvalidSignature = -1022
	codeBadParameter     = -1102
	codeInvalidAPIKey    = -2014
	codeNoPermission     = -2015
	codeInternalError    = -1001
)

// Classify maps a raw exchange error onto the failure taxonomy. Credential
// problems (bad key, bad signature) are auth, missing read scope is
// permission, network trouble and exchange hiccups are transport, everything
// else is a generic account failure.
func Classify(err error) domain.FailureKind {
	if err == nil {
		return domain.FailureAccount
	}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case codeInvalidAPIKey, codeInvalidSignature:
			return domain.FailureAuth
		case codeNoPermission:
			return domain.FailurePermission
		case codeInvalidTimestamp, codeInternalError:
			return domain.FailureTransport
		default:
			return domain.FailureAccount
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.FailureTransport
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.FailureTransport
	}

	return domain.FailureAccount
}

// FriendlyMessage renders a short human-readable reason for a failed
// credential, translating the well-known Binance codes.
func FriendlyMessage(err error) string {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case codeNoPermission:
			return "API key has no read permission or IP is not whitelisted"
		case codeInvalidAPIKey:
			return "invalid API key"
		case codeInvalidSignature:
			return "invalid API signature"
		case codeInvalidTimestamp:
			return "request timestamp out of sync with exchange"
		case codeBadParameter:
			return "malformed request parameter"
		default:
			return fmt.Sprintf("exchange error (code %d): %s", apiErr.Code, apiErr.Message)
		}
	}
	return err.Error()
}
