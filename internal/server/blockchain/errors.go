package blockchain

import (
	"errors"
	"fmt"
)

// Kind classifies a hard verification failure: an inability to evaluate the
// transaction at all, as opposed to a business-rule mismatch which is
// reported through VerificationResult.
type Kind int

const (
	KindTransactionNotFound Kind = iota
	KindTransactionNotConfirmed
	KindInvalidTransaction
	KindParameterMismatch
	KindNetworkError
	KindContractError
	KindParseError
)

func (k Kind) String() string {
	switch k {
	case KindTransactionNotFound:
		return "transaction not found"
	case KindTransactionNotConfirmed:
		return "transaction not confirmed"
	case KindInvalidTransaction:
		return "invalid transaction"
	case KindParameterMismatch:
		return "parameter mismatch"
	case KindNetworkError:
		return "network error"
	case KindContractError:
		return "contract error"
	case KindParseError:
		return "parse error"
	default:
		return "unknown error"
	}
}

// Error is a hard verification failure with a classification Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from err if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
