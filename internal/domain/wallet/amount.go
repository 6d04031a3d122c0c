// Package wallet implements the wallet domain: key encoding, amounts,
// transaction records, and the composite operations over the store.
package wallet

import (
	"regexp"
	"strings"

	domainerrors "github.com/altpay/wallet/internal/domain/errors"
)

// Amount is a positive monetary amount in the smallest currency unit
// (1/1,000,000 of the base currency). It wraps a validated decimal
// string instead of an integer so 20-digit amounts survive intact.
//
// Value Object: immutable and self-validating.
type Amount struct {
	digits string
}

var amountPattern = regexp.MustCompile(`^\d{1,20}$`)

// ParseAmount validates s as a positive decimal integer of at most 20
// digits. Zero and non-numeric input are rejected.
func ParseAmount(s string) (Amount, error) {
	if !amountPattern.MatchString(s) {
		return Amount{}, domainerrors.ErrInvalidAmount
	}

	normalized := strings.TrimLeft(s, "0")
	if normalized == "" {
		// all zeros
		return Amount{}, domainerrors.ErrInvalidAmount
	}

	return Amount{digits: normalized}, nil
}

// String returns the normalized decimal representation.
func (a Amount) String() string {
	return a.digits
}

// IsZero reports whether the amount is the zero value.
func (a Amount) IsZero() bool {
	return a.digits == ""
}
