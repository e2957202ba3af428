// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidID is returned by ParsePositiveID for non-numeric or
// non-positive input.
var ErrInvalidID = errors.New("invalid id")

// ParsePositiveID parses a base-10 integer path parameter that must be > 0.
// Surrounding whitespace is not tolerated.
//
// Example:
//
//	id, err := utils.ParsePositiveID("42") // 42, nil
//	_, err = utils.ParsePositiveID("0")    // ErrInvalidID
//	_, err = utils.ParsePositiveID("abc")  // ErrInvalidID
func ParsePositiveID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, ErrInvalidID
	}
	return uint(n), nil
}

const (
	// TransactionPrefix starts every generated transaction id.
	TransactionPrefix = "TXN"
	txnSuffixLen      = 10
	txnAlphabet       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewTransactionID returns "TXN" followed by ten random upper-case
// alphanumerics drawn from a v4 UUID.
func NewTransactionID() string {
	u := uuid.New()
	var b strings.Builder
	b.Grow(len(TransactionPrefix) + txnSuffixLen)
	b.WriteString(TransactionPrefix)
	for i := 0; i < txnSuffixLen; i++ {
		b.WriteByte(txnAlphabet[int(u[i])%len(txnAlphabet)])
	}
	return b.String()
}
