// internal/utils/codes.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// randomHex returns n random hex characters, uppercased.
func randomHex(n int) string {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process is in serious trouble; fall
		// back to a time-derived suffix rather than returning an error from
		// every code generator.
		return strings.ToUpper(fmt.Sprintf("%x", time.Now().UnixNano()))[:n]
	}
	return strings.ToUpper(hex.EncodeToString(b))[:n]
}

// Code generators use random suffixes without a uniqueness retry against the
// database. Collisions are statistically negligible and surface as a unique
// index violation.

func GenerateLoanCode() string {
	return "L-" + randomHex(8)
}

func GenerateItemCode() string {
	return "I-" + randomHex(8)
}

func GeneratePaymentNumber() string {
	return "P-" + randomHex(8)
}

func GenerateTransactionNumber() string {
	return "T-" + randomHex(8)
}

func GenerateCustomerCode() string {
	return "C-" + randomHex(8)
}

func GenerateApplicationNumber() string {
	return fmt.Sprintf("APP-%s-%s", time.Now().Format("20060102"), randomHex(8))
}
