package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
)

// GeneratePIN returns a random four-digit access PIN for a table
// session, zero-padded ("0042" is valid).
func GeneratePIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// PINsMatch compares two PIN values independent of surrounding
// whitespace.  The comparison itself is constant time.
func PINsMatch(stored, supplied string) bool {
	a := strings.TrimSpace(stored)
	b := strings.TrimSpace(supplied)
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
