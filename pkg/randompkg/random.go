// Package randompkg provides functionality for generating random test data.
package randompkg

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// IntBetween generates a random integer in [min, max].
func IntBetween(min, max int) int {
	return min + int(Intn(max-min+1))
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// Owner generates a random owner name.
func Owner() string {
	return String(6)
}

// Amount generates a random amount of money in [min, max] with cent precision.
func Amount(min, max int) decimal.Decimal {
	cents := IntBetween(min*100, max*100)
	return decimal.New(int64(cents), -2)
}

// MoneyAmountBetween is Amount formatted as a request string.
func MoneyAmountBetween(min, max int) string {
	return Amount(min, max).StringFixed(2)
}
