package service

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/senbank/backoffice/internal/core/domain"
)

// maxAccountNumberAttempts bounds how many generated numbers are tried before
// registration gives up.
const maxAccountNumberAttempts = 5

var ten = big.NewInt(10)

// generateAccountNumber returns a uniformly random decimal string of
// domain.AccountNumberLength digits. Leading zeros are allowed.
func generateAccountNumber() string {
	var b strings.Builder
	b.Grow(domain.AccountNumberLength)
	for i := 0; i < domain.AccountNumberLength; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String()
}
