// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const slugCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRandomString returns length characters drawn from lowercase
// letters and digits, safe to use inside a slug.
func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(slugCharset))))
		if err != nil {
			return "", err
		}
		b[i] = slugCharset[n.Int64()]
	}

	return string(b), nil
}
