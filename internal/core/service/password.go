package service

import (
	"crypto/rand"
	"math/big"
)

const (
	defaultPasswordLength = 10
	passwordAlphabet      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// generatePassword returns a random alphanumeric string of length n.
//
// The value is a one-time default handed to a freshly provisioned user and is
// expected to be reset out-of-band. Nothing rotates or expires it.
func generatePassword(n int) (string, error) {
	size := big.NewInt(int64(len(passwordAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b[i] = passwordAlphabet[idx.Int64()]
	}
	return string(b), nil
}
