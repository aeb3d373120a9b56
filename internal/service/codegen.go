package service

import (
	"crypto/rand"
	"math/big"
)

const (
	codeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	defaultCodeLength = 6
	widenedCodeLength = 8
)

// GenerateCode generates a random short code of the given length using
// crypto/rand with a uniform distribution over the alphabet.
func GenerateCode(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		idx, err := cryptoRandInt(len(codeAlphabet))
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[idx]
	}
	return string(b), nil
}

// cryptoRandInt returns a cryptographically secure random integer in [0, max).
func cryptoRandInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
