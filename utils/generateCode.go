package utils

import (
	"crypto/rand"
	"math/big"
)

// GenerateCode returns a random numeric string of the given length. The
// first digit is never zero so the code keeps its full width when treated
// as a number. Used for password reset codes and order id candidates.
func GenerateCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		max := big.NewInt(10)
		if i == 0 {
			max = big.NewInt(9)
		}
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		d := n.Int64()
		if i == 0 {
			d++
		}
		digits[i] = byte('0' + d)
	}
	return string(digits), nil
}
